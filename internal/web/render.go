package web

import (
	"github.com/gin-gonic/gin"

	"github.com/launchpad-starter/launchpad/internal/auth"
	"github.com/launchpad-starter/launchpad/internal/users"
)

// Render executes a page template with the common keys every view expects:
// Title and User (zero-valued when the request is anonymous).
func Render(c *gin.Context, status int, name, title string, data gin.H) {
	payload := gin.H{
		"Title": title,
		"User":  users.User{},
	}
	if user, ok := auth.CurrentUser(c); ok {
		payload["User"] = user
	}
	for k, v := range data {
		payload[k] = v
	}
	c.HTML(status, name, payload)
}
