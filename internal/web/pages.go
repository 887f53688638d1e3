package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Landing renders the marketing page. Signed-in visitors see the same page
// with the nav switched to dashboard links, so the session is resolved
// optimistically by middleware rather than required here.
func Landing(c *gin.Context) {
	Render(c, http.StatusOK, "landing", "Launchpad", gin.H{})
}
