package auth

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/launchpad-starter/launchpad/internal/users"
)

const (
	// RedirectToParam carries the originally requested path through the
	// login flow so a successful sign-in can return the user there.
	RedirectToParam = "redirectTo"

	LoginPath     = "/auth/login"
	DashboardPath = "/dashboard"

	ctxUserKey = "auth_user"
)

// RequireAuth gates a route group on a valid session. Without one the
// request short-circuits into a redirect to the login page carrying the
// original path; with one the user lands in the gin context.
func RequireAuth(sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := sessions.SessionFromRequest(c)
		if err != nil {
			q := url.Values{RedirectToParam: {c.Request.URL.Path}}
			c.Redirect(http.StatusFound, LoginPath+"?"+q.Encode())
			c.Abort()
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// RequireGuest is the inverse gate for login/register: an already
// authenticated user is sent to the dashboard instead.
func RequireGuest(sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := sessions.SessionFromRequest(c); err == nil {
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves the session when present but never redirects; the
// landing page uses it to render a session-aware header.
func OptionalAuth(sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := sessions.SessionFromRequest(c); err == nil {
			c.Set(ctxUserKey, user)
		}
		c.Next()
	}
}

// CurrentUser returns the user placed in the context by RequireAuth.
func CurrentUser(c *gin.Context) (users.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return users.User{}, false
	}
	user, ok := v.(users.User)
	return user, ok
}

// SafeReturnPath accepts a redirectTo value only when it is a local absolute
// path, preventing open redirects through the login form.
func SafeReturnPath(raw, fallback string) string {
	if raw == "" || raw[0] != '/' {
		return fallback
	}
	if len(raw) > 1 && raw[1] == '/' {
		// Protocol-relative URLs escape the origin.
		return fallback
	}
	return raw
}
