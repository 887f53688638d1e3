package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie names. Both are HttpOnly; the application never reads token
// contents, it only forwards them to the engine.
const (
	AccessCookie  = "lp_access"
	RefreshCookie = "lp_refresh"
	stateCookie   = "lp_oauth_state"

	accessCookieTTL  = 15 * time.Minute
	refreshCookieTTL = 7 * 24 * time.Hour
	stateCookieTTL   = 10 * time.Minute
)

func secureRequest(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}

func setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secureRequest(c),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secureRequest(c),
		SameSite: http.SameSiteLaxMode,
	})
}

// SetSessionCookies installs a freshly issued pair.
func SetSessionCookies(c *gin.Context, pair TokenPair) {
	setCookie(c, AccessCookie, pair.Access, accessCookieTTL)
	setCookie(c, RefreshCookie, pair.Refresh, refreshCookieTTL)
}

// ClearSessionCookies removes both session cookies.
func ClearSessionCookies(c *gin.Context) {
	clearCookie(c, AccessCookie)
	clearCookie(c, RefreshCookie)
}

// SetStateCookie stores the OAuth state nonce for the duration of the dance.
func SetStateCookie(c *gin.Context, state string) {
	setCookie(c, stateCookie, state, stateCookieTTL)
}

// TakeStateCookie reads and clears the OAuth state nonce.
func TakeStateCookie(c *gin.Context) string {
	state, err := c.Cookie(stateCookie)
	clearCookie(c, stateCookie)
	if err != nil {
		return ""
	}
	return state
}
