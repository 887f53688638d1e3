package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/launchpad-starter/launchpad/internal/auth"
)

// RegisterAPI mounts the catch-all provider surface at /api/auth/*. The
// application does not interpret this traffic beyond routing it; payload
// semantics belong to the session provider.
func (h *Handler) RegisterAPI(r *gin.Engine) {
	r.Any("/api/auth/*action", h.dispatch)
}

func (h *Handler) dispatch(c *gin.Context) {
	action := c.Param("action")

	switch {
	case action == "/google/start" && c.Request.Method == http.MethodPost:
		h.googleStart(c)
	case action == "/google/callback" && c.Request.Method == http.MethodGet:
		h.googleCallback(c)
	case action == "/refresh" && c.Request.Method == http.MethodPost:
		h.refresh(c)
	case action == "/session" && c.Request.Method == http.MethodGet:
		h.session(c)
	default:
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "unknown auth action"})
	}
}

func (h *Handler) googleStart(c *gin.Context) {
	state := uuid.NewString()
	auth.SetStateCookie(c, state)
	c.Redirect(http.StatusSeeOther, h.provider.GoogleBeginURL(state))
}

func (h *Handler) googleCallback(c *gin.Context) {
	state := auth.TakeStateCookie(c)
	if state == "" || state != c.Query("state") {
		c.Redirect(http.StatusFound, auth.LoginPath)
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, auth.LoginPath)
		return
	}

	pair, err := h.provider.CompleteGoogle(c.Request.Context(), code)
	if err != nil {
		if !errors.Is(err, auth.ErrSocialConflict) {
			log.Printf("google callback: %v", err)
		}
		c.Redirect(http.StatusFound, auth.LoginPath)
		return
	}

	auth.SetSessionCookies(c, pair)
	c.Redirect(http.StatusFound, auth.DashboardPath)
}

func (h *Handler) refresh(c *gin.Context) {
	refresh, err := c.Cookie(auth.RefreshCookie)
	if err != nil || refresh == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing refresh token"})
		return
	}

	pair, err := h.provider.Rotate(c.Request.Context(), refresh)
	if err != nil {
		auth.ClearSessionCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid refresh token"})
		return
	}

	auth.SetSessionCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) session(c *gin.Context) {
	user, err := h.provider.SessionFromRequest(c)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}
