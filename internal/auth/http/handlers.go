// Package http serves the authentication pages and the /api/auth wildcard
// that fronts the session provider.
package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/launchpad-starter/launchpad/internal/auth"
	"github.com/launchpad-starter/launchpad/internal/forms"
	"github.com/launchpad-starter/launchpad/internal/web"
)

type Handler struct {
	provider *auth.Provider
}

func NewHandler(provider *auth.Provider) *Handler {
	return &Handler{provider: provider}
}

// Register mounts the form routes. The guest gate lives on the group so the
// guard applies to GET and POST alike.
func (h *Handler) Register(r *gin.Engine) {
	guest := r.Group("/auth")
	guest.Use(auth.RequireGuest(h.provider))
	guest.Use(Throttle())
	guest.GET("/login", h.loginForm)
	guest.POST("/login", h.login)
	guest.GET("/register", h.registerForm)
	guest.POST("/register", h.register)

	r.POST("/logout", h.logout)
}

func (h *Handler) loginForm(c *gin.Context) {
	web.Render(c, http.StatusOK, "login", "Sign in", gin.H{
		"Form":       &forms.Result{},
		"RedirectTo": c.Query(auth.RedirectToParam),
	})
}

func (h *Handler) login(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "bad form submission")
		return
	}

	res := loginSchema().Parse(c.Request.PostForm)
	if !res.Valid() {
		h.renderLogin(c, res)
		return
	}

	pair, err := h.provider.SignInEmail(c.Request.Context(), res.Get("email"), res.Get("password"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrBadCredentials):
			res.AddFormError("Invalid email or password")
		case errors.Is(err, auth.ErrThrottled):
			res.AddFormError("Too many attempts. Please try again later.")
		default:
			log.Printf("sign-in: %v", err)
			res.AddFormError("Failed to sign in. Please try again.")
		}
		h.renderLogin(c, res)
		return
	}

	auth.SetSessionCookies(c, pair)
	c.Redirect(http.StatusSeeOther,
		auth.SafeReturnPath(c.Query(auth.RedirectToParam), auth.DashboardPath))
}

func (h *Handler) renderLogin(c *gin.Context, res *forms.Result) {
	web.Render(c, http.StatusOK, "login", "Sign in", gin.H{
		"Form":       res,
		"RedirectTo": c.Query(auth.RedirectToParam),
	})
}

func (h *Handler) registerForm(c *gin.Context) {
	web.Render(c, http.StatusOK, "register", "Create an account", gin.H{
		"Form": &forms.Result{},
	})
}

func (h *Handler) register(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "bad form submission")
		return
	}

	res := registerSchema().Parse(c.Request.PostForm)
	if !res.Valid() {
		h.renderRegister(c, res)
		return
	}

	pair, err := h.provider.SignUpEmail(c.Request.Context(),
		res.Get("username"), res.Get("email"), res.Get("password"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			res.FieldErrors["email"] = append(res.FieldErrors["email"], "This email is already registered")
		case errors.Is(err, auth.ErrThrottled):
			res.AddFormError("Too many attempts. Please try again later.")
		default:
			log.Printf("sign-up: %v", err)
			res.AddFormError("Failed to create account. Please try again.")
		}
		h.renderRegister(c, res)
		return
	}

	auth.SetSessionCookies(c, pair)
	c.Redirect(http.StatusSeeOther, auth.DashboardPath)
}

func (h *Handler) renderRegister(c *gin.Context, res *forms.Result) {
	web.Render(c, http.StatusOK, "register", "Create an account", gin.H{
		"Form": res,
	})
}

func (h *Handler) logout(c *gin.Context) {
	access, _ := c.Cookie(auth.AccessCookie)
	if err := h.provider.SignOut(c.Request.Context(), access); err != nil {
		// Session destruction is best-effort; the cookies go either way.
		log.Printf("sign-out: %v", err)
	}
	auth.ClearSessionCookies(c)
	c.Redirect(http.StatusSeeOther, "/")
}
