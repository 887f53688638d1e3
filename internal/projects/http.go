package projects

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/launchpad-starter/launchpad/internal/auth"
	"github.com/launchpad-starter/launchpad/internal/forms"
	"github.com/launchpad-starter/launchpad/internal/web"
)

// Store is what the handlers need from persistence; *Repo satisfies it and
// tests substitute a fake.
type Store interface {
	Create(ctx context.Context, userID string, in CreateProject) (*Project, error)
	List(ctx context.Context, userID string) ([]Project, error)
	Get(ctx context.Context, userID, publicID string) (*Project, error)
	StatsForUser(ctx context.Context, userID string) (Stats, error)
}

var _ Store = (*Repo)(nil)

type Handler struct {
	store Store
}

// Register mounts the dashboard routes on an already-guarded group.
func Register(rg *gin.RouterGroup, store Store) {
	h := &Handler{store: store}

	rg.GET("", h.home)
	rg.GET("/projects", h.index)
	rg.GET("/projects/new", h.newForm)
	rg.POST("/projects", h.create)
	rg.GET("/projects/:public_id", h.detail)

	// Declared in the UI, intentionally unimplemented for now.
	rg.POST("/projects/:public_id/edit", notImplemented)
	rg.POST("/projects/:public_id/delete", notImplemented)
}

func (h *Handler) home(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	stats, err := h.store.StatsForUser(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("dashboard stats: %v", err)
		stats = Stats{}
	}

	recent, err := h.store.List(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("dashboard recent: %v", err)
		recent = nil
	}
	if len(recent) > 3 {
		recent = recent[:3]
	}

	web.Render(c, http.StatusOK, "dashboard", "Dashboard", gin.H{
		"Stats":  stats,
		"Recent": recent,
	})
}

func (h *Handler) index(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	items, err := h.store.List(c.Request.Context(), user.ID)
	if err != nil {
		log.Printf("project list: %v", err)
		items = nil
	}

	web.Render(c, http.StatusOK, "projects_index", "Projects", gin.H{
		"Projects": items,
	})
}

func (h *Handler) newForm(c *gin.Context) {
	web.Render(c, http.StatusOK, "projects_new", "New project", gin.H{
		"Form": &forms.Result{},
	})
}

func (h *Handler) create(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "bad form submission")
		return
	}

	res := NewProjectSchema().Parse(c.Request.PostForm)
	if !res.Valid() {
		web.Render(c, http.StatusOK, "projects_new", "New project", gin.H{"Form": res})
		return
	}

	_, err := h.store.Create(c.Request.Context(), user.ID, CreateProject{
		Name:        res.Get("name"),
		Description: res.Get("description"),
		StartDate:   res.Date("start_date"),
		Budget:      res.Float("budget"),
		IsPublic:    res.Bool("is_public"),
	})
	if err != nil {
		log.Printf("project create: %v", err)
		res.AddFormError("Failed to create project. Please try again.")
		web.Render(c, http.StatusOK, "projects_new", "New project", gin.H{"Form": res})
		return
	}

	// Redirect-after-post: a refresh re-renders the list, it cannot
	// resubmit the creation.
	c.Redirect(http.StatusSeeOther, "/dashboard/projects")
}

func (h *Handler) detail(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	publicID := c.Param("public_id")

	p, err := h.store.Get(c.Request.Context(), user.ID, publicID)
	if errors.Is(err, ErrNotOwned) {
		// Not yours and nonexistent look identical on purpose.
		c.Redirect(http.StatusFound, "/dashboard/projects")
		return
	}
	if err != nil {
		log.Printf("project detail: %v", err)
		c.Redirect(http.StatusFound, "/dashboard/projects")
		return
	}

	web.Render(c, http.StatusOK, "project_detail", p.Name, gin.H{
		"Project": p,
		"Pending": p.StartDate.After(time.Now()),
	})
}

func notImplemented(c *gin.Context) {
	c.String(http.StatusNotImplemented, "This action is not implemented yet.")
}
