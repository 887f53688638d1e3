package bootstrap

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/launchpad-starter/launchpad/internal/api/http"
	"github.com/launchpad-starter/launchpad/internal/api/http/middleware"
	"github.com/launchpad-starter/launchpad/internal/auth"
	authhttp "github.com/launchpad-starter/launchpad/internal/auth/http"
	"github.com/launchpad-starter/launchpad/internal/projects"
	"github.com/launchpad-starter/launchpad/internal/web"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	BaseURL     string
	DB          *pgxpool.Pool
	RDB         *redis.Client
	Provider    *auth.Provider
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())

	r.SetHTMLTemplate(web.Templates())
	r.StaticFS("/static", http.FS(web.Static()))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{dep.BaseURL},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.RDB)
	healthHandler.RegisterRoutes(r)

	r.GET("/", auth.OptionalAuth(dep.Provider), web.Landing)

	authHandler := authhttp.NewHandler(dep.Provider)
	authHandler.Register(r)
	authHandler.RegisterAPI(r)

	projectRepo := projects.NewRepo(dep.DB)

	dash := r.Group(auth.DashboardPath)
	dash.Use(auth.RequireAuth(dep.Provider))
	projects.Register(dash, projectRepo)

	return r
}
