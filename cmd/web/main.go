package main

import (
	"context"
	"log"

	"github.com/launchpad-starter/launchpad/config"
	"github.com/launchpad-starter/launchpad/internal/auth"
	"github.com/launchpad-starter/launchpad/internal/bootstrap"
	"github.com/launchpad-starter/launchpad/internal/maintenance"
	"github.com/launchpad-starter/launchpad/internal/projects"
	"github.com/launchpad-starter/launchpad/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.URL,
		Password: cfg.Database.AuthToken,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	userRepo := users.NewRepo(db)

	provider, err := auth.New(rdb, userRepo, auth.Options{
		SessionSecret:      cfg.Auth.SessionSecret,
		BaseURL:            cfg.Server.BaseURL,
		GoogleClientID:     cfg.Auth.GoogleClientID,
		GoogleClientSecret: cfg.Auth.GoogleClientSecret,
	})
	if err != nil {
		log.Fatalf("auth provider: %v", err)
	}
	defer provider.Close()

	scheduler := maintenance.NewScheduler(projects.NewRepo(db), provider)
	scheduler.Start()
	defer scheduler.Stop()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "launchpad-web",
		Version:     cfg.App.Version,
		BaseURL:     cfg.Server.BaseURL,
		DB:          db,
		RDB:         rdb,
		Provider:    provider,
	})

	log.Printf("launchpad-web %s listening on :%s", cfg.App.Version, cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
