package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/launchpad-starter/launchpad/internal/auth"
	"github.com/launchpad-starter/launchpad/internal/projects"
)

type Scheduler struct {
	projects *projects.Repo
	provider *auth.Provider
	cron     *cron.Cron
}

func NewScheduler(projectRepo *projects.Repo, provider *auth.Provider) *Scheduler {
	return &Scheduler{projects: projectRepo, provider: provider}
}

// Start schedules the nightly usage report at 12:00 AM.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.runNightlyReport()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Cron scheduler started (usage report nightly at 12:00AM)")
	c.Start()
	s.cron = c
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) runNightlyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	total, err := s.projects.CountAll(ctx)
	if err != nil {
		log.Printf("Usage report: project count failed: %v", err)
		return
	}

	sessions, err := s.provider.ActiveSessionEstimate(ctx)
	if err != nil {
		log.Printf("Usage report: session estimate failed: %v", err)
		return
	}

	log.Printf("Usage report: %d projects, ~%d active sessions at %s",
		total, sessions, time.Now().Format(time.RFC1123))
}
