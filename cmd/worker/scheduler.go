package main

import (
	"log"

	"marketplace-backend/internal/infrastructure/queue"
	"marketplace-backend/pkg/container"
)

// asynqScheduler wraps queue.Scheduler with shutdown handling
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(cfg *Config, c *container.Container) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.RedisAddr, c.Config.Jobs)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("[Scheduler] Failed to register: %v", err)
	}

	go func() {
		log.Println("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("[Scheduler] Failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Println("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Println("[Scheduler] Stopped")
}
