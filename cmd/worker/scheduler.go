package main

import (
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/infrastructure/queue"
	"blog-backend/pkg/container"

	"github.com/rs/zerolog/log"
)

// asynqScheduler wraps queue.Scheduler with additional functionality
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler registers the periodic listing warm-up. It returns nil
// when WORKER_WARM_CRON is unset.
func setupScheduler(c *container.Container) *asynqScheduler {
	cronspec := c.Config.Worker.WarmCron
	if cronspec == "" {
		log.Info().Msg("[Scheduler] WORKER_WARM_CRON not set, periodic warm-up disabled")
		return nil
	}

	scheduler := queue.NewScheduler(c.RedisOpt())
	if err := scheduler.RegisterWarmListingsJobs(cronspec, string(model.KindBlog), string(model.KindWebStory)); err != nil {
		log.Fatal().Err(err).Msg("[Scheduler] Failed to register")
	}

	go func() {
		log.Info().Str("cronspec", cronspec).Msg("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("[Scheduler] Failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Info().Msg("[Scheduler] Stopped")
}
