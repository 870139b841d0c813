package queue

import (
	"fmt"
	"time"

	"blog-backend/internal/shared"
	"blog-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	entries   []string
}

func NewScheduler(redisOpt asynq.RedisClientOpt) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterWarmListingsJobs schedules a listing warm-up per kind on cronspec
func (s *Scheduler) RegisterWarmListingsJobs(cronspec string, kinds ...string) error {
	for _, kind := range kinds {
		task, err := NewWarmListingsTask(kind)
		if err != nil {
			return err
		}

		id, err := s.scheduler.Register(
			cronspec,
			task,
			asynq.Queue(shared.QueueLow),
			asynq.MaxRetry(1),
			asynq.Timeout(2*time.Minute),
		)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to register warm listings job for %s", kind), err)
			return err
		}
		s.entries = append(s.entries, id)

		logger.Info("Registered warm listings job", map[string]interface{}{
			"kind":     kind,
			"cronspec": cronspec,
			"entry_id": id,
		})
	}
	return nil
}

// Entries returns the ids of the registered periodic tasks
func (s *Scheduler) Entries() []string {
	return s.entries
}

func (s *Scheduler) Start() error {
	return s.scheduler.Start()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
