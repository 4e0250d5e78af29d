package jobs

import (
	"context"
	"time"

	"saas-starter-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs cron-triggered tasks in-process. Event-triggered tasks are
// invoked by the durable-execution service instead.
type Scheduler struct {
	registry *Registry
	cron     *cron.Cron
}

// NewScheduler creates a scheduler over the registry's cron tasks
func NewScheduler(registry *Registry) *Scheduler {
	return &Scheduler{
		registry: registry,
		cron:     cron.New(),
	}
}

// Start registers every cron task and starts the scheduler
func (s *Scheduler) Start() error {
	for _, task := range s.registry.Tasks() {
		if task.Cron == "" {
			continue
		}

		task := task
		_, err := s.cron.AddFunc(task.Cron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			log := logger.New().WithField("task", task.Name)
			event := Event{Name: "cron/" + task.Name, Timestamp: time.Now().UTC()}

			if err := task.Handler(ctx, event); err != nil {
				log.WithError(err).Error("scheduled task failed")
				return
			}
			log.Debug("scheduled task completed")
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
