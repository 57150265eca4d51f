package batch

import (
	"context"
	"time"

	"kitchen/logger"
	"kitchen/scheduler"

	"go.uber.org/zap"
)

const cleanupTimerId = 1

// Wraps the batch service with the periodic expiry sweep.
type ScheduledService struct {
	Service
	scheduler *scheduler.Scheduler
}

func NewScheduledService(service Service, timer *scheduler.Scheduler) *ScheduledService {
	return &ScheduledService{service, timer}
}

func (s *ScheduledService) Start(interval time.Duration) {
	s.scheduler.Every(cleanupTimerId, interval, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		summary, err := s.CleanupExpiredBatches(ctx)
		if err != nil {
			return err
		}

		if summary.CleanedBatches > 0 {
			logger.Info(
				"expired batches removed",
				zap.Int("batches", summary.CleanedBatches),
				zap.Int("ingredients", len(summary.Ingredients)),
			)
		}

		return nil
	})
}

func (s *ScheduledService) Stop() {
	s.scheduler.Remove(cleanupTimerId)
}
