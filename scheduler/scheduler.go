package scheduler

import (
	"sync"
	"time"

	"kitchen/logger"

	"go.uber.org/zap"
)

type Scheduler struct {
	retries *sync.Map
	timers  *sync.Map
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		retries: &sync.Map{},
		timers:  &sync.Map{},
	}
}

// Runs the callback once after the given duration, retrying a single
// time on failure.
func (s *Scheduler) Add(id uint64, duration time.Duration, callback func() error) {
	s.timers.Store(id, time.AfterFunc(duration, func() {
		s.timers.Delete(id)

		if err := callback(); err != nil {
			logger.Warn("scheduled run failed, retrying", zap.Uint64("id", id), zap.Error(err))

			s.retries.Store(id, time.AfterFunc(time.Second, func() {
				s.retries.Delete(id)

				if err := callback(); err != nil {
					logger.Error("could not run callback", zap.Uint64("id", id), zap.Error(err))
				}
			}))
		}
	}))
}

// Runs the callback repeatedly at the given interval until removed.
func (s *Scheduler) Every(id uint64, interval time.Duration, callback func() error) {
	s.timers.Store(id, time.AfterFunc(interval, func() {
		if err := callback(); err != nil {
			logger.Error("scheduled run failed", zap.Uint64("id", id), zap.Error(err))
		}

		if _, ok := s.timers.Load(id); ok {
			s.Every(id, interval, callback)
		}
	}))
}

func (s *Scheduler) Remove(id uint64) {
	if timer, ok := s.timers.LoadAndDelete(id); ok {
		timer.(*time.Timer).Stop()
	}
	if timer, ok := s.retries.LoadAndDelete(id); ok {
		timer.(*time.Timer).Stop()
	}
}
