package scheduler_test

import (
	"errors"
	"testing"
	"time"

	"kitchen/scheduler"
)

func TestScheduler(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		counter := make(chan int)
		scheduler := scheduler.NewScheduler()

		scheduler.Add(1, 10*time.Millisecond, func() error {
			counter <- 1
			return nil
		})

		count := <-counter
		if count != 1 {
			t.Errorf("expected count %d, got %d", 1, count)
		}
	})

	t.Run("Retry", func(t *testing.T) {
		counter := make(chan int)
		ready := make(chan bool, 2)
		scheduler := scheduler.NewScheduler()

		scheduler.Add(1, 10*time.Millisecond, func() error {
			select {
			case <-ready:
				counter <- 2
				return nil
			case <-time.After(time.Millisecond):
				ready <- true
				return errors.New("nope")
			}
		})

		count := <-counter
		if count != 2 {
			t.Errorf("expected count %d, got %d", 2, count)
		}
	})

	t.Run("Every", func(t *testing.T) {
		counter := make(chan int)
		scheduler := scheduler.NewScheduler()

		scheduler.Every(1, 10*time.Millisecond, func() error {
			counter <- 1
			return nil
		})

		total := 0
		for total < 3 {
			total += <-counter
		}

		scheduler.Remove(1)

		if total != 3 {
			t.Errorf("expected count %d, got %d", 3, total)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		counter := make(chan int)
		scheduler := scheduler.NewScheduler()

		scheduler.Add(1, time.Second, func() error {
			counter <- 1
			return nil
		})

		scheduler.Remove(1)

		select {
		case <-time.After(70 * time.Millisecond):
		case c := <-counter:
			t.Errorf("should not receive on channel, got: %d", c)
		}
	})
}
