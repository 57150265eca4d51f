package notification_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"kitchen/notification"
)

type socket struct {
	mutex  sync.Mutex
	buffer *notification.Notification
}

func (s *socket) Flush() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.buffer == nil {
		return "empty"
	}

	message := s.buffer.Message
	s.buffer = nil

	return message
}

func (s *socket) Event() notification.EventType {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.buffer == nil {
		return ""
	}

	return s.buffer.Event
}

func (s *socket) Write(p []byte) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := json.Unmarshal(p, &s.buffer); err != nil {
		return 0, err
	}

	return len(p), nil
}

func (s *socket) Close() error {
	return nil
}

func TestNotifier(t *testing.T) {
	repository := notification.NewInMemoryRepository()
	notifier := notification.NewNotifier(repository)

	s1, s2 := &socket{}, &socket{}
	notifier.Connect(1, s1)
	notifier.Connect(2, s2)

	t.Run("broadcast", func(t *testing.T) {
		notifier.Broadcast(context.TODO(), notification.StockLow, "Saffron is at or below its reorder level")

		time.Sleep(50 * time.Millisecond)

		if s1.Event() != notification.StockLow {
			t.Errorf("expected event %s, got %s", notification.StockLow, s1.Event())
		}

		if s1.Flush() != "Saffron is at or below its reorder level" {
			t.Error("expected broadcast on first client")
		}

		if s2.Flush() != "Saffron is at or below its reorder level" {
			t.Error("expected broadcast on second client")
		}
	})

	t.Run("persists notifications", func(t *testing.T) {
		saved, err := repository.GetNotifications(context.TODO())
		if err != nil {
			t.Fatalf("could not fetch notifications: %s", err)
		}

		if len(saved) != 1 {
			t.Fatalf("expected %d notification, got %d", 1, len(saved))
		}
		if saved[0].Event != notification.StockLow {
			t.Errorf("expected event %s, got %s", notification.StockLow, saved[0].Event)
		}
		if saved[0].CreatedAt.IsZero() {
			t.Error("should set created at")
		}
	})

	t.Run("disconnect", func(t *testing.T) {
		notifier.Disconnect(1)
		notifier.Broadcast(context.TODO(), notification.StockReceived, "received 2 sack of Flour")

		time.Sleep(50 * time.Millisecond)

		if s1.Flush() != "empty" {
			t.Errorf("expected message %s, got %s", "empty", s1.Flush())
		}

		if s2.Flush() != "received 2 sack of Flour" {
			t.Error("expected broadcast on remaining client")
		}
	})

	t.Run("concurrency", func(t *testing.T) {
		go notifier.Disconnect(1)
		go notifier.Disconnect(2)

		go notifier.Connect(1, s1)
		go notifier.Connect(2, s2)

		go notifier.Broadcast(context.TODO(), notification.BatchesExpired, "removed 1 expired batches across 1 ingredients")
		go notifier.Broadcast(context.TODO(), notification.StockLow, "Flour is at or below its reorder level")
	})
}
