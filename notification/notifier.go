package notification

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"kitchen/logger"

	"go.uber.org/zap"
)

type EventType string

const (
	StockLow       EventType = "stock_low"
	StockReceived            = "stock_received"
	BatchesExpired           = "batches_expired"
)

type (
	Event struct {
		Type    EventType `json:"type"`
		Payload any       `json:"payload"`
	}

	Notifier interface {
		Disconnect(identifier int64)
		Connect(identifier int64, client io.WriteCloser)

		Broadcast(ctx context.Context, event EventType, message string) error
	}

	notifier struct {
		clients    *sync.Map
		repository Repository
		broadcasts chan *Notification
	}

	noOpNotifier struct {
	}
)

func NewNotifier(repository Repository) Notifier {
	notifier := &notifier{
		clients:    &sync.Map{},
		repository: repository,
		broadcasts: make(chan *Notification),
	}

	go notifier.handleMessages()

	return notifier
}

func (n *notifier) handleMessages() {
	for notification := range n.broadcasts {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)

		if err := n.doBroadcast(ctx, notification); err != nil {
			logger.Warn("could not broadcast notification", zap.Error(err))
		}

		cancel()
	}
}

func (n *notifier) Connect(identifier int64, client io.WriteCloser) {
	n.clients.Store(identifier, client)
}

func (n *notifier) Disconnect(identifier int64) {
	n.clients.Delete(identifier)
}

func (n *notifier) Broadcast(ctx context.Context, event EventType, message string) error {
	n.broadcasts <- &Notification{Event: event, Message: message}
	return nil
}

func (n *notifier) doBroadcast(ctx context.Context, notification *Notification) error {
	notification, err := n.repository.SaveNotification(ctx, notification)
	if err != nil {
		return err
	}

	stream, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	n.clients.Range(func(_, client any) bool {
		if _, err := client.(io.WriteCloser).Write(stream); err != nil {
			logger.Warn("could not write to client", zap.Error(err))
		}
		return true
	})

	return nil
}

func NoOpNotifier() Notifier {
	return new(noOpNotifier)
}

func (n *noOpNotifier) Connect(identifier int64, client io.WriteCloser) {
}

func (n *noOpNotifier) Disconnect(identifier int64) {
}

func (n *noOpNotifier) Broadcast(ctx context.Context, event EventType, message string) error {
	return nil
}
