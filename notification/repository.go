package notification

import (
	"context"
	"time"

	"kitchen/database"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

type (
	Notification struct {
		Id        uint64    `db:"id" json:"id" goqu:"skipinsert,skipupdate"`
		Event     EventType `db:"event" json:"event"`
		Message   string    `db:"message" json:"message"`
		CreatedAt time.Time `db:"created_at" json:"created_at"`
	}

	Repository interface {
		GetNotifications(ctx context.Context) ([]*Notification, error)
		SaveNotification(ctx context.Context, notification *Notification) (*Notification, error)
	}

	goquRepository struct {
		builder *goqu.Database
	}

	inMemoryRepository struct {
		notifications []*Notification
	}
)

func NewRepository(conn *database.Connection) Repository {
	builder := goqu.New(conn.Driver, conn.DB)
	return &goquRepository{builder}
}

func (r *goquRepository) GetNotifications(ctx context.Context) ([]*Notification, error) {
	notifications := make([]*Notification, 0)

	err := r.builder.
		Select().
		From(goqu.T("notifications")).
		Order(goqu.I("created_at").Desc()).
		Limit(20).
		ScanStructsContext(ctx, &notifications)

	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *goquRepository) SaveNotification(ctx context.Context, notification *Notification) (*Notification, error) {
	notification.CreatedAt = time.Now()

	result, err := r.builder.
		Insert(goqu.T("notifications")).
		Rows(notification).
		Executor().
		ExecContext(ctx)

	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	notification.Id = uint64(id)

	return notification, nil
}

func NewInMemoryRepository() Repository {
	return &inMemoryRepository{notifications: make([]*Notification, 0)}
}

func (r *inMemoryRepository) GetNotifications(ctx context.Context) ([]*Notification, error) {
	return r.notifications, nil
}

func (r *inMemoryRepository) SaveNotification(ctx context.Context, notification *Notification) (*Notification, error) {
	notification.Id = uint64(len(r.notifications) + 1)
	notification.CreatedAt = time.Now()
	r.notifications = append(r.notifications, notification)
	return notification, nil
}
