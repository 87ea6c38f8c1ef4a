package notifications

import (
	"context"
	"time"
)

// Storage persists notifications. Lookups of missing records return an
// error of kind errs.KindNotFound wrapping ErrNotificationNotFound.
type Storage interface {
	Create(ctx context.Context, notif Notification) error
	Get(ctx context.Context, userID, notifID string) (*Notification, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]Notification, error)

	// MarkRead marks the given notifications of userID read. Unknown ids are ignored.
	MarkRead(ctx context.Context, userID string, notifIDs ...string) error

	Delete(ctx context.Context, userID string, notifIDs ...string) error

	// DeleteExpired removes every notification whose expiry is not after now
	// and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)

	// CountUnread counts unread, unexpired notifications of userID.
	CountUnread(ctx context.Context, userID string) (int, error)
}

// ListOptions filters and paginates List. Results are newest first.
type ListOptions struct {
	Limit      int // 0 means no limit
	Offset     int
	OnlyUnread bool
	Types      []Type
	EventTypes []string
	Since      *time.Time
}
