package eventbus

import (
	"context"
	"maps"
	"time"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/events"
)

// Event is a typed, timestamped fact broadcast through the bus.
// Handlers must treat it as read-only; the payload map is shared by every
// handler of one publish.
type Event struct {
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// Handler processes one event.
type Handler func(ctx context.Context, ev Event) error

// Middleware inspects an event before fan-out and returns the event to
// deliver, possibly a modified copy. Returning ErrCancel stops delivery.
type Middleware func(ctx context.Context, ev Event) (Event, error)

// UserID returns the payload's target user, if any.
func (e Event) UserID() (string, bool) {
	return events.UserID(e.Payload)
}

// String returns payload[key] when it is a non-empty string.
func (e Event) String(key string) string {
	s, _ := events.String(e.Payload, key)
	return s
}

// With returns a copy of e whose payload has key set to value.
// The original payload is not modified.
func (e Event) With(key string, value any) Event {
	payload := make(map[string]any, len(e.Payload)+1)
	maps.Copy(payload, e.Payload)
	payload[key] = value
	e.Payload = payload
	return e
}

// TimestampISO formats the timestamp as ISO-8601 with millisecond precision.
func (e Event) TimestampISO() string {
	return e.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
