package livepush

import (
	"context"
	"time"
)

// Message is the unit delivered to clients.
type Message struct {
	Event   string         `json:"event"`
	UserID  string         `json:"userId,omitempty"`
	Payload map[string]any `json:"payload"`
	SentAt  time.Time      `json:"sentAt"`
}

// Pusher emits events to live client connections.
type Pusher interface {
	EmitToUser(ctx context.Context, userID, event string, payload map[string]any) bool
	EmitToAll(ctx context.Context, event string, payload map[string]any) bool
}

// Multi emits through every pusher and reports whether any delivered.
type Multi []Pusher

func (m Multi) EmitToUser(ctx context.Context, userID, event string, payload map[string]any) bool {
	delivered := false
	for _, p := range m {
		if p.EmitToUser(ctx, userID, event, payload) {
			delivered = true
		}
	}
	return delivered
}

func (m Multi) EmitToAll(ctx context.Context, event string, payload map[string]any) bool {
	delivered := false
	for _, p := range m {
		if p.EmitToAll(ctx, event, payload) {
			delivered = true
		}
	}
	return delivered
}
