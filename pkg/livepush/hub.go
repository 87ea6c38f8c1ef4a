package livepush

import (
	"context"
	"log/slog"
	"time"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/broadcast"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/cache"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
)

// Hub is the in-process Pusher. Transport handlers call Subscribe for every
// open connection and forward what they receive.
type Hub struct {
	users      *cache.LRUCache[string, *broadcast.MemoryBroadcaster[Message]]
	bufferSize int
	maxUsers   int
	logger     *slog.Logger
	now        func() time.Time
}

type HubOption func(*Hub)

func WithHubLogger(l *slog.Logger) HubOption {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMaxUsers bounds the number of users with live broadcasters. The least
// recently used user's connections are closed when the bound is exceeded.
func WithMaxUsers(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.maxUsers = n
		}
	}
}

// WithBufferSize sets the per-connection message buffer.
func WithBufferSize(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

func WithHubClock(now func() time.Time) HubOption {
	return func(h *Hub) {
		if now != nil {
			h.now = now
		}
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		bufferSize: 16,
		maxUsers:   10000,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.users = cache.NewLRUCache[string, *broadcast.MemoryBroadcaster[Message]](h.maxUsers)
	h.users.SetEvictCallback(func(userID string, b *broadcast.MemoryBroadcaster[Message]) {
		if err := b.Close(); err != nil {
			h.logger.LogAttrs(context.Background(), slog.LevelError, "failed to close user broadcaster",
				logger.UserID(userID), logger.Error(err))
		}
	})
	return h
}

// Subscribe opens a live stream for userID that ends with ctx.
func (h *Hub) Subscribe(ctx context.Context, userID string) broadcast.Subscriber[Message] {
	b, _ := h.users.GetOrCreate(userID, func() *broadcast.MemoryBroadcaster[Message] {
		return broadcast.NewMemoryBroadcaster[Message](h.bufferSize)
	})
	return b.Subscribe(ctx)
}

func (h *Hub) EmitToUser(ctx context.Context, userID, event string, payload map[string]any) bool {
	b, ok := h.users.Get(userID)
	if !ok {
		return false
	}
	n, _ := b.Broadcast(ctx, broadcast.Message[Message]{Data: Message{
		Event:   event,
		UserID:  userID,
		Payload: payload,
		SentAt:  h.now(),
	}})
	return n > 0
}

func (h *Hub) EmitToAll(ctx context.Context, event string, payload map[string]any) bool {
	msg := Message{Event: event, Payload: payload, SentAt: h.now()}

	delivered := false
	for _, userID := range h.users.Keys() {
		b, ok := h.users.Peek(userID)
		if !ok {
			continue
		}
		if n, _ := b.Broadcast(ctx, broadcast.Message[Message]{Data: msg}); n > 0 {
			delivered = true
		}
	}
	return delivered
}

// Connected returns the number of users with a live broadcaster.
func (h *Hub) Connected() int {
	return h.users.Len()
}

// Close ends every live stream.
func (h *Hub) Close() error {
	h.users.Clear()
	return nil
}
