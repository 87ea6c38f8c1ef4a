package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/async"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/events"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/metrics"
)

type subscription struct {
	id      uint64
	name    string
	handler Handler
}

// Bus is an in-memory, single-process event bus. The zero value is not
// usable; create one with New.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]*subscription
	middleware  []Middleware
	nextID      atomic.Uint64

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a bus with no subscribers and no middleware.
func New(opts ...Option) *Bus {
	b := &Bus{
		subscribers: make(map[string][]*subscription),
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.metrics = metrics.OrNop(b.metrics)
	return b
}

// Subscribe registers handler for eventType and returns a function that
// removes exactly this registration. The returned function is idempotent.
// Subscribing the same handler twice creates two independent registrations.
//
// It panics on an invalid event type or a nil handler.
func (b *Bus) Subscribe(eventType string, handler Handler, opts ...SubscribeOption) (unsubscribe func()) {
	if !events.Valid(eventType) {
		panic(fmt.Errorf("%w: %q", ErrInvalidEventType, eventType))
	}
	if handler == nil {
		panic("eventbus: Subscribe called with nil handler")
	}

	sub := &subscription{id: b.nextID.Add(1), handler: handler}
	for _, opt := range opts {
		opt(sub)
	}
	if sub.name == "" {
		sub.name = fmt.Sprintf("%s#%d", eventType, sub.id)
	}

	b.mu.Lock()
	b.subscribers[eventType] = append(b.subscribers[eventType], sub)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(eventType, sub.id) })
	}
}

func (b *Bus) remove(eventType string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[eventType]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		// Copy instead of shifting in place: published snapshots may still
		// reference the old backing array.
		rest := make([]*subscription, 0, len(subs)-1)
		rest = append(rest, subs[:i]...)
		rest = append(rest, subs[i+1:]...)
		if len(rest) == 0 {
			delete(b.subscribers, eventType)
		} else {
			b.subscribers[eventType] = rest
		}
		return
	}
}

// Use appends a global middleware. Middleware runs in registration order.
func (b *Bus) Use(mw Middleware) {
	if mw == nil {
		panic("eventbus: Use called with nil middleware")
	}
	b.mu.Lock()
	b.middleware = append(b.middleware, mw)
	b.mu.Unlock()
}

// Publish delivers payload as an event of eventType. See the package
// documentation for ordering and failure semantics.
func (b *Bus) Publish(ctx context.Context, eventType string, payload map[string]any) error {
	if !events.Valid(eventType) {
		return fmt.Errorf("%w: %q", ErrInvalidEventType, eventType)
	}

	ev := Event{Type: eventType, Payload: maps.Clone(payload), Timestamp: b.now()}
	if ev.Payload == nil {
		ev.Payload = map[string]any{}
	}

	b.mu.RLock()
	chain := b.middleware
	b.mu.RUnlock()

	for _, mw := range chain {
		next, err := mw(ctx, ev)
		if errors.Is(err, ErrCancel) {
			b.metrics.EventsCancelled.WithLabelValues(eventType).Inc()
			b.logger.LogAttrs(ctx, slog.LevelDebug, "event cancelled by middleware", logger.EventType(eventType))
			return nil
		}
		if err != nil {
			return errors.Join(ErrMiddleware, err)
		}
		if next.Type != eventType {
			return errors.Join(ErrMiddleware, fmt.Errorf("event type changed from %q to %q", eventType, next.Type))
		}
		ev = next
	}

	b.mu.RLock()
	subs := b.subscribers[eventType]
	b.mu.RUnlock()

	if len(subs) == 0 {
		return nil
	}
	b.metrics.EventsPublished.WithLabelValues(eventType).Inc()

	futures := make([]*async.Future[struct{}], len(subs))
	for i, s := range subs {
		futures[i] = async.Async(ctx, ev, func(ctx context.Context, ev Event) (struct{}, error) {
			return struct{}{}, s.handler(ctx, ev)
		})
	}

	for i, res := range async.Settle(futures...) {
		if res.Err == nil {
			continue
		}
		b.metrics.HandlerFailures.WithLabelValues(eventType).Inc()
		b.logger.LogAttrs(ctx, slog.LevelError, "event handler failed",
			logger.EventType(eventType),
			logger.Handler(subs[i].name),
			logger.Error(res.Err),
		)
	}

	return nil
}

// Clear removes every subscription and middleware. Unsubscribe functions
// returned earlier become no-ops.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers = make(map[string][]*subscription)
	b.middleware = nil
}

// HasSubscribers reports whether at least one handler is registered for eventType.
func (b *Bus) HasSubscribers(eventType string) bool {
	return b.SubscriberCount(eventType) > 0
}

// SubscriberCount returns the number of registrations for eventType.
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[eventType])
}

// Types returns the event types with at least one subscriber.
func (b *Bus) Types() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	types := make([]string, 0, len(b.subscribers))
	for t := range b.subscribers {
		types = append(types, t)
	}
	return types
}
