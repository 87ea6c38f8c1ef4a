package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/ratelimiter"
)

// Logging logs every event passing through the chain at debug level.
func Logging(log *slog.Logger) Middleware {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx context.Context, ev Event) (Event, error) {
		attrs := []slog.Attr{logger.EventType(ev.Type), slog.Int("payload_keys", len(ev.Payload))}
		if uid, ok := ev.UserID(); ok {
			attrs = append(attrs, logger.UserID(uid))
		}
		log.LogAttrs(ctx, slog.LevelDebug, "event published", attrs...)
		return ev, nil
	}
}

// RequireUserID rejects events of the listed types whose payload has no
// userId. With no types it applies to every event.
func RequireUserID(types ...string) Middleware {
	return func(_ context.Context, ev Event) (Event, error) {
		if len(types) > 0 && !slices.Contains(types, ev.Type) {
			return ev, nil
		}
		if _, ok := ev.UserID(); !ok {
			return ev, fmt.Errorf("event %q: payload has no userId", ev.Type)
		}
		return ev, nil
	}
}

// KeyFunc derives a rate limit key from an event. An empty key skips limiting.
type KeyFunc func(ev Event) string

// ByUserAndType keys events by "userId:type". Events without a user are not limited.
func ByUserAndType(ev Event) string {
	uid, ok := ev.UserID()
	if !ok {
		return ""
	}
	return uid + ":" + ev.Type
}

// RateLimit cancels events whose key has exhausted its bucket. Limiter
// failures are logged and the event passes.
func RateLimit(limiter ratelimiter.RateLimiter, key KeyFunc, log *slog.Logger) Middleware {
	if limiter == nil {
		panic("eventbus: RateLimit called with nil limiter")
	}
	if key == nil {
		key = ByUserAndType
	}
	if log == nil {
		log = slog.Default()
	}
	return func(ctx context.Context, ev Event) (Event, error) {
		k := key(ev)
		if k == "" {
			return ev, nil
		}
		res, err := limiter.Allow(ctx, k)
		if err != nil {
			log.LogAttrs(ctx, slog.LevelWarn, "event rate limiter unavailable",
				logger.EventType(ev.Type), logger.Error(err))
			return ev, nil
		}
		if !res.Allowed() {
			log.LogAttrs(ctx, slog.LevelInfo, "event rate limited",
				logger.EventType(ev.Type), slog.String("key", k))
			return ev, ErrCancel
		}
		return ev, nil
	}
}
