package eventbus

import (
	"log/slog"
	"time"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/metrics"
)

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger for handler failures and cancellations.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics sets the collectors the bus reports to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bus) {
		if m != nil {
			b.metrics = m
		}
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

// SubscribeOption configures a single subscription.
type SubscribeOption func(*subscription)

// Named labels the subscription in logs.
func Named(name string) SubscribeOption {
	return func(s *subscription) { s.name = name }
}
