package dispatcher

import (
	"log/slog"
	"time"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/metrics"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/preferences"
)

type Option func(*Dispatcher)

// WithLogger sets the logger for send, drop and digest decisions.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics sets the collectors the dispatcher reports to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// WithClock replaces time.Now for throttling, queue timestamps and caches.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithResolver replaces the per-event email preference check.
func WithResolver(r preferences.Resolver) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.resolve = r
		}
	}
}

// WithHandler registers or replaces the email handler for eventType.
// Immediate handlers bypass the cooldown.
func WithHandler(eventType string, immediate bool, send SendFunc) Option {
	return func(d *Dispatcher) {
		if send == nil {
			delete(d.handlers, eventType)
			return
		}
		d.handlers[eventType] = handler{send: send, immediate: immediate}
	}
}
