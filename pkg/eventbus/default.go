package eventbus

import (
	"context"
	"sync"
)

var (
	defaultMu  sync.Mutex
	defaultBus *Bus
)

// Default returns the process-wide bus, creating it on first use.
func Default() *Bus {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultBus == nil {
		defaultBus = New()
	}
	return defaultBus
}

// SetDefault replaces the process-wide bus. main calls it once with a bus
// carrying the service logger and metrics.
func SetDefault(b *Bus) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultBus = b
}

// Publish publishes on the default bus.
func Publish(ctx context.Context, eventType string, payload map[string]any) error {
	return Default().Publish(ctx, eventType, payload)
}

// Subscribe subscribes on the default bus.
func Subscribe(eventType string, handler Handler, opts ...SubscribeOption) func() {
	return Default().Subscribe(eventType, handler, opts...)
}
