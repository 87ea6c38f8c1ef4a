package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/eventbus"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/events"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
)

// SubscribedTypes are the event types Subscribe attaches to when none are
// given: every user-addressed type of the taxonomy.
func SubscribedTypes() []string {
	var out []string
	for _, t := range events.Known() {
		if events.Domain(t) != events.DomainSystem {
			out = append(out, t)
		}
	}
	return out
}

// Subscribe attaches the dispatcher to bus for types, or SubscribedTypes when
// types is empty. The subscriptions are released by Close.
func (d *Dispatcher) Subscribe(bus *eventbus.Bus, types ...string) {
	if len(types) == 0 {
		types = SubscribedTypes()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	for _, t := range types {
		d.unsubs = append(d.unsubs, bus.Subscribe(t, d.handleEvent, eventbus.Named("dispatcher")))
	}
}

// handleEvent never returns an error: failures are logged here so the bus
// does not count expected delivery problems as subscriber failures.
func (d *Dispatcher) handleEvent(ctx context.Context, ev eventbus.Event) error {
	userID, ok := ev.UserID()
	if !ok {
		d.logger.LogAttrs(ctx, slog.LevelDebug, "event without user id ignored", logger.EventType(ev.Type))
		return nil
	}
	if ev.Type == events.UserUpdated {
		d.InvalidateUser(userID)
	}

	outcome, err := d.ProcessNotification(ctx, userID, ev.Type, ev.Payload, d.IsImmediate(ev.Type))
	if err != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "notification email not delivered",
			logger.UserID(userID),
			logger.EventType(ev.Type),
			slog.String("outcome", outcome.String()),
			logger.Error(err),
		)
	}
	return nil
}

// Start schedules the digest flush and cache cleanup jobs. Jobs run with ctx
// and never overlap themselves.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.cron != nil {
		return ErrAlreadyStarted
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(every(d.cfg.DigestInterval), func() { d.flushTick(ctx) }); err != nil {
		return fmt.Errorf("dispatcher: schedule digest flush: %w", err)
	}
	if _, err := c.AddFunc(every(d.cfg.CleanupInterval), func() { d.cleanupTick(ctx) }); err != nil {
		return fmt.Errorf("dispatcher: schedule cache cleanup: %w", err)
	}
	c.Start()
	d.cron = c

	d.logger.LogAttrs(ctx, slog.LevelInfo, "dispatcher started",
		slog.Duration("digest_interval", d.cfg.DigestInterval),
		slog.Duration("cleanup_interval", d.cfg.CleanupInterval),
	)
	return nil
}

func every(d time.Duration) string {
	return "@every " + d.String()
}

func (d *Dispatcher) flushTick(ctx context.Context) {
	defer d.recoverTick(ctx, "digest_flush")
	if _, err := d.FlushDigests(ctx); err != nil && !d.isClosed() {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "digest flush incomplete", logger.Error(err))
	}
}

func (d *Dispatcher) cleanupTick(ctx context.Context) {
	defer d.recoverTick(ctx, "cache_cleanup")
	if n := d.CleanupCaches(d.now()); n > 0 {
		d.logger.LogAttrs(ctx, slog.LevelDebug, "caches cleaned", logger.Count("removed", n))
	}
}

func (d *Dispatcher) recoverTick(ctx context.Context, job string) {
	if r := recover(); r != nil {
		d.logger.LogAttrs(ctx, slog.LevelError, "background job panicked",
			slog.String("job", job),
			slog.Any("panic", r),
		)
	}
}

// Close releases the bus subscriptions, stops both jobs and empties caches
// and queues. A job already running is not waited for. Close is idempotent.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	unsubs := d.unsubs
	d.unsubs = nil
	c := d.cron
	d.cron = nil
	d.queues = make(map[string][]QueueEntry)
	d.lastSend = make(map[string]time.Time)
	d.userCache.Clear()
	d.prefCache.Clear()
	d.recent.Clear()
	d.metrics.DigestQueueDepth.Set(0)
	d.mu.Unlock()

	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
	if c != nil {
		c.Stop()
	}
	return nil
}
