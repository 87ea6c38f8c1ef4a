package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/email"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/errs"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/preferences"
)

// FlushDigests sends one digest per user with queued items.
//
// On success only the items that were sent leave the queue, so items queued
// while the send was in flight wait for the next flush. On failure the queue
// is kept as it was. Users who no longer exist, have no address or turned
// email off lose their queue. The returned error joins every send failure.
func (d *Dispatcher) FlushDigests(ctx context.Context) (sent int, err error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return 0, ErrClosed
	}
	pending := make(map[string][]QueueEntry, len(d.queues))
	for userID, q := range d.queues {
		if len(q) > 0 {
			pending[userID] = slices.Clone(q)
		}
	}
	d.mu.Unlock()

	var failures []error
	for _, userID := range slices.Sorted(maps.Keys(pending)) {
		items := pending[userID]
		log := d.logger.With(logger.UserID(userID), logger.Count("items", len(items)))

		ok, sendErr := d.sendDigest(ctx, userID, items)
		switch {
		case sendErr != nil:
			log.LogAttrs(ctx, slog.LevelWarn, "digest send failed, keeping queue", logger.Error(sendErr))
			d.metrics.DigestFailures.Inc()
			failures = append(failures, fmt.Errorf("user %s: %w", userID, sendErr))
		case ok:
			sent++
			d.metrics.DigestsSent.Inc()
			log.LogAttrs(ctx, slog.LevelInfo, "digest sent")
			d.trimQueue(userID, len(items))
		default:
			log.LogAttrs(ctx, slog.LevelDebug, "digest discarded")
			d.trimQueue(userID, len(items))
		}
	}
	return sent, errors.Join(failures...)
}

// sendDigest reports false without an error when the digest should be
// discarded instead of sent.
func (d *Dispatcher) sendDigest(ctx context.Context, userID string, items []QueueEntry) (bool, error) {
	user, err := d.user(ctx, userID)
	if errs.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !user.HasEmail() {
		return false, nil
	}

	prefs, err := d.preferences(ctx, userID)
	if err != nil {
		return false, err
	}
	if !prefs.ChannelEnabled(preferences.ChannelEmail) {
		return false, nil
	}

	digest := make([]email.DigestItem, 0, len(items))
	for _, e := range items {
		digest = append(digest, digestItem(e))
	}
	if _, err := d.mailer.Digest(ctx, recipient(user), digest); err != nil {
		return false, err
	}
	return true, nil
}

// trimQueue removes the first n items of the user's queue.
func (d *Dispatcher) trimQueue(userID string, n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	q := d.queues[userID]
	if n >= len(q) {
		delete(d.queues, userID)
	} else {
		d.queues[userID] = slices.Clone(q[n:])
	}
	d.metrics.DigestQueueDepth.Set(float64(d.queuedItemsLocked()))
}

// CleanupCaches evicts cache entries older than their TTL at now and
// forgets cooldowns that have expired. It returns the number of entries
// removed.
func (d *Dispatcher) CleanupCaches(now time.Time) int {
	removed := d.userCache.Cleanup(now) + d.prefCache.Cleanup(now) + d.recent.Cleanup(now)

	d.mu.Lock()
	for userID, last := range d.lastSend {
		if now.Sub(last) >= d.cfg.MinEmailInterval {
			delete(d.lastSend, userID)
			removed++
		}
	}
	d.mu.Unlock()

	return removed
}
