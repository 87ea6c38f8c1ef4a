package dispatcher

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/cache"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/email"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/errs"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/metrics"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/preferences"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/users"
)

// Outcome is what ProcessNotification did with a notification.
type Outcome int

const (
	// Dropped: the user cannot or does not want to receive this email.
	Dropped Outcome = iota
	// Sent: the email went out immediately.
	Sent
	// Queued: the user is in cooldown; the item waits for the next digest.
	Queued
	// NoHandler: no email exists for the event type.
	NoHandler
	// Failed: a lookup or the transport failed. The error says which.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Dropped:
		return "dropped"
	case Sent:
		return "sent"
	case Queued:
		return "queued"
	case NoHandler:
		return "no_handler"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Handled reports whether the notification was delivered or deferred.
func (o Outcome) Handled() bool { return o == Sent || o == Queued }

// QueueEntry is one notification waiting for the digest.
type QueueEntry struct {
	Type      string
	Data      map[string]any
	Timestamp time.Time
}

// Dispatcher owns the email throttle state. The zero value is not usable;
// create one with New.
type Dispatcher struct {
	cfg      Config
	users    users.Store
	prefs    preferences.Store
	mailer   Mailer
	resolve  preferences.Resolver
	handlers map[string]handler

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	userCache *cache.TTLCache[string, users.User]
	prefCache *cache.TTLCache[string, *preferences.Preferences]
	recent    *cache.TTLCache[string, time.Time]

	mu       sync.Mutex
	lastSend map[string]time.Time
	queues   map[string][]QueueEntry
	unsubs   []func()
	cron     *cron.Cron
	closed   bool
}

// New creates a dispatcher. It panics when a dependency is nil or cfg is
// invalid.
func New(userStore users.Store, prefStore preferences.Store, mailer Mailer, cfg Config, opts ...Option) *Dispatcher {
	if userStore == nil || prefStore == nil || mailer == nil {
		panic("dispatcher: New called with a nil dependency")
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	d := &Dispatcher{
		cfg:       cfg,
		users:     userStore,
		prefs:     prefStore,
		mailer:    mailer,
		resolve:   preferences.DefaultResolver,
		handlers:  defaultHandlers(),
		logger:    slog.Default(),
		now:       time.Now,
		userCache: cache.NewTTLCache[string, users.User](cfg.CacheTTL),
		prefCache: cache.NewTTLCache[string, *preferences.Preferences](cfg.CacheTTL),
		recent:    cache.NewTTLCache[string, time.Time](cfg.DedupRetention),
		lastSend:  make(map[string]time.Time),
		queues:    make(map[string][]QueueEntry),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.metrics = metrics.OrNop(d.metrics)
	d.logger = d.logger.With(logger.Component("dispatcher"))
	return d
}

// Config returns the settings the dispatcher runs with.
func (d *Dispatcher) Config() Config { return d.cfg }

// IsImmediate reports whether eventType has a handler that skips the cooldown.
func (d *Dispatcher) IsImmediate(eventType string) bool {
	return d.handlers[eventType].immediate
}

// ProcessNotification decides whether the event's email goes out now, waits
// for the digest or is dropped. immediate skips the cooldown check.
//
// A missing user, a user without an email address and disabled preferences
// are not errors; they yield Dropped. Lookup and transport failures yield
// Failed with the cause.
func (d *Dispatcher) ProcessNotification(ctx context.Context, userID, eventType string, data map[string]any, immediate bool) (Outcome, error) {
	if userID == "" {
		return Dropped, ErrMissingUserID
	}
	if d.isClosed() {
		return Dropped, ErrClosed
	}
	log := d.logger.With(logger.UserID(userID), logger.EventType(eventType))

	user, err := d.user(ctx, userID)
	switch {
	case errs.IsNotFound(err):
		d.drop(ctx, log, "user_not_found")
		return Dropped, nil
	case err != nil:
		log.LogAttrs(ctx, slog.LevelWarn, "user lookup failed", logger.Error(err))
		d.metrics.EmailFailures.WithLabelValues(eventType).Inc()
		return Failed, err
	case !user.HasEmail():
		d.drop(ctx, log, "no_email_address")
		return Dropped, nil
	}

	prefs, err := d.preferences(ctx, userID)
	if err != nil {
		log.LogAttrs(ctx, slog.LevelWarn, "preference lookup failed", logger.Error(err))
		d.metrics.EmailFailures.WithLabelValues(eventType).Inc()
		return Failed, err
	}
	if !prefs.ChannelEnabled(preferences.ChannelEmail) {
		d.drop(ctx, log, "email_disabled")
		return Dropped, nil
	}
	if !d.resolve(eventType, preferences.ChannelEmail, prefs) {
		d.drop(ctx, log, "event_disabled")
		return Dropped, nil
	}

	if !immediate {
		queued, err := d.enqueueIfCooling(userID, eventType, data, d.now())
		if err != nil {
			return Dropped, err
		}
		if queued {
			log.LogAttrs(ctx, slog.LevelDebug, "user in cooldown, queued for digest")
			d.metrics.EmailsQueued.WithLabelValues(eventType).Inc()
			return Queued, nil
		}
	}

	h, ok := d.handlers[eventType]
	if !ok {
		log.LogAttrs(ctx, slog.LevelDebug, "no email handler for event type")
		return NoHandler, nil
	}

	id, err := h.send(ctx, d.mailer, recipient(user), eventType, data)
	if err != nil {
		log.LogAttrs(ctx, slog.LevelWarn, "email send failed", logger.Error(err))
		d.metrics.EmailFailures.WithLabelValues(eventType).Inc()
		return Failed, err
	}

	d.markSent(userID, eventType, d.now())
	d.metrics.EmailsSent.WithLabelValues(eventType).Inc()
	log.LogAttrs(ctx, slog.LevelInfo, "email sent", logger.MessageID(id))
	return Sent, nil
}

func (d *Dispatcher) drop(ctx context.Context, log *slog.Logger, reason string) {
	log.LogAttrs(ctx, slog.LevelDebug, "email dropped", logger.Reason(reason))
	d.metrics.EmailsDropped.WithLabelValues(reason).Inc()
}

// enqueueIfCooling appends the item to the user's queue when an email went
// out less than MinEmailInterval before now.
func (d *Dispatcher) enqueueIfCooling(userID, eventType string, data map[string]any, now time.Time) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false, ErrClosed
	}
	last, ok := d.lastSend[userID]
	if !ok || now.Sub(last) >= d.cfg.MinEmailInterval {
		return false, nil
	}
	d.queues[userID] = append(d.queues[userID], QueueEntry{
		Type:      eventType,
		Data:      maps.Clone(data),
		Timestamp: now,
	})
	d.metrics.DigestQueueDepth.Set(float64(d.queuedItemsLocked()))
	return true, nil
}

// markSent starts the user's cooldown. A send that finishes after Close
// leaves no state behind.
func (d *Dispatcher) markSent(userID, eventType string, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.lastSend[userID] = at
	d.recent.Put(dedupKey(userID, eventType), at, at)
}

func dedupKey(userID, eventType string) string {
	return userID + "|" + eventType
}

// RecentlySent reports whether an email for eventType went to the user within
// DedupRetention of now.
func (d *Dispatcher) RecentlySent(userID, eventType string) bool {
	_, ok := d.recent.Get(dedupKey(userID, eventType), d.now())
	return ok
}

// InCooldown reports whether an immediate email went to the user less than
// MinEmailInterval ago.
func (d *Dispatcher) InCooldown(userID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	last, ok := d.lastSend[userID]
	return ok && d.now().Sub(last) < d.cfg.MinEmailInterval
}

func (d *Dispatcher) user(ctx context.Context, id string) (users.User, error) {
	now := d.now()
	if u, ok := d.userCache.Get(id, now); ok {
		return u, nil
	}
	u, err := d.users.Get(ctx, id)
	if err != nil {
		return users.User{}, err
	}
	d.ifOpen(func() { d.userCache.Put(id, u, now) })
	return u, nil
}

func (d *Dispatcher) preferences(ctx context.Context, userID string) (*preferences.Preferences, error) {
	now := d.now()
	if p, ok := d.prefCache.Get(userID, now); ok {
		return p, nil
	}
	p, err := preferences.GetOrDefault(ctx, d.prefs, userID)
	if err != nil {
		return nil, err
	}
	d.ifOpen(func() { d.prefCache.Put(userID, p, now) })
	return p, nil
}

// ifOpen runs fn under the state lock unless the dispatcher is closed. Close
// clears the caches under the same lock, so a lookup that started before
// Close cannot refill them.
func (d *Dispatcher) ifOpen(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		fn()
	}
}

// InvalidateUser forgets the cached identity and preferences of userID.
func (d *Dispatcher) InvalidateUser(userID string) {
	d.userCache.Remove(userID)
	d.prefCache.Remove(userID)
}

func recipient(u users.User) email.Recipient {
	return email.Recipient{Email: u.Email, Name: u.Name}
}

// Queue returns a copy of the user's pending digest items.
func (d *Dispatcher) Queue(userID string) []QueueEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]QueueEntry(nil), d.queues[userID]...)
}

func (d *Dispatcher) queuedItemsLocked() int {
	n := 0
	for _, q := range d.queues {
		n += len(q)
	}
	return n
}

func (d *Dispatcher) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Snapshot is a point-in-time view of the dispatcher's state sizes.
type Snapshot struct {
	QueuedUsers       int
	QueuedItems       int
	ThrottledUsers    int
	CachedUsers       int
	CachedPreferences int
	RecentSends       int
	Subscriptions     int
	Running           bool
	Closed            bool
}

// Snapshot returns the current state sizes. After Close every count is zero.
func (d *Dispatcher) Snapshot() Snapshot {
	d.mu.Lock()
	s := Snapshot{
		QueuedUsers:    len(d.queues),
		QueuedItems:    d.queuedItemsLocked(),
		ThrottledUsers: len(d.lastSend),
		Subscriptions:  len(d.unsubs),
		Running:        d.cron != nil,
		Closed:         d.closed,
	}
	d.mu.Unlock()

	s.CachedUsers = d.userCache.Len()
	s.CachedPreferences = d.prefCache.Len()
	s.RecentSends = d.recent.Len()
	return s
}
