package notifications

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/eventbus"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/events"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/livepush"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/metrics"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/preferences"
)

// DefaultRoutedTypes are the event types Subscribe attaches to when none are
// given. Profile updates, login audit events and health checks do not
// produce notifications.
var DefaultRoutedTypes = []string{
	events.UserRegistered, events.UserPasswordChanged,
	events.TaskCreated, events.TaskUpdated, events.TaskCompleted, events.TaskDeleted, events.TaskDueSoon,
	events.AuthPasswordResetRequested, events.AuthPasswordChanged, events.AuthNewLogin, events.AuthSuspiciousLogin,
	events.SystemError, events.SystemStartup, events.SystemShutdown,
}

// RouteOptions adjusts a single routing decision.
type RouteOptions struct {
	// ForceStore persists the notification regardless of preferences.
	ForceStore bool
}

// RouteResult describes what Route did.
type RouteResult struct {
	NotificationID string
	Stored         bool
	Pushed         bool // a push was attempted
	Delivered      bool // a live connection took the push
}

// Router turns bus events into stored notifications and live pushes.
type Router struct {
	storage     Storage
	prefs       preferences.Store
	pusher      livepush.Pusher
	resolve     preferences.Resolver
	alwaysStore []string
	ttl         time.Duration

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

type RouterOption func(*Router)

// WithPusher enables live push. Without it the router only stores.
func WithPusher(p livepush.Pusher) RouterOption {
	return func(r *Router) { r.pusher = p }
}

func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithRouterMetrics(m *metrics.Metrics) RouterOption {
	return func(r *Router) {
		if m != nil {
			r.metrics = m
		}
	}
}

func WithRouterClock(now func() time.Time) RouterOption {
	return func(r *Router) {
		if now != nil {
			r.now = now
		}
	}
}

// WithNotificationTTL sets how long stored notifications live. Zero keeps
// them forever.
func WithNotificationTTL(ttl time.Duration) RouterOption {
	return func(r *Router) { r.ttl = max(ttl, 0) }
}

// WithResolver replaces the preference resolver.
func WithResolver(fn preferences.Resolver) RouterOption {
	return func(r *Router) {
		if fn != nil {
			r.resolve = fn
		}
	}
}

// WithAlwaysStore adds event types that are stored regardless of preferences.
func WithAlwaysStore(types ...string) RouterOption {
	return func(r *Router) { r.alwaysStore = append(r.alwaysStore, types...) }
}

// NewRouter creates a router that stores notifications in storage and
// consults prefs for the in-app channel.
func NewRouter(storage Storage, prefs preferences.Store, opts ...RouterOption) *Router {
	r := &Router{
		storage:     storage,
		prefs:       prefs,
		resolve:     preferences.DefaultResolver,
		alwaysStore: []string{events.UserRegistered},
		logger:      slog.Default(),
		now:         time.Now,
		newID:       func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	r.metrics = metrics.OrNop(r.metrics)
	return r
}

// Subscribe attaches the router to bus for types, or DefaultRoutedTypes when
// none are given. The returned function detaches it.
func (r *Router) Subscribe(bus *eventbus.Bus, types ...string) (unsubscribe func()) {
	if len(types) == 0 {
		types = DefaultRoutedTypes
	}
	unsubs := make([]func(), 0, len(types))
	for _, t := range types {
		unsubs = append(unsubs, bus.Subscribe(t, r.Handle, eventbus.Named("notifications.router")))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Handle is the bus handler. It never returns an error. A "forceStore": true
// payload entry forces storage.
func (r *Router) Handle(ctx context.Context, ev eventbus.Event) error {
	force, _ := ev.Payload[events.KeyForceStore].(bool)
	r.Route(ctx, ev, RouteOptions{ForceStore: force})
	return nil
}

// Route stores and pushes ev according to the user's preferences.
func (r *Router) Route(ctx context.Context, ev eventbus.Event, opts RouteOptions) RouteResult {
	var res RouteResult

	userID, ok := ev.UserID()
	if !ok {
		if events.Domain(ev.Type) == events.DomainSystem && r.pusher != nil {
			res.Pushed = true
			res.Delivered = r.pusher.EmitToAll(ctx, events.ChannelName(ev.Type), r.pushPayload(ev, ""))
			r.metrics.PushesEmitted.WithLabelValues(ev.Type, strconv.FormatBool(res.Delivered)).Inc()
		} else {
			r.logger.LogAttrs(ctx, slog.LevelDebug, "event without user not routed", logger.EventType(ev.Type))
		}
		return res
	}

	prefs, prefsErr := preferences.GetOrDefault(ctx, r.prefs, userID)
	if prefsErr != nil {
		r.metrics.RouterFailures.WithLabelValues("preferences").Inc()
		r.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load preferences, storing anyway",
			logger.UserID(userID), logger.EventType(ev.Type), logger.Error(prefsErr))
	}

	if opts.ForceStore || r.shouldStore(ev.Type, prefs, prefsErr) {
		if id, err := r.store(ctx, userID, ev); err != nil {
			r.metrics.RouterFailures.WithLabelValues("store").Inc()
			r.logger.LogAttrs(ctx, slog.LevelError, "failed to store notification",
				logger.UserID(userID), logger.EventType(ev.Type), logger.Error(err))
		} else {
			res.NotificationID, res.Stored = id, true
			r.metrics.NotificationsStored.WithLabelValues(ev.Type).Inc()
		}
	}

	if r.pusher != nil && r.resolve(ev.Type, preferences.ChannelPush, prefs) {
		res.Pushed = true
		res.Delivered = r.pusher.EmitToUser(ctx, userID, events.ChannelName(ev.Type), r.pushPayload(ev, res.NotificationID))
		r.metrics.PushesEmitted.WithLabelValues(ev.Type, strconv.FormatBool(res.Delivered)).Inc()
		if !res.Delivered {
			r.logger.LogAttrs(ctx, slog.LevelDebug, "no live connection for push",
				logger.UserID(userID), logger.EventType(ev.Type))
		}
	}

	return res
}

func (r *Router) shouldStore(eventType string, prefs *preferences.Preferences, prefsErr error) bool {
	if slices.Contains(r.alwaysStore, eventType) || events.Domain(eventType) == events.DomainSystem {
		return true
	}
	if prefsErr != nil {
		return true
	}
	return prefs.AnyChannelEnabled()
}

func (r *Router) store(ctx context.Context, userID string, ev eventbus.Event) (string, error) {
	content := ContentFor(ev.Type, ev.Payload)
	n := Notification{
		ID:        r.newID(),
		UserID:    userID,
		EventType: ev.Type,
		Type:      content.Type,
		Priority:  content.Priority,
		Title:     content.Title,
		Message:   content.Message,
		Data:      maps.Clone(ev.Payload),
		CreatedAt: r.now(),
	}
	delete(n.Data, events.KeyForceStore)
	if r.ttl > 0 {
		exp := n.CreatedAt.Add(r.ttl)
		n.ExpiresAt = &exp
	}

	if err := r.storage.Create(ctx, n); err != nil {
		return "", err
	}
	return n.ID, nil
}

func (r *Router) pushPayload(ev eventbus.Event, notificationID string) map[string]any {
	payload := maps.Clone(ev.Payload)
	if payload == nil {
		payload = map[string]any{}
	}
	delete(payload, events.KeyForceStore)
	payload["timestamp"] = ev.TimestampISO()
	if notificationID != "" {
		payload["notificationId"] = notificationID
	}
	return payload
}

// SweepExpired deletes notifications that expired before now.
func (r *Router) SweepExpired(ctx context.Context) (int, error) {
	n, err := r.storage.DeleteExpired(ctx, r.now())
	if err != nil {
		r.metrics.RouterFailures.WithLabelValues("sweep").Inc()
		r.logger.LogAttrs(ctx, slog.LevelError, "failed to delete expired notifications", logger.Error(err))
		return 0, err
	}
	if n > 0 {
		r.logger.LogAttrs(ctx, slog.LevelInfo, "deleted expired notifications", logger.Count("deleted", n))
	}
	return n, nil
}
