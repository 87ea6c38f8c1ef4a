package notifications_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/errs"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/eventbus"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/events"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/metrics"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/notifications"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/preferences"
)

type push struct {
	userID  string
	event   string
	payload map[string]any
}

type fakePusher struct {
	mu        sync.Mutex
	connected bool
	user      []push
	all       []push
}

func (p *fakePusher) EmitToUser(_ context.Context, userID, event string, payload map[string]any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = append(p.user, push{userID, event, payload})
	return p.connected
}

func (p *fakePusher) EmitToAll(_ context.Context, event string, payload map[string]any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.all = append(p.all, push{"", event, payload})
	return p.connected
}

type failingPrefs struct{}

func (failingPrefs) Get(context.Context, string) (*preferences.Preferences, error) {
	return nil, errs.Transient("preferences.Get", errors.New("db down"))
}

func (failingPrefs) Save(context.Context, *preferences.Preferences) error { return nil }

type failingStorage struct{ notifications.Storage }

func (failingStorage) Create(context.Context, notifications.Notification) error {
	return errs.Transient("notifications.Create", errors.New("db down"))
}

func newRouter(storage notifications.Storage, prefs preferences.Store, opts ...notifications.RouterOption) *notifications.Router {
	return notifications.NewRouter(storage, prefs, append([]notifications.RouterOption{
		notifications.WithRouterLogger(logger.NewNop()),
		notifications.WithRouterClock(func() time.Time { return base }),
	}, opts...)...)
}

func event(eventType string, payload map[string]any) eventbus.Event {
	return eventbus.Event{Type: eventType, Payload: payload, Timestamp: base}
}

func TestRouter_StoreDecision(t *testing.T) {
	t.Parallel()

	bothOff := preferences.Defaults("u1")
	bothOff.EmailEnabled, bothOff.PushEnabled = false, false

	emailOnly := preferences.Defaults("u1")
	emailOnly.PushEnabled = false

	tests := []struct {
		name      string
		prefs     *preferences.Preferences
		eventType string
		opts      notifications.RouteOptions
		payload   map[string]any
		wantStore bool
	}{
		{name: "defaults", eventType: events.TaskCreated, wantStore: true},
		{name: "email only", prefs: emailOnly, eventType: events.TaskCreated, wantStore: true},
		{name: "both channels off", prefs: bothOff, eventType: events.TaskCreated, wantStore: false},
		{name: "registration always stored", prefs: bothOff, eventType: events.UserRegistered, wantStore: true},
		{name: "system event always stored", prefs: bothOff, eventType: events.SystemError, wantStore: true},
		{name: "forced by option", prefs: bothOff, eventType: events.TaskDeleted, opts: notifications.RouteOptions{ForceStore: true}, wantStore: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := preferences.NewMemoryStore()
			if tt.prefs != nil {
				require.NoError(t, store.Save(context.Background(), tt.prefs))
			}
			storage := notifications.NewMemoryStorage()
			r := newRouter(storage, store)

			payload := map[string]any{"userId": "u1", "title": "Buy milk"}
			res := r.Route(context.Background(), event(tt.eventType, payload), tt.opts)
			assert.Equal(t, tt.wantStore, res.Stored)

			count, _ := storage.CountUnread(context.Background(), "u1")
			if tt.wantStore {
				assert.Equal(t, 1, count)
				assert.NotEmpty(t, res.NotificationID)
			} else {
				assert.Zero(t, count)
			}
		})
	}
}

func TestRouter_ForceStoreFromPayload(t *testing.T) {
	t.Parallel()

	off := preferences.Defaults("u1")
	off.EmailEnabled, off.PushEnabled = false, false
	store := preferences.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), off))

	storage := notifications.NewMemoryStorage()
	r := newRouter(storage, store)

	require.NoError(t, r.Handle(context.Background(), event(events.TaskDeleted, map[string]any{
		"userId": "u1", "forceStore": true,
	})))

	list, _ := storage.List(context.Background(), "u1", notifications.ListOptions{})
	require.Len(t, list, 1)
	assert.NotContains(t, list[0].Data, "forceStore")
}

func TestRouter_PreferenceFailureStoresWithoutPush(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	pusher := &fakePusher{connected: true}
	storage := notifications.NewMemoryStorage()
	r := newRouter(storage, failingPrefs{}, notifications.WithPusher(pusher), notifications.WithRouterMetrics(m))

	res := r.Route(context.Background(), event(events.TaskCreated, map[string]any{"userId": "u1"}), notifications.RouteOptions{})
	assert.True(t, res.Stored)
	assert.False(t, res.Pushed)
	assert.Empty(t, pusher.user)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RouterFailures.WithLabelValues("preferences")))
}

func TestRouter_StorageFailureStillPushes(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	pusher := &fakePusher{connected: true}
	r := newRouter(failingStorage{}, preferences.NewMemoryStore(),
		notifications.WithPusher(pusher), notifications.WithRouterMetrics(m))

	var res notifications.RouteResult
	assert.NotPanics(t, func() {
		res = r.Route(context.Background(), event(events.TaskCompleted, map[string]any{"userId": "u1"}), notifications.RouteOptions{})
	})
	assert.False(t, res.Stored)
	assert.True(t, res.Delivered)
	require.Len(t, pusher.user, 1)
	assert.NotContains(t, pusher.user[0].payload, "notificationId")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RouterFailures.WithLabelValues("store")))
}

func TestRouter_PushDecision(t *testing.T) {
	t.Parallel()

	pushOff := preferences.Defaults("u1")
	pushOff.PushEnabled = false

	dueSoonOff := preferences.Defaults("u1")
	dueSoonOff.PushTaskDueSoon = false

	tests := []struct {
		name      string
		prefs     *preferences.Preferences
		eventType string
		wantPush  bool
	}{
		{name: "default on", eventType: events.TaskDueSoon, wantPush: true},
		{name: "push channel off", prefs: pushOff, eventType: events.TaskDueSoon, wantPush: false},
		{name: "event flag off", prefs: dueSoonOff, eventType: events.TaskDueSoon, wantPush: false},
		{name: "other event still on", prefs: dueSoonOff, eventType: events.TaskCompleted, wantPush: true},
		{name: "unmapped event defaults on", eventType: "project.archived", wantPush: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := preferences.NewMemoryStore()
			if tt.prefs != nil {
				require.NoError(t, store.Save(context.Background(), tt.prefs))
			}
			pusher := &fakePusher{}
			r := newRouter(notifications.NewMemoryStorage(), store, notifications.WithPusher(pusher))

			res := r.Route(context.Background(), event(tt.eventType, map[string]any{"userId": "u1"}), notifications.RouteOptions{})
			assert.Equal(t, tt.wantPush, res.Pushed)
			assert.False(t, res.Delivered, "user has no live connection")
			assert.Equal(t, tt.wantPush, len(pusher.user) == 1)
		})
	}
}

func TestRouter_WithoutPusher(t *testing.T) {
	t.Parallel()

	r := newRouter(notifications.NewMemoryStorage(), preferences.NewMemoryStore())
	res := r.Route(context.Background(), event(events.TaskCreated, map[string]any{"userId": "u1"}), notifications.RouteOptions{})
	assert.True(t, res.Stored)
	assert.False(t, res.Pushed)
}

func TestRouter_SystemEventWithoutUserBroadcasts(t *testing.T) {
	t.Parallel()

	pusher := &fakePusher{connected: true}
	storage := notifications.NewMemoryStorage()
	r := newRouter(storage, preferences.NewMemoryStore(), notifications.WithPusher(pusher))

	res := r.Route(context.Background(), event(events.SystemShutdown, map[string]any{"message": "bye"}), notifications.RouteOptions{})
	assert.True(t, res.Delivered)
	require.Len(t, pusher.all, 1)
	assert.Equal(t, "system:shutdown", pusher.all[0].event)
	assert.Equal(t, "bye", pusher.all[0].payload["message"])

	res = r.Route(context.Background(), event(events.TaskCreated, nil), notifications.RouteOptions{})
	assert.Equal(t, notifications.RouteResult{}, res, "task events need a user")
}

func TestRouter_NotificationTTLAndSweep(t *testing.T) {
	t.Parallel()

	now := base
	storage := notifications.NewMemoryStorage(notifications.WithStorageClock(func() time.Time { return now }))
	r := notifications.NewRouter(storage, preferences.NewMemoryStore(),
		notifications.WithRouterLogger(logger.NewNop()),
		notifications.WithRouterClock(func() time.Time { return now }),
		notifications.WithNotificationTTL(time.Hour),
	)

	res := r.Route(context.Background(), event(events.TaskCreated, map[string]any{"userId": "u1"}), notifications.RouteOptions{})
	require.True(t, res.Stored)

	n, err := storage.Get(context.Background(), "u1", res.NotificationID)
	require.NoError(t, err)
	require.NotNil(t, n.ExpiresAt)
	assert.Equal(t, base.Add(time.Hour), *n.ExpiresAt)

	removed, err := r.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)

	now = base.Add(2 * time.Hour)
	removed, err = r.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

// Publishing task.created end to end stores a record and pushes task:created
// with the title and the stored notification id.
func TestRouter_TaskCreatedThroughBus(t *testing.T) {
	t.Parallel()

	prefs := preferences.Defaults("u1")
	prefs.EmailTaskCreated = true
	store := preferences.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), prefs))

	storage := notifications.NewMemoryStorage()
	pusher := &fakePusher{connected: true}
	r := newRouter(storage, store, notifications.WithPusher(pusher))

	bus := eventbus.New(eventbus.WithLogger(logger.NewNop()))
	unsubscribe := r.Subscribe(bus)
	defer unsubscribe()

	err := bus.Publish(context.Background(), events.TaskCreated, map[string]any{
		"userId": "u1", "taskId": "t1", "title": "Buy milk",
	})
	require.NoError(t, err)

	list, err := storage.List(context.Background(), "u1", notifications.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, events.TaskCreated, list[0].EventType)
	assert.Equal(t, "t1", list[0].Data["taskId"])

	require.Len(t, pusher.user, 1)
	p := pusher.user[0]
	assert.Equal(t, "u1", p.userID)
	assert.Equal(t, "task:created", p.event)
	assert.Equal(t, "Buy milk", p.payload["title"])
	assert.Equal(t, list[0].ID, p.payload["notificationId"])

	unsubscribe()
	assert.False(t, bus.HasSubscribers(events.TaskCreated))
}
