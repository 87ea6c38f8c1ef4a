package dispatcher_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/dispatcher"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/email"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/eventbus"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/events"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/users"
)

func TestSubscribedTypes(t *testing.T) {
	t.Parallel()

	types := dispatcher.SubscribedTypes()
	assert.Contains(t, types, events.TaskDueSoon)
	assert.Contains(t, types, events.UserUpdated)
	for _, typ := range types {
		assert.NotEqual(t, events.DomainSystem, events.Domain(typ))
	}
}

func TestStart_Twice(t *testing.T) {
	t.Parallel()

	f := newFixture()
	require.NoError(t, f.d.Start(context.Background()))
	assert.ErrorIs(t, f.d.Start(context.Background()), dispatcher.ErrAlreadyStarted)
	assert.True(t, f.d.Snapshot().Running)
	require.NoError(t, f.d.Close())
}

func TestClose_ReleasesEverything(t *testing.T) {
	t.Parallel()

	f := newFixture()
	bus := eventbus.New(eventbus.WithLogger(logger.NewNop()))
	f.d.Subscribe(bus)
	require.NoError(t, f.d.Start(context.Background()))

	f.mailer.On("TaskReminder", mock.Anything, mock.Anything, mock.Anything).Return("msg", nil)
	queueOne(t, f)

	s := f.d.Snapshot()
	require.True(t, s.Running)
	require.Equal(t, len(dispatcher.SubscribedTypes()), s.Subscriptions)
	require.Equal(t, 1, bus.SubscriberCount(events.TaskDueSoon))
	require.Equal(t, 1, s.QueuedItems)

	require.NoError(t, f.d.Close())

	s = f.d.Snapshot()
	assert.Equal(t, dispatcher.Snapshot{Closed: true}, s)
	for _, typ := range dispatcher.SubscribedTypes() {
		assert.False(t, bus.HasSubscribers(typ), typ)
	}

	assert.NoError(t, f.d.Close(), "Close is idempotent")
	assert.ErrorIs(t, f.d.Start(context.Background()), dispatcher.ErrClosed)

	_, err := f.d.ProcessNotification(context.Background(), "u1", events.TaskDueSoon, dueSoon("t9", "x"), false)
	assert.ErrorIs(t, err, dispatcher.ErrClosed)
	_, err = f.d.FlushDigests(context.Background())
	assert.ErrorIs(t, err, dispatcher.ErrClosed)

	f.d.Subscribe(bus)
	assert.False(t, bus.HasSubscribers(events.TaskDueSoon), "no subscriptions after Close")
}

func TestUserUpdatedInvalidatesCache(t *testing.T) {
	t.Parallel()

	f := newFixture()
	bus := eventbus.New(eventbus.WithLogger(logger.NewNop()))
	f.d.Subscribe(bus, events.UserUpdated, events.UserRegistered)
	t.Cleanup(func() { _ = f.d.Close() })

	f.mailer.On("Welcome", mock.Anything, annRecipient).Return("msg", nil).Twice()
	f.mailer.On("Welcome", mock.Anything, email.Recipient{Email: "ann@new.example.com", Name: "Ann"}).Return("msg", nil).Once()

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, events.UserRegistered, map[string]any{"userId": "u1"}))

	f.users.Put(users.User{ID: "u1", Email: "ann@new.example.com", Name: "Ann"})
	require.NoError(t, bus.Publish(ctx, events.UserRegistered, map[string]any{"userId": "u1"}))

	require.NoError(t, bus.Publish(ctx, events.UserUpdated, map[string]any{"userId": "u1"}))
	require.NoError(t, bus.Publish(ctx, events.UserRegistered, map[string]any{"userId": "u1"}))

	f.mailer.AssertNumberOfCalls(t, "Welcome", 3)
	f.mailer.AssertCalled(t, "Welcome", mock.Anything, email.Recipient{Email: "ann@new.example.com", Name: "Ann"})
}

func TestHandleEvent_IgnoresEventsWithoutUser(t *testing.T) {
	t.Parallel()

	f := newFixture()
	bus := eventbus.New(eventbus.WithLogger(logger.NewNop()))
	f.d.Subscribe(bus, events.TaskDueSoon)
	t.Cleanup(func() { _ = f.d.Close() })

	require.NoError(t, bus.Publish(context.Background(), events.TaskDueSoon, map[string]any{"taskId": "t1"}))
	assert.Empty(t, f.mailer.Calls)
}

func TestClose_DuringSendLeavesNoState(t *testing.T) {
	t.Parallel()

	f := newFixture()
	started := make(chan struct{})
	release := make(chan struct{})
	f.mailer.On("TaskReminder", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return("msg", nil).Once()

	type result struct {
		out dispatcher.Outcome
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := f.d.ProcessNotification(context.Background(), "u1", events.TaskDueSoon, dueSoon("t1", "Report"), false)
		done <- result{out, err}
	}()

	<-started
	require.NoError(t, f.d.Close())
	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, dispatcher.Sent, res.out)
	assert.Equal(t, dispatcher.Snapshot{Closed: true}, f.d.Snapshot())

	out, err := f.d.ProcessNotification(context.Background(), "u1", events.TaskDueSoon, dueSoon("t2", "Later"), false)
	assert.ErrorIs(t, err, dispatcher.ErrClosed)
	assert.Equal(t, dispatcher.Dropped, out)
	f.mailer.AssertExpectations(t)
}
