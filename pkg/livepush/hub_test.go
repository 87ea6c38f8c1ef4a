package livepush_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/broadcast"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/livepush"
	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/logger"
)

func receive(t *testing.T, ch <-chan broadcast.Message[livepush.Message]) broadcast.Message[livepush.Message] {
	t.Helper()
	select {
	case m, ok := <-ch:
		require.True(t, ok, "stream closed")
		return m
	case <-time.After(time.Second):
		t.Fatal("no message")
		return broadcast.Message[livepush.Message]{}
	}
}

func TestHub_EmitToUser(t *testing.T) {
	t.Parallel()

	hub := livepush.NewHub(livepush.WithHubLogger(logger.NewNop()))
	defer hub.Close()

	ctx := context.Background()
	assert.False(t, hub.EmitToUser(ctx, "u1", "task:created", nil), "no connection yet")

	sub := hub.Subscribe(ctx, "u1")
	other := hub.Subscribe(ctx, "u2")

	ok := hub.EmitToUser(ctx, "u1", "task:created", map[string]any{"title": "Buy milk"})
	assert.True(t, ok)

	msg := receive(t, sub.Receive(ctx))
	assert.Equal(t, "task:created", msg.Data.Event)
	assert.Equal(t, "u1", msg.Data.UserID)
	assert.Equal(t, "Buy milk", msg.Data.Payload["title"])

	select {
	case <-other.Receive(ctx):
		t.Fatal("other user must not receive")
	default:
	}
}

func TestHub_EmitToAll(t *testing.T) {
	t.Parallel()

	hub := livepush.NewHub()
	defer hub.Close()

	ctx := context.Background()
	assert.False(t, hub.EmitToAll(ctx, "system:startup", nil))

	a := hub.Subscribe(ctx, "u1")
	b := hub.Subscribe(ctx, "u2")

	assert.True(t, hub.EmitToAll(ctx, "system:startup", map[string]any{"message": "hi"}))
	assert.Equal(t, "system:startup", receive(t, a.Receive(ctx)).Data.Event)
	assert.Equal(t, "system:startup", receive(t, b.Receive(ctx)).Data.Event)
}

func TestHub_DisconnectedSubscriberNotCounted(t *testing.T) {
	t.Parallel()

	hub := livepush.NewHub()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	hub.Subscribe(ctx, "u1")
	cancel()

	assert.Eventually(t, func() bool {
		return !hub.EmitToUser(context.Background(), "u1", "task:updated", nil)
	}, time.Second, 5*time.Millisecond)
}

func TestHub_MaxUsersEvictsAndCloses(t *testing.T) {
	t.Parallel()

	hub := livepush.NewHub(livepush.WithMaxUsers(1))
	defer hub.Close()

	ctx := context.Background()
	first := hub.Subscribe(ctx, "u1")
	hub.Subscribe(ctx, "u2")

	assert.Equal(t, 1, hub.Connected())
	_, open := <-first.Receive(ctx)
	assert.False(t, open)
}

func TestHub_Close(t *testing.T) {
	t.Parallel()

	hub := livepush.NewHub()
	sub := hub.Subscribe(context.Background(), "u1")

	require.NoError(t, hub.Close())
	_, open := <-sub.Receive(context.Background())
	assert.False(t, open)
	assert.Equal(t, 0, hub.Connected())
}

type recordingPusher struct {
	user, all int
	result    bool
}

func (r *recordingPusher) EmitToUser(context.Context, string, string, map[string]any) bool {
	r.user++
	return r.result
}

func (r *recordingPusher) EmitToAll(context.Context, string, map[string]any) bool {
	r.all++
	return r.result
}

func TestMulti(t *testing.T) {
	t.Parallel()

	a := &recordingPusher{result: false}
	b := &recordingPusher{result: true}
	m := livepush.Multi{a, b}

	assert.True(t, m.EmitToUser(context.Background(), "u1", "task:created", nil))
	assert.True(t, m.EmitToAll(context.Background(), "system:startup", nil))
	assert.Equal(t, 1, a.user)
	assert.Equal(t, 1, b.all)

	assert.False(t, livepush.Multi{a}.EmitToUser(context.Background(), "u1", "x:y", nil))
}
