package broadcast_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyer3/taskmaster-todo-app-sub001/pkg/broadcast"
)

func TestMemoryBroadcaster_Broadcast(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[string](4)
	defer b.Close()

	ctx := context.Background()
	s1 := b.Subscribe(ctx)
	s2 := b.Subscribe(ctx)

	n, err := b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, sub := range []broadcast.Subscriber[string]{s1, s2} {
		select {
		case msg := <-sub.Receive(ctx):
			assert.Equal(t, "hello", msg.Data)
		case <-time.After(time.Second):
			t.Fatal("message not delivered")
		}
	}
}

func TestMemoryBroadcaster_SlowSubscriberDropped(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](1)
	defer b.Close()

	ctx := context.Background()
	sub := b.Subscribe(ctx)

	n, _ := b.Broadcast(ctx, broadcast.Message[int]{Data: 1})
	assert.Equal(t, 1, n)

	n, _ = b.Broadcast(ctx, broadcast.Message[int]{Data: 2})
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, b.SubscriberCount())

	msg, ok := <-sub.Receive(ctx)
	assert.True(t, ok)
	assert.Equal(t, 1, msg.Data)

	_, ok = <-sub.Receive(ctx)
	assert.False(t, ok, "channel closed after drop")
}

func TestMemoryBroadcaster_ContextCancelUnsubscribes(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[string](1)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub := b.Subscribe(ctx)
	require.Equal(t, 1, b.SubscriberCount())

	cancel()
	assert.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-sub.Receive(context.Background())
	assert.False(t, ok)
}

func TestMemoryBroadcaster_SubscriberClose(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[string](1)
	defer b.Close()

	sub := b.Subscribe(context.Background())
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestMemoryBroadcaster_Close(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[string](1)
	sub := b.Subscribe(context.Background())

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, ok := <-sub.Receive(context.Background())
	assert.False(t, ok)

	late := b.Subscribe(context.Background())
	_, ok = <-late.Receive(context.Background())
	assert.False(t, ok)

	n, err := b.Broadcast(context.Background(), broadcast.Message[string]{Data: "x"})
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryBroadcaster_Concurrent(t *testing.T) {
	t.Parallel()

	b := broadcast.NewMemoryBroadcaster[int](100)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := b.Subscribe(ctx)
			if i%2 == 0 {
				_ = sub.Close()
			}
		}()
		go func() {
			defer wg.Done()
			_, _ = b.Broadcast(ctx, broadcast.Message[int]{Data: i})
		}()
	}
	wg.Wait()
}
