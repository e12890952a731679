package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifier(t *testing.T) (*Notifier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewNotifier(rdb), mr
}

func TestUserChannel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		userID   uint
		expected string
	}{
		{1, "notifications:user:1"},
		{100, "notifications:user:100"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserChannel(tt.userID))
	}
}

func TestNotifier_NilIsNoop(t *testing.T) {
	assert.NoError(t, NewNotifier(nil).Publish(context.Background(), Event{Kind: KindLike, Recipient: 1, ActorID: 2}))
	var n *Notifier
	assert.NoError(t, n.Publish(context.Background(), Event{Recipient: 1}))
	assert.NoError(t, n.Subscribe(context.Background(), 1, func(Event) {}))
}

func TestNotifier_PublishSubscribe(t *testing.T) {
	n, _ := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 4)
	require.NoError(t, n.Subscribe(ctx, 7, func(ev Event) { events <- ev }))

	require.NoError(t, n.Publish(ctx, Event{Kind: KindComment, PostID: 3, ActorID: 2, Recipient: 7, CommentID: 11}))
	// Self-activity and other recipients are not delivered here.
	require.NoError(t, n.Publish(ctx, Event{Kind: KindLike, PostID: 3, ActorID: 7, Recipient: 7}))
	require.NoError(t, n.Publish(ctx, Event{Kind: KindLike, PostID: 4, ActorID: 2, Recipient: 8}))

	select {
	case ev := <-events:
		assert.Equal(t, KindComment, ev.Kind)
		assert.Equal(t, uint(11), ev.CommentID)
		assert.Equal(t, uint(2), ev.ActorID)
		assert.False(t, ev.At.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	assert.Never(t, func() bool { return len(events) > 0 }, 150*time.Millisecond, 10*time.Millisecond)
}

func TestNotifier_SubscribeStopsOnCancel(t *testing.T) {
	n, mr := newTestNotifier(t)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, n.Subscribe(ctx, 1, func(Event) {}))
	assert.Eventually(t, func() bool { return mr.PubSubNumSub(UserChannel(1))[UserChannel(1)] == 1 },
		time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool { return mr.PubSubNumSub(UserChannel(1))[UserChannel(1)] == 0 },
		time.Second, 10*time.Millisecond)
}

func TestNotifier_PublishError(t *testing.T) {
	n, mr := newTestNotifier(t)
	mr.Close()

	err := n.Publish(context.Background(), Event{Kind: KindLike, ActorID: 1, Recipient: 2})
	assert.Error(t, err)
}
