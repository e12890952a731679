// Package notifications publishes post activity to per-user Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"instaclone/internal/middleware"
	"instaclone/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Kind names the activity that produced an Event.
type Kind string

const (
	KindLike    Kind = "like"
	KindComment Kind = "comment"
)

// Event tells a post author that someone interacted with their post.
type Event struct {
	Kind      Kind      `json:"kind"`
	PostID    uint      `json:"postId"`
	ActorID   uint      `json:"actorId"`
	Recipient uint      `json:"recipientId"`
	CommentID uint      `json:"commentId,omitempty"`
	At        time.Time `json:"at"`
}

// UserChannel is the pub/sub channel carrying events for userID.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
	now func() time.Time
}

// NewNotifier creates a Notifier. A nil client turns every call into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb, now: time.Now}
}

// Publish sends ev to the recipient's channel. Activity on one's own post
// is not published.
func (n *Notifier) Publish(ctx context.Context, ev Event) error {
	if n == nil || n.rdb == nil || ev.Recipient == 0 || ev.Recipient == ev.ActorID {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = n.now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.rdb.Publish(ctx, UserChannel(ev.Recipient), payload).Err(); err != nil {
		observability.RecordErrorInContext(ctx, err)
		return fmt.Errorf("publish %s event: %w", ev.Kind, err)
	}
	return nil
}

// Subscribe delivers events for userID to onEvent until ctx is cancelled.
// It returns once the subscription is confirmed.
func (n *Notifier) Subscribe(ctx context.Context, userID uint, onEvent func(Event)) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, UserChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe: %w", err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					middleware.Logger.Warn("dropping malformed notification",
						slog.String("channel", msg.Channel), slog.String("error", err.Error()))
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							middleware.Logger.Error("panic in notification handler",
								slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
						}
					}()
					onEvent(ev)
				}()
			}
		}
	}()

	return nil
}
