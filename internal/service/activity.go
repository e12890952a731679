package service

import (
	"context"
	"log/slog"

	"instaclone/internal/middleware"
	"instaclone/internal/notifications"
)

// ActivityPublisher delivers like and comment events to post authors.
type ActivityPublisher interface {
	Publish(ctx context.Context, ev notifications.Event) error
}

// publish is best effort: the write already succeeded, so a delivery
// failure is logged and dropped.
func publish(ctx context.Context, p ActivityPublisher, ev notifications.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		middleware.Logger.WarnContext(ctx, "activity publish failed",
			slog.String("kind", string(ev.Kind)),
			slog.Uint64("post_id", uint64(ev.PostID)),
			slog.String("error", err.Error()),
		)
	}
}
