package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sentTTL = 24 * time.Hour

// NotifyDedup prevents a ticket notification from being delivered twice when
// a job is re-enqueued. Key format: notify:<ticket_id>
type NotifyDedup struct {
	client *redis.Client
}

// NewNotifyDedup creates a NotifyDedup wrapping the given Redis client.
func NewNotifyDedup(client *redis.Client) *NotifyDedup {
	return &NotifyDedup{client: client}
}

// AlreadySent reports whether a notification for this ticket went out.
func (d *NotifyDedup) AlreadySent(ctx context.Context, ticketID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(ticketID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// MarkSent records the delivery (expires after sentTTL).
func (d *NotifyDedup) MarkSent(ctx context.Context, ticketID string) error {
	return d.client.Set(ctx, d.key(ticketID), "1", sentTTL).Err()
}

func (d *NotifyDedup) key(ticketID string) string {
	return "notify:" + ticketID
}
