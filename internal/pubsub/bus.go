package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// WSHub mirrors published events onto connected WebSocket clients.
type WSHub interface {
	Publish(channel string, message map[string]interface{})
}

// Bus publishes submission lifecycle events. Events go out on Redis pub/sub
// so other processes can react, and are mirrored into the local WebSocket hub
// for admin dashboards served by this process.
type Bus struct {
	rdb   *redis.Client
	log   *zap.Logger
	wsHub WSHub
}

// New creates a new event bus backed by the given Redis client
func New(rdb *redis.Client, log *zap.Logger) *Bus {
	return &Bus{
		rdb: rdb,
		log: log,
	}
}

// SetWSHub attaches a WebSocket hub for local event mirroring
func (b *Bus) SetWSHub(hub WSHub) {
	b.wsHub = hub
}

// PublishSubmission publishes a submission event on the per-form channel,
// e.g. "submissions:jobApplication".
func (b *Bus) PublishSubmission(ctx context.Context, form string, event map[string]interface{}) error {
	channel := fmt.Sprintf("submissions:%s", form)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := b.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		b.log.Error("Failed to publish event",
			zap.String("channel", channel),
			zap.Error(err))
		return err
	}

	if b.wsHub != nil {
		b.wsHub.Publish(channel, event)
	}

	return nil
}

// Close closes the underlying Redis client
func (b *Bus) Close() error {
	return b.rdb.Close()
}
