package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"aerosafety/labelboard/internal/constants"
	"aerosafety/labelboard/internal/logging"
)

// Notifier delivers fire-and-forget notices to a user. Implementations must
// never let a delivery failure escape to the caller.
type Notifier interface {
	Notify(ctx context.Context, eventType, recipientID, message, path, source string)
}

// Notice is the wire format published on the per-user channel. Path encodes
// project/event/item identifiers for client-side deep-linking.
type Notice struct {
	ID        string    `json:"id"`
	EventType string    `json:"event_type"`
	Recipient string    `json:"recipient"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisNotificationDispatcher publishes notices over Redis pub/sub.
type RedisNotificationDispatcher struct {
	client *redis.Client
}

// Ensure RedisNotificationDispatcher implements Notifier
var _ Notifier = (*RedisNotificationDispatcher)(nil)

// NewRedisNotificationDispatcher creates a dispatcher around an existing client.
func NewRedisNotificationDispatcher(client *redis.Client) *RedisNotificationDispatcher {
	return &RedisNotificationDispatcher{client: client}
}

// Notify publishes a notice to the recipient's channel. An empty recipient is
// a silent no-op; publish failures are logged and swallowed so a state
// transition is never rolled back over its notification.
func (d *RedisNotificationDispatcher) Notify(ctx context.Context, eventType, recipientID, message, path, source string) {
	if recipientID == "" {
		return
	}

	notice := Notice{
		ID:        uuid.New().String(),
		EventType: eventType,
		Recipient: recipientID,
		Message:   message,
		Path:      path,
		Source:    source,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(notice)
	if err != nil {
		logging.Error("Failed to marshal notice", "event_type", eventType, "error", err.Error())
		return
	}

	channel := constants.NotifyChannelPrefix + recipientID
	if err := d.client.Publish(ctx, channel, data).Err(); err != nil {
		logging.Error("Failed to publish notice",
			"channel", channel,
			"event_type", eventType,
			"error", err.Error(),
		)
	}
}

// NoopNotifier discards all notices; used when Redis is not configured.
type NoopNotifier struct{}

var _ Notifier = (*NoopNotifier)(nil)

func (NoopNotifier) Notify(ctx context.Context, eventType, recipientID, message, path, source string) {
}
