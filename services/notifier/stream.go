package notifier

import (
	"context"
	"encoding/base64"

	"sjsage522/offerwatch/internal/message"
	"sjsage522/offerwatch/logger"
	"sjsage522/offerwatch/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// AlertField is the stream entry field carrying the base64 encoded message
const AlertField = "alert"

const channelStream = "redis-stream"

// StreamNotifier appends alerts to a Redis stream for other consumers to deliver
type StreamNotifier struct {
	client    *redis.Client
	stream    string
	maxLength int64
	logger    *logger.Logger
}

// NewStreamNotifier creates a new Redis stream notifier
func NewStreamNotifier(addr string, db int, stream string, maxLength int) *StreamNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	return NewStreamNotifierWithClient(client, stream, maxLength)
}

// NewStreamNotifierWithClient wraps an existing client
func NewStreamNotifierWithClient(client *redis.Client, stream string, maxLength int) *StreamNotifier {
	return &StreamNotifier{
		client:    client,
		stream:    stream,
		maxLength: int64(maxLength),
		logger:    logger.ForNotifier(),
	}
}

// Notify publishes text to the stream, base64 encoded, then trims the stream
func (n *StreamNotifier) Notify(ctx context.Context, text string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(text))

	id, err := n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]interface{}{
			AlertField: encoded,
		},
	}).Result()
	if err != nil {
		return errors.NewNotification(channelStream, "failed to publish alert", err)
	}

	if n.maxLength > 0 {
		if err := n.client.XTrimMaxLen(ctx, n.stream, n.maxLength).Err(); err != nil {
			n.logger.Warn().Err(err).Str("stream", n.stream).Msg("Failed to trim alert stream")
		}
	}

	n.logger.Debug().
		Str("stream", n.stream).
		Str("id", id).
		Msg("Published alert")
	return nil
}

// NotifyError publishes the failure summary
func (n *StreamNotifier) NotifyError(ctx context.Context, summary string) error {
	return n.Notify(ctx, message.FormatError(summary))
}

// Close closes the Redis connection
func (n *StreamNotifier) Close() error {
	return n.client.Close()
}
