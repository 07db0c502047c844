package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"socialnet/internal/events"
)

const kafkaAttempts = 3

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
		StartOffset:    kafka.FirstOffset,
	})
}

// KafkaConsumer reads a topic through a consumer group. A message is retried
// a few times in place, then committed and logged so the partition keeps
// moving.
type KafkaConsumer struct {
	reader  MessageReader
	logger  zerolog.Logger
	handler Handler
	backoff time.Duration
}

func NewKafkaConsumer(reader MessageReader, logger zerolog.Logger, handler Handler) *KafkaConsumer {
	return &KafkaConsumer{
		reader:  reader,
		logger:  logger,
		handler: handler,
		backoff: time.Second,
	}
}

func (c *KafkaConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("commit failed")
		}
	}
}

func (c *KafkaConsumer) process(ctx context.Context, msg kafka.Message) {
	event, err := events.DecodeKafka(msg)
	if err != nil {
		c.logger.Error().Err(err).Msg("dropping malformed message")
		return
	}

	for attempt := 1; attempt <= kafkaAttempts; attempt++ {
		err = c.handler.Handle(ctx, event)
		if err == nil {
			return
		}
		c.logger.Warn().
			Err(err).
			Str("message_id", event.ID).
			Str("event", string(event.Type)).
			Int("attempt", attempt).
			Msg("handle message failed")
		if attempt < kafkaAttempts {
			sleep(ctx, c.backoff*time.Duration(attempt))
		}
	}
	c.logger.Error().Str("message_id", event.ID).Msg("giving up on message")
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
