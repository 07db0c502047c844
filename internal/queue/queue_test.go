package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"socialnet/internal/events"
)

type recordingHandler struct {
	mu       sync.Mutex
	handled  []events.Event
	failures int
}

func (h *recordingHandler) Handle(_ context.Context, e events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failures > 0 {
		h.failures--
		return errors.New("transient")
	}
	h.handled = append(h.handled, e)
	return nil
}

func newStreamConsumer(t *testing.T, h Handler) (*StreamConsumer, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c := NewStreamConsumer(client, "events", "worker", "w1", time.Minute, zerolog.Nop(), h)
	c.block = -1
	require.NoError(t, c.EnsureGroup(context.Background()))
	require.NoError(t, c.EnsureGroup(context.Background()))
	return c, client
}

func TestStreamConsumerHandlesAndAcks(t *testing.T) {
	h := &recordingHandler{}
	c, client := newStreamConsumer(t, h)
	ctx := context.Background()

	pub := events.NewStreamPublisher(client, "events")
	require.NoError(t, pub.Publish(ctx, events.New(events.PublicationDeleted, "u1", map[string]string{
		events.KeyFile: "u1-1.png",
	})))
	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{Stream: "events", Values: map[string]any{"foo": "bar"}}).Err())

	require.NoError(t, c.read(ctx))

	require.Len(t, h.handled, 1)
	require.Equal(t, events.PublicationDeleted, h.handled[0].Type)
	require.Equal(t, "u1-1.png", h.handled[0].Data[events.KeyFile])
	require.NotEmpty(t, h.handled[0].ID)

	pending, err := client.XPending(ctx, "events", "worker").Result()
	require.NoError(t, err)
	require.Zero(t, pending.Count)
}

func TestStreamConsumerReclaimsFailedEntries(t *testing.T) {
	h := &recordingHandler{failures: 1}
	c, client := newStreamConsumer(t, h)
	ctx := context.Background()

	pub := events.NewStreamPublisher(client, "events")
	require.NoError(t, pub.Publish(ctx, events.New(events.UserImageReplaced, "u1", map[string]string{
		events.KeyPreviousImage: "u1-1.png",
	})))

	require.NoError(t, c.read(ctx))
	require.Empty(t, h.handled)

	pending, err := client.XPending(ctx, "events", "worker").Result()
	require.NoError(t, err)
	require.EqualValues(t, 1, pending.Count)

	c.claimInterval = 0
	require.NoError(t, c.claimStalled(ctx))
	require.Len(t, h.handled, 1)

	pending, err = client.XPending(ctx, "events", "worker").Result()
	require.NoError(t, err)
	require.Zero(t, pending.Count)
}

type fakeReader struct {
	msgs      []kafka.Message
	committed []kafka.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestKafkaConsumerRetriesThenCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	body, err := json.Marshal(events.New(events.OrphanSweep, "", nil))
	require.NoError(t, err)

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafka.Message{
			{Topic: "events", Offset: 1, Value: body},
			{Topic: "events", Offset: 2, Value: []byte("not json")},
		},
	}
	h := &recordingHandler{failures: 2}
	c := NewKafkaConsumer(reader, zerolog.Nop(), h)
	c.backoff = 0

	err = c.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, h.handled, 1)
	require.Equal(t, "events/0/1", h.handled[0].ID)
	require.Len(t, reader.committed, 2)
}
