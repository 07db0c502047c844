package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"socialnet/internal/pagination"
)

func TestMessageFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana := f.register(t, "ana")
	bob := f.register(t, "bob")

	_, err := f.messages.Send(ctx, ana.ID, bob.ID, "")
	require.ErrorIs(t, err, ErrMissingFields)
	_, err = f.messages.Send(ctx, ana.ID, "missing", "hola")
	require.ErrorIs(t, err, ErrUserNotFound)

	msg, err := f.messages.Send(ctx, ana.ID, bob.ID, "hola bob")
	require.NoError(t, err)
	require.False(t, msg.Viewed)

	unviewed, err := f.messages.Unviewed(ctx, bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, unviewed.Count)
	require.Equal(t, msg.ID, unviewed.Messages[0].ID)
	require.Equal(t, "ana", unviewed.Messages[0].Emitter.Nick)

	received, err := f.messages.Received(ctx, bob.ID, pagination.Parse("", "", pagination.DefaultMessages))
	require.NoError(t, err)
	require.EqualValues(t, 1, received.Total)

	sent, err := f.messages.Sent(ctx, ana.ID, pagination.Parse("", "", pagination.DefaultMessages))
	require.NoError(t, err)
	require.Len(t, sent.Items, 1)
	require.Equal(t, "bob", sent.Items[0].Receiver.Nick)

	n, err := f.messages.MarkViewed(ctx, bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	unviewed, err = f.messages.Unviewed(ctx, bob.ID)
	require.NoError(t, err)
	require.Zero(t, unviewed.Count)
	require.Empty(t, unviewed.Messages)

	n, err = f.messages.MarkViewed(ctx, bob.ID)
	require.NoError(t, err)
	require.Zero(t, n)
}
