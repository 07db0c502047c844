package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"socialnet/internal/models"
)

func TestMessageRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewMessageRepository(mock)

	now := time.Now()
	mock.ExpectExec("INSERT INTO messages").
		WithArgs("m1", "a", "b", "hola", false, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), models.Message{ID: "m1", EmitterID: "a", ReceiverID: "b", Text: "hola", CreatedAt: now})
	require.NoError(t, err)
}

func TestMessageRepositoryListUnviewed(t *testing.T) {
	mock := newMock(t)
	repo := NewMessageRepository(mock)

	cols := []string{"id", "emitter_id", "receiver_id", "text", "viewed", "created_at",
		"e_id", "e_name", "e_surname", "e_nick", "e_image", "r_id", "r_name", "r_surname", "r_nick", "r_image"}
	mock.ExpectQuery("AND NOT m.viewed").
		WithArgs("b").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("m1", "a", "b", "hola", false, time.Now(), "a", "Ana", "G", "ana", nil, "b", "Bea", "H", "bea", nil))

	views, err := repo.ListUnviewed(context.Background(), "b")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.False(t, views[0].Viewed)
	require.Equal(t, "ana", views[0].Emitter.Nick)
}

func TestMessageRepositoryMarkViewed(t *testing.T) {
	mock := newMock(t)
	repo := NewMessageRepository(mock)

	mock.ExpectExec("UPDATE messages SET viewed").
		WithArgs("b").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := repo.MarkViewed(context.Background(), "b")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)
}

func TestMessageRepositoryCounts(t *testing.T) {
	mock := newMock(t)
	repo := NewMessageRepository(mock)

	mock.ExpectQuery("WHERE receiver_id = \\$1 AND NOT viewed").
		WithArgs("b").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery("WHERE emitter_id").
		WithArgs("a").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))

	unviewed, err := repo.CountUnviewed(context.Background(), "b")
	require.NoError(t, err)
	require.EqualValues(t, 2, unviewed)

	sent, err := repo.CountSent(context.Background(), "a")
	require.NoError(t, err)
	require.EqualValues(t, 5, sent)
}
