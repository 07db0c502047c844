package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"socialnet/internal/models"
)

func TestFollowRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewFollowRepository(mock)
	follow := models.Follow{ID: "f1", UserID: "a", FollowedID: "b"}

	mock.ExpectExec("INSERT INTO follows").
		WithArgs("f1", "a", "b").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO follows").
		WithArgs("f1", "a", "b").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectExec("INSERT INTO follows").
		WithArgs("f1", "a", "b").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	require.NoError(t, repo.Create(context.Background(), follow))
	require.ErrorIs(t, repo.Create(context.Background(), follow), ErrFollowExists)
	require.ErrorIs(t, repo.Create(context.Background(), follow), ErrUserNotFound)
}

func TestFollowRepositoryDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewFollowRepository(mock)

	mock.ExpectExec("DELETE FROM follows").
		WithArgs("a", "b").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM follows").
		WithArgs("a", "b").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), "a", "b"))
	require.ErrorIs(t, repo.Delete(context.Background(), "a", "b"), ErrFollowNotFound)
}

func TestFollowRepositoryIDs(t *testing.T) {
	mock := newMock(t)
	repo := NewFollowRepository(mock)

	mock.ExpectQuery("SELECT followed_id FROM follows").
		WithArgs("a").
		WillReturnRows(pgxmock.NewRows([]string{"followed_id"}).AddRow("b").AddRow("c"))
	mock.ExpectQuery("SELECT user_id FROM follows").
		WithArgs("a").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}))

	following, err := repo.FollowingIDs(context.Background(), "a")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"b", "c"}, following)

	followers, err := repo.FollowerIDs(context.Background(), "a")
	require.NoError(t, err)
	require.Empty(t, followers)
}

func TestFollowRepositoryListFollowing(t *testing.T) {
	mock := newMock(t)
	repo := NewFollowRepository(mock)

	now := time.Now()
	cols := []string{"id", "user_id", "followed_id", "created_at", "u_id", "u_name", "u_surname", "u_nick", "u_image", "t_id", "t_name", "t_surname", "t_nick", "t_image"}
	mock.ExpectQuery("FROM follows f").
		WithArgs("a", 4, 0).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("f1", "a", "b", now, "a", "Ana", "G", "ana", nil, "b", "Bea", "H", "bea", nil))
	mock.ExpectQuery("FROM follows f").
		WithArgs("a", nil, 0).
		WillReturnRows(pgxmock.NewRows(cols))

	views, err := repo.ListFollowing(context.Background(), "a", 4, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, "bea", views[0].Followed.Nick)
	require.Equal(t, "ana", views[0].User.Nick)

	all, err := repo.ListFollowers(context.Background(), "a", 0, 0)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestFollowRepositoryCounts(t *testing.T) {
	mock := newMock(t)
	repo := NewFollowRepository(mock)

	mock.ExpectQuery("SELECT COUNT").WithArgs("a").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery("SELECT COUNT").WithArgs("a").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	following, err := repo.CountFollowing(context.Background(), "a")
	require.NoError(t, err)
	require.EqualValues(t, 3, following)

	followers, err := repo.CountFollowers(context.Background(), "a")
	require.NoError(t, err)
	require.EqualValues(t, 1, followers)
}
