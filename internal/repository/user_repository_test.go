package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"socialnet/internal/models"
)

var userRowColumns = []string{"id", "name", "surname", "nick", "email", "password_hash", "role", "image", "created_at", "updated_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestUserRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	user := models.User{ID: "u1", Name: "Ana", Surname: "G", Nick: "ana", Email: "a@x.com", PasswordHash: []byte("h"), Role: models.UserRoleUser}
	mock.ExpectExec("INSERT INTO users").
		WithArgs("u1", "Ana", "G", "ana", "a@x.com", []byte("h"), models.UserRoleUser, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), user))
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_idx"})

	err := repo.Create(context.Background(), models.User{ID: "u2"})
	require.ErrorIs(t, err, ErrUserExists)
}

func TestUserRepositoryGetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	now := time.Now()
	mock.ExpectQuery("FROM users WHERE id").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("u1", "Ana", "G", "ana", "a@x.com", []byte("h"), models.UserRoleUser, nil, now, now))

	user, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "ana", user.Nick)
	require.Equal(t, models.UserRoleUser, user.Role)
	require.Nil(t, user.Image)
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(userRowColumns))

	_, err := repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepositoryListAndCount(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	now := time.Now()
	image := "u2-1.png"
	mock.ExpectQuery("FROM users").
		WithArgs(5, 5).
		WillReturnRows(pgxmock.NewRows(userRowColumns).
			AddRow("u1", "Ana", "G", "ana", "a@x.com", []byte("h"), models.UserRoleUser, nil, now, now).
			AddRow("u2", "Bea", "H", "bea", "b@x.com", []byte("h"), models.UserRoleUser, &image, now, now))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	users, err := repo.List(context.Background(), 5, 5)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "u2-1.png", *users[1].Image)

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 7, total)
}

func TestUserRepositoryUpdateProfileTaken(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("UPDATE users").
		WithArgs("u1", "Ana", "G", "taken", "a@x.com").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.UpdateProfile(context.Background(), "u1", models.ProfileUpdate{Name: "Ana", Surname: "G", Nick: "taken", Email: "a@x.com"})
	require.ErrorIs(t, err, ErrUserExists)
}

func TestUserRepositoryImageInUse(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("u1-1.png").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("broken").
		WillReturnError(errors.New("conn reset"))

	used, err := repo.ImageInUse(context.Background(), "u1-1.png")
	require.NoError(t, err)
	require.True(t, used)

	_, err = repo.ImageInUse(context.Background(), "broken")
	require.ErrorContains(t, err, "conn reset")
}
