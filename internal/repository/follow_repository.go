package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"socialnet/internal/models"
)

type FollowRepository struct {
	db DB
}

func NewFollowRepository(db DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts the edge unless the pair already exists. The unique pair
// constraint makes concurrent duplicate follows collapse into ErrFollowExists.
func (r *FollowRepository) Create(ctx context.Context, follow models.Follow) error {
	const query = `
		INSERT INTO follows (id, user_id, followed_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, followed_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, follow.ID, follow.UserID, follow.FollowedID)
	if err != nil {
		if hasPgCode(err, pgForeignKeyViolation) {
			return ErrUserNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFollowExists
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, userID, followedID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM follows WHERE user_id = $1 AND followed_id = $2`, userID, followedID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFollowNotFound
	}
	return nil
}

func (r *FollowRepository) Exists(ctx context.Context, userID, followedID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM follows WHERE user_id = $1 AND followed_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, followedID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FollowingIDs lists the ids userID follows.
func (r *FollowRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.ids(ctx, `SELECT followed_id FROM follows WHERE user_id = $1`, userID)
}

// FollowerIDs lists the ids following userID.
func (r *FollowRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return r.ids(ctx, `SELECT user_id FROM follows WHERE followed_id = $1`, userID)
}

func (r *FollowRepository) ids(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect follow ids: %w", err)
	}
	return ids, nil
}

const followViewQuery = `
	SELECT f.id, f.user_id, f.followed_id, f.created_at,
	       u.id, u.name, u.surname, u.nick, u.image,
	       t.id, t.name, t.surname, t.nick, t.image
	FROM follows f
	JOIN users u ON u.id = f.user_id
	JOIN users t ON t.id = f.followed_id
`

// ListFollowing returns edges out of userID. A non-positive limit returns all.
func (r *FollowRepository) ListFollowing(ctx context.Context, userID string, limit, offset int) ([]models.FollowView, error) {
	const query = followViewQuery + `
	WHERE f.user_id = $1
	ORDER BY f.id
	LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, userID, limit, offset)
}

// ListFollowers returns edges into userID. A non-positive limit returns all.
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string, limit, offset int) ([]models.FollowView, error) {
	const query = followViewQuery + `
	WHERE f.followed_id = $1
	ORDER BY f.id
	LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *FollowRepository) list(ctx context.Context, query, userID string, limit, offset int) ([]models.FollowView, error) {
	rows, err := r.db.Query(ctx, query, userID, limitArg(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []models.FollowView
	for rows.Next() {
		var v models.FollowView
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.FollowedID, &v.CreatedAt,
			&v.User.ID, &v.User.Name, &v.User.Surname, &v.User.Nick, &v.User.Image,
			&v.Followed.ID, &v.Followed.Name, &v.Followed.Surname, &v.Followed.Nick, &v.Followed.Image,
		); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE user_id = $1`, userID)
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE followed_id = $1`, userID)
}

func (r *FollowRepository) count(ctx context.Context, query, userID string) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
