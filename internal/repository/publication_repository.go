package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"socialnet/internal/models"
)

type PublicationRepository struct {
	db DB
}

func NewPublicationRepository(db DB) *PublicationRepository {
	return &PublicationRepository{db: db}
}

func (r *PublicationRepository) Create(ctx context.Context, pub models.Publication) error {
	const query = `
		INSERT INTO publications (id, user_id, text, file, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, pub.ID, pub.UserID, pub.Text, pub.File, pub.CreatedAt)
	if hasPgCode(err, pgForeignKeyViolation) {
		return ErrUserNotFound
	}
	return err
}

const publicationViewQuery = `
	SELECT p.id, p.user_id, p.text, p.file, p.created_at,
	       u.id, u.name, u.surname, u.nick, u.image
	FROM publications p
	JOIN users u ON u.id = p.user_id
`

func (r *PublicationRepository) GetByID(ctx context.Context, id string) (models.PublicationView, error) {
	view, err := scanPublicationView(r.db.QueryRow(ctx, publicationViewQuery+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.PublicationView{}, ErrPublicationNotFound
	}
	return view, err
}

// ListByAuthors returns publications written by any of authorIDs, newest first.
func (r *PublicationRepository) ListByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]models.PublicationView, error) {
	const query = publicationViewQuery + `
	WHERE p.user_id = ANY($1)
	ORDER BY p.created_at DESC, p.id DESC
	LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, authorIDs, limitArg(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []models.PublicationView
	for rows.Next() {
		view, err := scanPublicationView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, rows.Err()
}

func (r *PublicationRepository) CountByAuthors(ctx context.Context, authorIDs []string) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM publications WHERE user_id = ANY($1)`, authorIDs).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a publication owned by userID and returns the removed row.
func (r *PublicationRepository) Delete(ctx context.Context, id, userID string) (models.Publication, error) {
	const query = `
		DELETE FROM publications WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, text, file, created_at
	`
	return scanPublication(r.db.QueryRow(ctx, query, id, userID))
}

func (r *PublicationRepository) UpdateFile(ctx context.Context, id, userID, file string) (models.Publication, error) {
	const query = `
		UPDATE publications SET file = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, text, file, created_at
	`
	return scanPublication(r.db.QueryRow(ctx, query, id, userID, file))
}

func (r *PublicationRepository) FileInUse(ctx context.Context, file string) (bool, error) {
	var used bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM publications WHERE file = $1)`, file).Scan(&used); err != nil {
		return false, err
	}
	return used, nil
}

func scanPublication(row pgx.Row) (models.Publication, error) {
	var pub models.Publication
	if err := row.Scan(&pub.ID, &pub.UserID, &pub.Text, &pub.File, &pub.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Publication{}, ErrPublicationNotFound
		}
		return models.Publication{}, err
	}
	return pub, nil
}

func scanPublicationView(row pgx.Row) (models.PublicationView, error) {
	var v models.PublicationView
	err := row.Scan(
		&v.ID, &v.UserID, &v.Text, &v.File, &v.CreatedAt,
		&v.Author.ID, &v.Author.Name, &v.Author.Surname, &v.Author.Nick, &v.Author.Image,
	)
	return v, err
}
