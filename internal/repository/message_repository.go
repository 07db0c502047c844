package repository

import (
	"context"

	"socialnet/internal/models"
)

type MessageRepository struct {
	db DB
}

func NewMessageRepository(db DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg models.Message) error {
	const query = `
		INSERT INTO messages (id, emitter_id, receiver_id, text, viewed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, msg.ID, msg.EmitterID, msg.ReceiverID, msg.Text, msg.Viewed, msg.CreatedAt)
	if hasPgCode(err, pgForeignKeyViolation) {
		return ErrUserNotFound
	}
	return err
}

const messageViewQuery = `
	SELECT m.id, m.emitter_id, m.receiver_id, m.text, m.viewed, m.created_at,
	       e.id, e.name, e.surname, e.nick, e.image,
	       r.id, r.name, r.surname, r.nick, r.image
	FROM messages m
	JOIN users e ON e.id = m.emitter_id
	JOIN users r ON r.id = m.receiver_id
`

func (r *MessageRepository) ListReceived(ctx context.Context, receiverID string, limit, offset int) ([]models.MessageView, error) {
	const query = messageViewQuery + `
	WHERE m.receiver_id = $1
	ORDER BY m.created_at DESC, m.id DESC
	LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, receiverID, limitArg(limit), offset)
}

func (r *MessageRepository) ListSent(ctx context.Context, emitterID string, limit, offset int) ([]models.MessageView, error) {
	const query = messageViewQuery + `
	WHERE m.emitter_id = $1
	ORDER BY m.created_at DESC, m.id DESC
	LIMIT $2 OFFSET $3
	`
	return r.list(ctx, query, emitterID, limitArg(limit), offset)
}

func (r *MessageRepository) ListUnviewed(ctx context.Context, receiverID string) ([]models.MessageView, error) {
	const query = messageViewQuery + `
	WHERE m.receiver_id = $1 AND NOT m.viewed
	ORDER BY m.created_at DESC, m.id DESC
	`
	return r.list(ctx, query, receiverID)
}

func (r *MessageRepository) CountReceived(ctx context.Context, receiverID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM messages WHERE receiver_id = $1`, receiverID)
}

func (r *MessageRepository) CountSent(ctx context.Context, emitterID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM messages WHERE emitter_id = $1`, emitterID)
}

func (r *MessageRepository) CountUnviewed(ctx context.Context, receiverID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT viewed`, receiverID)
}

// MarkViewed flags every unread message addressed to receiverID and reports
// how many changed.
func (r *MessageRepository) MarkViewed(ctx context.Context, receiverID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE messages SET viewed = TRUE WHERE receiver_id = $1 AND NOT viewed`, receiverID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]models.MessageView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []models.MessageView
	for rows.Next() {
		var v models.MessageView
		if err := rows.Scan(
			&v.ID, &v.EmitterID, &v.ReceiverID, &v.Text, &v.Viewed, &v.CreatedAt,
			&v.Emitter.ID, &v.Emitter.Name, &v.Emitter.Surname, &v.Emitter.Nick, &v.Emitter.Image,
			&v.Receiver.ID, &v.Receiver.Name, &v.Receiver.Surname, &v.Receiver.Nick, &v.Receiver.Image,
		); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *MessageRepository) count(ctx context.Context, query, id string) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
