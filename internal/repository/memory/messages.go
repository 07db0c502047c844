package memory

import (
	"context"

	"socialnet/internal/models"
	"socialnet/internal/repository"
)

type MessageRepository struct {
	s *Store
}

func (r *MessageRepository) Create(_ context.Context, msg models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[msg.EmitterID]; !ok {
		return repository.ErrUserNotFound
	}
	if _, ok := r.s.users[msg.ReceiverID]; !ok {
		return repository.ErrUserNotFound
	}
	r.s.messages[msg.ID] = msg
	return nil
}

func (r *MessageRepository) ListReceived(_ context.Context, receiverID string, limit, offset int) ([]models.MessageView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.views(r.filter(func(m models.Message) bool { return m.ReceiverID == receiverID }), limit, offset), nil
}

func (r *MessageRepository) ListSent(_ context.Context, emitterID string, limit, offset int) ([]models.MessageView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.views(r.filter(func(m models.Message) bool { return m.EmitterID == emitterID }), limit, offset), nil
}

func (r *MessageRepository) ListUnviewed(_ context.Context, receiverID string) ([]models.MessageView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.views(r.filter(unviewedFor(receiverID)), 0, 0), nil
}

func (r *MessageRepository) CountReceived(_ context.Context, receiverID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filter(func(m models.Message) bool { return m.ReceiverID == receiverID }))), nil
}

func (r *MessageRepository) CountSent(_ context.Context, emitterID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filter(func(m models.Message) bool { return m.EmitterID == emitterID }))), nil
}

func (r *MessageRepository) CountUnviewed(_ context.Context, receiverID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.filter(unviewedFor(receiverID)))), nil
}

func (r *MessageRepository) MarkViewed(_ context.Context, receiverID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, m := range r.s.messages {
		if unviewedFor(receiverID)(m) {
			m.Viewed = true
			r.s.messages[id] = m
			n++
		}
	}
	return n, nil
}

func unviewedFor(receiverID string) func(models.Message) bool {
	return func(m models.Message) bool { return m.ReceiverID == receiverID && !m.Viewed }
}

func (r *MessageRepository) filter(keep func(models.Message) bool) []models.Message {
	return sortedValues(r.s.messages, keep, func(a, b models.Message) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (r *MessageRepository) views(msgs []models.Message, limit, offset int) []models.MessageView {
	page := window(msgs, limit, offset)
	out := make([]models.MessageView, 0, len(page))
	for _, m := range page {
		out = append(out, models.MessageView{
			Message:  m,
			Emitter:  r.s.summary(m.EmitterID),
			Receiver: r.s.summary(m.ReceiverID),
		})
	}
	return out
}
