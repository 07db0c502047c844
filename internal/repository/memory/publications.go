package memory

import (
	"context"
	"slices"

	"socialnet/internal/models"
	"socialnet/internal/repository"
)

type PublicationRepository struct {
	s *Store
}

func (r *PublicationRepository) Create(_ context.Context, pub models.Publication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[pub.UserID]; !ok {
		return repository.ErrUserNotFound
	}
	r.s.publications[pub.ID] = pub
	return nil
}

func (r *PublicationRepository) GetByID(_ context.Context, id string) (models.PublicationView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pub, ok := r.s.publications[id]
	if !ok {
		return models.PublicationView{}, repository.ErrPublicationNotFound
	}
	return models.PublicationView{Publication: pub, Author: r.s.summary(pub.UserID)}, nil
}

func (r *PublicationRepository) ListByAuthors(_ context.Context, authorIDs []string, limit, offset int) ([]models.PublicationView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	page := window(r.byAuthors(authorIDs), limit, offset)
	out := make([]models.PublicationView, 0, len(page))
	for _, pub := range page {
		out = append(out, models.PublicationView{Publication: pub, Author: r.s.summary(pub.UserID)})
	}
	return out, nil
}

func (r *PublicationRepository) CountByAuthors(_ context.Context, authorIDs []string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.byAuthors(authorIDs))), nil
}

func (r *PublicationRepository) byAuthors(authorIDs []string) []models.Publication {
	return sortedValues(r.s.publications,
		func(p models.Publication) bool { return slices.Contains(authorIDs, p.UserID) },
		func(a, b models.Publication) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID > b.ID
			}
			return a.CreatedAt.After(b.CreatedAt)
		},
	)
}

func (r *PublicationRepository) Delete(_ context.Context, id, userID string) (models.Publication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pub, ok := r.s.publications[id]
	if !ok || pub.UserID != userID {
		return models.Publication{}, repository.ErrPublicationNotFound
	}
	delete(r.s.publications, id)
	return pub, nil
}

func (r *PublicationRepository) UpdateFile(_ context.Context, id, userID, file string) (models.Publication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pub, ok := r.s.publications[id]
	if !ok || pub.UserID != userID {
		return models.Publication{}, repository.ErrPublicationNotFound
	}
	pub.File = &file
	r.s.publications[id] = pub
	return pub, nil
}

func (r *PublicationRepository) FileInUse(_ context.Context, file string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.publications {
		if p.File != nil && *p.File == file {
			return true, nil
		}
	}
	return false, nil
}
