package memory

import (
	"context"

	"socialnet/internal/models"
	"socialnet/internal/repository"
)

type FollowRepository struct {
	s *Store
}

func (r *FollowRepository) Create(_ context.Context, follow models.Follow) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[follow.UserID]; !ok {
		return repository.ErrUserNotFound
	}
	if _, ok := r.s.users[follow.FollowedID]; !ok {
		return repository.ErrUserNotFound
	}
	if r.find(follow.UserID, follow.FollowedID) != "" {
		return repository.ErrFollowExists
	}
	follow.CreatedAt = r.s.now()
	r.s.follows[follow.ID] = follow
	return nil
}

// find must be called with the lock held.
func (r *FollowRepository) find(userID, followedID string) string {
	for id, f := range r.s.follows {
		if f.UserID == userID && f.FollowedID == followedID {
			return id
		}
	}
	return ""
}

func (r *FollowRepository) Delete(_ context.Context, userID, followedID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id := r.find(userID, followedID)
	if id == "" {
		return repository.ErrFollowNotFound
	}
	delete(r.s.follows, id)
	return nil
}

func (r *FollowRepository) Exists(_ context.Context, userID, followedID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.find(userID, followedID) != "", nil
}

func (r *FollowRepository) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []string
	for _, f := range r.edges(func(f models.Follow) bool { return f.UserID == userID }) {
		ids = append(ids, f.FollowedID)
	}
	return ids, nil
}

func (r *FollowRepository) FollowerIDs(_ context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var ids []string
	for _, f := range r.edges(func(f models.Follow) bool { return f.FollowedID == userID }) {
		ids = append(ids, f.UserID)
	}
	return ids, nil
}

func (r *FollowRepository) ListFollowing(_ context.Context, userID string, limit, offset int) ([]models.FollowView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.views(r.edges(func(f models.Follow) bool { return f.UserID == userID }), limit, offset), nil
}

func (r *FollowRepository) ListFollowers(_ context.Context, userID string, limit, offset int) ([]models.FollowView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.views(r.edges(func(f models.Follow) bool { return f.FollowedID == userID }), limit, offset), nil
}

func (r *FollowRepository) CountFollowing(_ context.Context, userID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.edges(func(f models.Follow) bool { return f.UserID == userID }))), nil
}

func (r *FollowRepository) CountFollowers(_ context.Context, userID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.edges(func(f models.Follow) bool { return f.FollowedID == userID }))), nil
}

func (r *FollowRepository) edges(keep func(models.Follow) bool) []models.Follow {
	return sortedValues(r.s.follows, keep, func(a, b models.Follow) bool { return a.ID < b.ID })
}

func (r *FollowRepository) views(edges []models.Follow, limit, offset int) []models.FollowView {
	page := window(edges, limit, offset)
	out := make([]models.FollowView, 0, len(page))
	for _, f := range page {
		out = append(out, models.FollowView{
			Follow:   f,
			User:     r.s.summary(f.UserID),
			Followed: r.s.summary(f.FollowedID),
		})
	}
	return out
}
