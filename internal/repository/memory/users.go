package memory

import (
	"context"

	"socialnet/internal/models"
	"socialnet/internal/repository"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.conflicts("", user.Email, user.Nick) {
		return repository.ErrUserExists
	}
	now := r.s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = user
	return nil
}

// conflicts must be called with the lock held.
func (r *UserRepository) conflicts(exceptID, email, nick string) bool {
	for id, u := range r.s.users {
		if id == exceptID {
			continue
		}
		if sameFold(u.Email, email) || sameFold(u.Nick, nick) {
			return true
		}
	}
	return false
}

func (r *UserRepository) GetByID(_ context.Context, id string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if sameFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := sortedValues(r.s.users,
		func(models.User) bool { return true },
		func(a, b models.User) bool { return a.ID < b.ID },
	)
	return window(all, limit, offset), nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, id string, update models.ProfileUpdate) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	if r.conflicts(id, update.Email, update.Nick) {
		return models.User{}, repository.ErrUserExists
	}
	user.Name = update.Name
	user.Surname = update.Surname
	user.Nick = update.Nick
	user.Email = update.Email
	user.UpdatedAt = r.s.now()
	r.s.users[id] = user
	return user, nil
}

func (r *UserRepository) UpdateImage(_ context.Context, id, image string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	user.Image = &image
	user.UpdatedAt = r.s.now()
	r.s.users[id] = user
	return user, nil
}

func (r *UserRepository) ImageInUse(_ context.Context, image string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Image != nil && *u.Image == image {
			return true, nil
		}
	}
	return false, nil
}
