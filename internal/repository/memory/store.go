// Package memory keeps every aggregate in process memory. It backs the
// "memory" database driver and the service and handler tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"socialnet/internal/models"
)

type Store struct {
	mu           sync.RWMutex
	users        map[string]models.User
	follows      map[string]models.Follow
	publications map[string]models.Publication
	messages     map[string]models.Message
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]models.User),
		follows:      make(map[string]models.Follow),
		publications: make(map[string]models.Publication),
		messages:     make(map[string]models.Message),
		now:          time.Now,
	}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) Follows() *FollowRepository {
	return &FollowRepository{s: s}
}

func (s *Store) Publications() *PublicationRepository {
	return &PublicationRepository{s: s}
}

func (s *Store) Messages() *MessageRepository {
	return &MessageRepository{s: s}
}

// summary must be called with s.mu held.
func (s *Store) summary(id string) models.UserSummary {
	if u, ok := s.users[id]; ok {
		return u.Summary()
	}
	return models.UserSummary{ID: id}
}

func window[T any](items []T, limit, offset int) []T {
	if offset < 0 || offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortedValues[T any](m map[string]T, keep func(T) bool, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func sameFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
