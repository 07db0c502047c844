package service

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"socialnet/internal/events"
	"socialnet/internal/models"
	"socialnet/internal/repository/memory"
	"socialnet/internal/security"
	"socialnet/internal/storage"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}, bytes.Repeat([]byte{0}, 64)...)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) ofType(t events.Type) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	store        *memory.Store
	files        *storage.LocalStore
	published    *recorder
	auth         *AuthService
	users        *UserService
	follows      *FollowService
	publications *PublicationService
	messages     *MessageService
	media        *MediaService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	files, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	rec := &recorder{}
	log := zerolog.Nop()
	notifier := events.NewNotifier(rec, nil, log)
	tokens := security.NewTokenService("0123456789abcdef0123456789abcdef", time.Hour, nil)

	media := NewMediaService(files, 1<<20, nil, log)
	tick := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	media.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Millisecond)
		return tick
	}

	f := &fixture{
		store:     store,
		files:     files,
		published: rec,
		auth: NewAuthService(store.Users(), tokens, log).WithHasher(func(p string) ([]byte, error) {
			return security.HashPasswordWithParams(p, security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
		}),
		users:        NewUserService(store.Users(), store.Follows(), store.Publications(), media, notifier, log),
		follows:      NewFollowService(store.Users(), store.Follows(), notifier, log),
		publications: NewPublicationService(store.Publications(), store.Follows(), media, notifier, log),
		messages:     NewMessageService(store.Users(), store.Messages(), notifier, log),
		media:        media,
	}

	clock := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.publications.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	f.messages.now = f.publications.now
	return f
}

func (f *fixture) register(t *testing.T, nick string) models.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), RegisterInput{
		Name:     "Name " + nick,
		Surname:  "Surname",
		Nick:     nick,
		Email:    fmt.Sprintf("%s@example.com", nick),
		Password: "secret-" + nick,
	})
	require.NoError(t, err)
	return user
}

func pngUpload(name string) Upload {
	return Upload{Filename: name, Size: int64(len(pngBytes)), Content: bytes.NewReader(pngBytes)}
}
