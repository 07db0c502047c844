package tasks

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"socialnet/internal/events"
	"socialnet/internal/models"
	"socialnet/internal/repository/memory"
	"socialnet/internal/storage"
)

type fixture struct {
	store     *memory.Store
	files     *storage.LocalStore
	processor *Processor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	files, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	p := NewProcessor(files, store.Users(), store.Publications(), time.Hour, nil, zerolog.Nop())
	return &fixture{store: store, files: files, processor: p}
}

func (f *fixture) put(t *testing.T, kind storage.Kind, name string) {
	t.Helper()
	require.NoError(t, f.files.Put(context.Background(), kind, name, strings.NewReader("x"), 1, "image/png"))
}

func (f *fixture) names(t *testing.T, kind storage.Kind) []string {
	t.Helper()
	objects, err := f.files.List(context.Background(), kind)
	require.NoError(t, err)
	var out []string
	for _, o := range objects {
		out = append(out, o.Name)
	}
	return out
}

func TestPublicationDeletedRemovesFile(t *testing.T) {
	f := newFixture(t)
	f.put(t, storage.KindPublications, "u1-1.png")

	err := f.processor.Handle(context.Background(), events.New(events.PublicationDeleted, "u1", map[string]string{
		events.KeyFile: "u1-1.png",
	}))
	require.NoError(t, err)
	require.Empty(t, f.names(t, storage.KindPublications))

	// already gone is fine
	err = f.processor.Handle(context.Background(), events.New(events.PublicationDeleted, "u1", map[string]string{
		events.KeyFile: "u1-1.png",
	}))
	require.NoError(t, err)
}

func TestImageReplacedKeepsReferencedFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	users := f.store.Users()
	require.NoError(t, users.Create(ctx, models.User{ID: "u1", Name: "A", Surname: "B", Nick: "ab", Email: "ab@x.io", Role: models.UserRoleUser}))
	_, err := users.UpdateImage(ctx, "u1", "u1-2.png")
	require.NoError(t, err)

	f.put(t, storage.KindUsers, "u1-1.png")
	f.put(t, storage.KindUsers, "u1-2.png")

	require.NoError(t, f.processor.Handle(ctx, events.New(events.UserImageReplaced, "u1", map[string]string{
		events.KeyPreviousImage: "u1-1.png",
		events.KeyImage:         "u1-2.png",
	})))
	require.Equal(t, []string{"u1-2.png"}, f.names(t, storage.KindUsers))

	require.NoError(t, f.processor.Handle(ctx, events.New(events.UserImageReplaced, "u1", map[string]string{
		events.KeyPreviousImage: "u1-2.png",
	})))
	require.Equal(t, []string{"u1-2.png"}, f.names(t, storage.KindUsers))
}

func TestOrphanSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	users := f.store.Users()
	require.NoError(t, users.Create(ctx, models.User{ID: "u1", Name: "A", Surname: "B", Nick: "ab", Email: "ab@x.io", Role: models.UserRoleUser}))
	_, err := users.UpdateImage(ctx, "u1", "u1-keep.png")
	require.NoError(t, err)

	f.put(t, storage.KindUsers, "u1-keep.png")
	f.put(t, storage.KindUsers, "u1-orphan.png")
	f.put(t, storage.KindPublications, "u1-orphan.gif")

	// nothing is old enough yet
	require.NoError(t, f.processor.Handle(ctx, events.New(events.OrphanSweep, "", nil)))
	require.Len(t, f.names(t, storage.KindUsers), 2)

	f.processor.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	require.NoError(t, f.processor.Handle(ctx, events.New(events.OrphanSweep, "", nil)))
	require.Equal(t, []string{"u1-keep.png"}, f.names(t, storage.KindUsers))
	require.Empty(t, f.names(t, storage.KindPublications))
}

func TestUnknownEventsAreIgnored(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.processor.Handle(context.Background(), events.New(events.MessageSent, "u1", nil)))
}
