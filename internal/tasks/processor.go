// Package tasks carries out the side effects of domain events: removing
// stored files that nothing references any more.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"socialnet/internal/events"
	"socialnet/internal/metrics"
	"socialnet/internal/storage"
)

type ImageRefs interface {
	ImageInUse(ctx context.Context, image string) (bool, error)
}

type FileRefs interface {
	FileInUse(ctx context.Context, file string) (bool, error)
}

type Processor struct {
	store   storage.FileStore
	users   ImageRefs
	pubs    FileRefs
	grace   time.Duration
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

func NewProcessor(store storage.FileStore, users ImageRefs, pubs FileRefs, grace time.Duration, m *metrics.Metrics, logger zerolog.Logger) *Processor {
	return &Processor{
		store:   store,
		users:   users,
		pubs:    pubs,
		grace:   grace,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

func (p *Processor) Handle(ctx context.Context, event events.Event) error {
	var err error
	switch event.Type {
	case events.PublicationDeleted:
		err = p.removePublicationFile(ctx, event)
	case events.UserImageReplaced:
		err = p.removePreviousAvatar(ctx, event)
	case events.OrphanSweep:
		err = p.sweepOrphans(ctx)
	default:
		p.logger.Debug().
			Str("event", string(event.Type)).
			Str("actor_id", event.ActorID).
			Msg("event received")
	}
	p.metrics.TaskProcessed(string(event.Type), err)
	return err
}

func (p *Processor) removePublicationFile(ctx context.Context, event events.Event) error {
	file := event.Data[events.KeyFile]
	if file == "" {
		return nil
	}
	return p.removeUnreferenced(ctx, storage.KindPublications, file)
}

func (p *Processor) removePreviousAvatar(ctx context.Context, event events.Event) error {
	previous := event.Data[events.KeyPreviousImage]
	if previous == "" {
		return nil
	}
	return p.removeUnreferenced(ctx, storage.KindUsers, previous)
}

func (p *Processor) removeUnreferenced(ctx context.Context, kind storage.Kind, name string) error {
	inUse, err := p.inUse(ctx, kind, name)
	if err != nil {
		return err
	}
	if inUse {
		p.logger.Info().Str("kind", string(kind)).Str("file", name).Msg("file still referenced, keeping")
		return nil
	}

	if err := p.store.Remove(ctx, kind, name); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("remove %s/%s: %w", kind, name, err)
	}
	p.logger.Info().Str("kind", string(kind)).Str("file", name).Msg("file removed")
	return nil
}

func (p *Processor) inUse(ctx context.Context, kind storage.Kind, name string) (bool, error) {
	var (
		used bool
		err  error
	)
	switch kind {
	case storage.KindUsers:
		used, err = p.users.ImageInUse(ctx, name)
	case storage.KindPublications:
		used, err = p.pubs.FileInUse(ctx, name)
	}
	if err != nil {
		return false, fmt.Errorf("check references for %s/%s: %w", kind, name, err)
	}
	return used, nil
}

// sweepOrphans removes stored files older than the grace period that no row
// references. The grace period covers uploads whose row is still being
// written.
func (p *Processor) sweepOrphans(ctx context.Context) error {
	cutoff := p.now().Add(-p.grace)
	removed := 0

	for _, kind := range []storage.Kind{storage.KindUsers, storage.KindPublications} {
		objects, err := p.store.List(ctx, kind)
		if err != nil {
			return fmt.Errorf("list %s: %w", kind, err)
		}
		for _, obj := range objects {
			if obj.ModTime.After(cutoff) {
				continue
			}
			inUse, err := p.inUse(ctx, kind, obj.Name)
			if err != nil {
				return err
			}
			if inUse {
				continue
			}
			if err := p.store.Remove(ctx, kind, obj.Name); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
				return fmt.Errorf("remove %s/%s: %w", kind, obj.Name, err)
			}
			removed++
		}
	}

	p.logger.Info().Int("removed", removed).Msg("orphan sweep finished")
	return nil
}
