package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"socialnet/internal/events"
	"socialnet/internal/ids"
	"socialnet/internal/models"
	"socialnet/internal/pagination"
	"socialnet/internal/storage"
)

type PublicationService struct {
	publications PublicationRepository
	follows      FollowRepository
	media        *MediaService
	notifier     *events.Notifier
	log          zerolog.Logger
	now          func() time.Time
}

func NewPublicationService(
	publications PublicationRepository,
	follows FollowRepository,
	media *MediaService,
	notifier *events.Notifier,
	log zerolog.Logger,
) *PublicationService {
	return &PublicationService{
		publications: publications,
		follows:      follows,
		media:        media,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

func (s *PublicationService) Create(ctx context.Context, userID, text string) (models.Publication, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Publication{}, ErrEmptyText
	}

	pub := models.Publication{
		ID:        ids.New(),
		UserID:    userID,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.publications.Create(ctx, pub); err != nil {
		return models.Publication{}, fmt.Errorf("create publication: %w", err)
	}

	s.notifier.Notify(ctx, events.New(events.PublicationCreated, userID, map[string]string{
		events.KeyPublicationID: pub.ID,
	}))
	return pub, nil
}

// Timeline pages through publications of the users userID follows, newest
// first. The caller's own publications are not included.
func (s *PublicationService) Timeline(ctx context.Context, userID string, page pagination.Page) (pagination.Result[models.PublicationView], error) {
	authors, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return pagination.Result[models.PublicationView]{}, fmt.Errorf("load following: %w", err)
	}
	if len(authors) == 0 {
		return pagination.NewResult[models.PublicationView](nil, 0, page), nil
	}
	return s.byAuthors(ctx, authors, page)
}

func (s *PublicationService) ByUser(ctx context.Context, authorID string, page pagination.Page) (pagination.Result[models.PublicationView], error) {
	return s.byAuthors(ctx, []string{authorID}, page)
}

func (s *PublicationService) byAuthors(ctx context.Context, authors []string, page pagination.Page) (pagination.Result[models.PublicationView], error) {
	total, err := s.publications.CountByAuthors(ctx, authors)
	if err != nil {
		return pagination.Result[models.PublicationView]{}, fmt.Errorf("count publications: %w", err)
	}
	items, err := s.publications.ListByAuthors(ctx, authors, page.Limit(), page.Offset())
	if err != nil {
		return pagination.Result[models.PublicationView]{}, fmt.Errorf("list publications: %w", err)
	}
	return pagination.NewResult(items, total, page), nil
}

func (s *PublicationService) Get(ctx context.Context, id string) (models.PublicationView, error) {
	view, err := s.publications.GetByID(ctx, id)
	if err != nil {
		return models.PublicationView{}, fmt.Errorf("load publication: %w", err)
	}
	return view, nil
}

// Delete removes the caller's publication. Its stored image, if any, is
// removed by the worker.
func (s *PublicationService) Delete(ctx context.Context, userID, id string) error {
	view, err := s.publications.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load publication: %w", err)
	}
	if view.UserID != userID {
		return ErrNotOwner
	}

	removed, err := s.publications.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete publication: %w", err)
	}

	data := map[string]string{events.KeyPublicationID: removed.ID}
	if removed.File != nil {
		data[events.KeyFile] = *removed.File
	}
	s.notifier.Notify(ctx, events.New(events.PublicationDeleted, userID, data))
	return nil
}

func (s *PublicationService) AttachImage(ctx context.Context, userID, id string, upload Upload) (models.Publication, error) {
	view, err := s.publications.GetByID(ctx, id)
	if err != nil {
		return models.Publication{}, fmt.Errorf("load publication: %w", err)
	}
	if view.UserID != userID {
		return models.Publication{}, ErrNotOwner
	}

	name, err := s.media.Store(ctx, storage.KindPublications, userID, upload)
	if err != nil {
		return models.Publication{}, err
	}

	pub, err := s.publications.UpdateFile(ctx, id, userID, name)
	if err != nil {
		s.media.Discard(ctx, storage.KindPublications, name)
		return models.Publication{}, fmt.Errorf("attach image: %w", err)
	}
	return pub, nil
}
