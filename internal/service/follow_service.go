package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"socialnet/internal/events"
	"socialnet/internal/ids"
	"socialnet/internal/models"
	"socialnet/internal/pagination"
	"socialnet/internal/repository"
)

type FollowService struct {
	users    UserRepository
	follows  FollowRepository
	notifier *events.Notifier
	log      zerolog.Logger
}

func NewFollowService(users UserRepository, follows FollowRepository, notifier *events.Notifier, log zerolog.Logger) *FollowService {
	return &FollowService{
		users:    users,
		follows:  follows,
		notifier: notifier,
		log:      log,
	}
}

// FollowList is a page of edges plus the viewer's own relations, so clients
// can mark which listed users they follow or are followed by.
type FollowList struct {
	pagination.Result[models.FollowView]
	Relations models.Relations
}

func (s *FollowService) Follow(ctx context.Context, userID, followedID string) (models.Follow, error) {
	followedID = strings.TrimSpace(followedID)
	if followedID == "" {
		return models.Follow{}, ErrMissingFields
	}
	if followedID == userID {
		return models.Follow{}, ErrSelfFollow
	}

	if _, err := s.users.GetByID(ctx, followedID); err != nil {
		return models.Follow{}, fmt.Errorf("load followed user: %w", err)
	}

	follow := models.Follow{
		ID:         ids.New(),
		UserID:     userID,
		FollowedID: followedID,
	}
	if err := s.follows.Create(ctx, follow); err != nil {
		if errors.Is(err, repository.ErrFollowExists) {
			return models.Follow{}, ErrAlreadyFollowing
		}
		return models.Follow{}, fmt.Errorf("create follow: %w", err)
	}

	s.notifier.Notify(ctx, events.New(events.FollowCreated, userID, map[string]string{
		events.KeyFollowedID: followedID,
	}))
	return follow, nil
}

func (s *FollowService) Unfollow(ctx context.Context, userID, followedID string) error {
	if err := s.follows.Delete(ctx, userID, followedID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return ErrNotFollowing
		}
		return fmt.Errorf("delete follow: %w", err)
	}

	s.notifier.Notify(ctx, events.New(events.FollowDeleted, userID, map[string]string{
		events.KeyFollowedID: followedID,
	}))
	return nil
}

// Following pages through the users userID follows.
func (s *FollowService) Following(ctx context.Context, viewerID, userID string, page pagination.Page) (FollowList, error) {
	return s.page(ctx, viewerID, userID, page, s.follows.ListFollowing, s.follows.CountFollowing)
}

// Followers pages through the users following userID.
func (s *FollowService) Followers(ctx context.Context, viewerID, userID string, page pagination.Page) (FollowList, error) {
	return s.page(ctx, viewerID, userID, page, s.follows.ListFollowers, s.follows.CountFollowers)
}

type listFunc func(ctx context.Context, userID string, limit, offset int) ([]models.FollowView, error)
type countFunc func(ctx context.Context, userID string) (int64, error)

func (s *FollowService) page(ctx context.Context, viewerID, userID string, page pagination.Page, list listFunc, count countFunc) (FollowList, error) {
	var (
		items     []models.FollowView
		total     int64
		relations models.Relations
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = list(gctx, userID, page.Limit(), page.Offset())
		return err
	})
	g.Go(func() (err error) {
		total, err = count(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		relations, err = Relations(gctx, s.follows, viewerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return FollowList{}, fmt.Errorf("list follows: %w", err)
	}

	return FollowList{
		Result:    pagination.NewResult(items, total, page),
		Relations: relations,
	}, nil
}

// MyFollows lists every edge out of userID, or into it when followers is set.
func (s *FollowService) MyFollows(ctx context.Context, userID string, followers bool) ([]models.FollowView, error) {
	list := s.follows.ListFollowing
	if followers {
		list = s.follows.ListFollowers
	}
	views, err := list(ctx, userID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	return views, nil
}

func (s *FollowService) Relations(ctx context.Context, userID string) (models.Relations, error) {
	return Relations(ctx, s.follows, userID)
}

// Relations runs the two directions of the follow lookup concurrently.
func Relations(ctx context.Context, follows FollowRepository, userID string) (models.Relations, error) {
	var rel models.Relations

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rel.Following, err = follows.FollowingIDs(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		rel.Followers, err = follows.FollowerIDs(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Relations{}, fmt.Errorf("load relations: %w", err)
	}

	if rel.Following == nil {
		rel.Following = []string{}
	}
	if rel.Followers == nil {
		rel.Followers = []string{}
	}
	return rel, nil
}
