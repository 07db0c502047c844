package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"socialnet/internal/events"
	"socialnet/internal/models"
	"socialnet/internal/pagination"
	"socialnet/internal/repository"
	"socialnet/internal/storage"
)

type UserService struct {
	users        UserRepository
	follows      FollowRepository
	publications PublicationRepository
	media        *MediaService
	notifier     *events.Notifier
	log          zerolog.Logger
}

func NewUserService(
	users UserRepository,
	follows FollowRepository,
	publications PublicationRepository,
	media *MediaService,
	notifier *events.Notifier,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:        users,
		follows:      follows,
		publications: publications,
		media:        media,
		notifier:     notifier,
		log:          log,
	}
}

// Profile is a user as seen by the viewer: Following means the viewer follows
// the user, Followed means the user follows the viewer.
type Profile struct {
	User      models.User
	Following bool
	Followed  bool
}

type UserList struct {
	pagination.Result[models.User]
	Relations models.Relations
}

type Counters struct {
	Following    int64
	Followed     int64
	Publications int64
}

func (s *UserService) Get(ctx context.Context, viewerID, userID string) (Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("load user: %w", err)
	}

	profile := Profile{User: user}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile.Following, err = s.follows.Exists(gctx, viewerID, userID)
		return err
	})
	g.Go(func() (err error) {
		profile.Followed, err = s.follows.Exists(gctx, userID, viewerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Profile{}, fmt.Errorf("load follow state: %w", err)
	}
	return profile, nil
}

func (s *UserService) List(ctx context.Context, viewerID string, page pagination.Page) (UserList, error) {
	var (
		users     []models.User
		total     int64
		relations models.Relations
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users.List(gctx, page.Limit(), page.Offset())
		return err
	})
	g.Go(func() (err error) {
		total, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		relations, err = Relations(gctx, s.follows, viewerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return UserList{}, fmt.Errorf("list users: %w", err)
	}

	return UserList{
		Result:    pagination.NewResult(users, total, page),
		Relations: relations,
	}, nil
}

func (s *UserService) Counters(ctx context.Context, userID string) (Counters, error) {
	var c Counters

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.Following, err = s.follows.CountFollowing(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		c.Followed, err = s.follows.CountFollowers(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		c.Publications, err = s.publications.CountByAuthors(gctx, []string{userID})
		return err
	})
	if err := g.Wait(); err != nil {
		return Counters{}, fmt.Errorf("count: %w", err)
	}
	return c, nil
}

// Update changes name, surname, nick and email of the caller's own account.
// Blank fields keep their current value.
func (s *UserService) Update(ctx context.Context, identityID, userID string, update models.ProfileUpdate) (models.User, error) {
	if identityID != userID {
		return models.User{}, ErrNotOwner
	}

	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}

	merged := models.ProfileUpdate{
		Name:    orDefault(update.Name, current.Name),
		Surname: orDefault(update.Surname, current.Surname),
		Nick:    orDefault(update.Nick, current.Nick),
		Email:   strings.ToLower(orDefault(update.Email, current.Email)),
	}

	user, err := s.users.UpdateProfile(ctx, userID, merged)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return models.User{}, ErrProfileTaken
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ReplaceImage stores a new avatar for the caller and schedules the previous
// one for removal.
func (s *UserService) ReplaceImage(ctx context.Context, identityID, userID string, upload Upload) (models.User, error) {
	if identityID != userID {
		return models.User{}, ErrNotOwner
	}

	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}

	name, err := s.media.Store(ctx, storage.KindUsers, userID, upload)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.UpdateImage(ctx, userID, name)
	if err != nil {
		s.media.Discard(ctx, storage.KindUsers, name)
		return models.User{}, fmt.Errorf("update avatar: %w", err)
	}

	if current.Image != nil && *current.Image != name {
		s.notifier.Notify(ctx, events.New(events.UserImageReplaced, userID, map[string]string{
			events.KeyPreviousImage: *current.Image,
			events.KeyImage:         name,
		}))
	}
	return user, nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
