package service

import (
	"context"
	"errors"

	"socialnet/internal/models"
	"socialnet/internal/repository"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrEmptyText          = errors.New("text is empty")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrNoFile             = errors.New("no file uploaded")
	ErrUnsupportedFile    = errors.New("unsupported file type")
	ErrFileTooLarge       = errors.New("file too large")
	ErrFileNotFound       = errors.New("file not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProfileTaken       = errors.New("nick or email already taken")
	ErrAlreadyFollowing   = errors.New("already following")
	ErrNotFollowing       = errors.New("not following")
	ErrNotOwner           = errors.New("not the owner")

	ErrUserNotFound        = repository.ErrUserNotFound
	ErrUserExists          = repository.ErrUserExists
	ErrPublicationNotFound = repository.ErrPublicationNotFound
)

type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error)
	UpdateImage(ctx context.Context, id, image string) (models.User, error)
}

type FollowRepository interface {
	Create(ctx context.Context, follow models.Follow) error
	Delete(ctx context.Context, userID, followedID string) error
	Exists(ctx context.Context, userID, followedID string) (bool, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	ListFollowing(ctx context.Context, userID string, limit, offset int) ([]models.FollowView, error)
	ListFollowers(ctx context.Context, userID string, limit, offset int) ([]models.FollowView, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
}

type PublicationRepository interface {
	Create(ctx context.Context, pub models.Publication) error
	GetByID(ctx context.Context, id string) (models.PublicationView, error)
	ListByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]models.PublicationView, error)
	CountByAuthors(ctx context.Context, authorIDs []string) (int64, error)
	Delete(ctx context.Context, id, userID string) (models.Publication, error)
	UpdateFile(ctx context.Context, id, userID, file string) (models.Publication, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg models.Message) error
	ListReceived(ctx context.Context, receiverID string, limit, offset int) ([]models.MessageView, error)
	ListSent(ctx context.Context, emitterID string, limit, offset int) ([]models.MessageView, error)
	ListUnviewed(ctx context.Context, receiverID string) ([]models.MessageView, error)
	CountReceived(ctx context.Context, receiverID string) (int64, error)
	CountSent(ctx context.Context, emitterID string) (int64, error)
	CountUnviewed(ctx context.Context, receiverID string) (int64, error)
	MarkViewed(ctx context.Context, receiverID string) (int64, error)
}
