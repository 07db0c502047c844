package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"socialnet/internal/ids"
	"socialnet/internal/models"
	"socialnet/internal/repository"
	"socialnet/internal/security"
)

type AuthService struct {
	users  UserRepository
	tokens *security.TokenService
	hash   func(string) ([]byte, error)
	log    zerolog.Logger
}

func NewAuthService(users UserRepository, tokens *security.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hash:   security.HashPassword,
		log:    log,
	}
}

// WithHasher swaps the password hashing function, e.g. for cheaper argon2
// parameters in tests.
func (s *AuthService) WithHasher(hash func(string) ([]byte, error)) *AuthService {
	s.hash = hash
	return s
}

type RegisterInput struct {
	Name     string
	Surname  string
	Nick     string
	Email    string
	Password string
}

// Register creates an account. A duplicate email or nick, compared without
// case, yields ErrUserExists and writes nothing.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Surname = strings.TrimSpace(input.Surname)
	input.Nick = strings.TrimSpace(input.Nick)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Name == "" || input.Surname == "" || input.Nick == "" || input.Email == "" || input.Password == "" {
		return models.User{}, ErrMissingFields
	}

	passwordHash, err := s.hash(input.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           ids.New(),
		Name:         input.Name,
		Surname:      input.Surname,
		Nick:         input.Nick,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         models.UserRoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

type LoginInput struct {
	Email    string
	Password string
	GetToken bool
}

type LoginResult struct {
	User  models.User
	Token string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return LoginResult{}, ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("find user: %w", err)
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("stored password hash unreadable")
		return LoginResult{}, ErrInvalidCredentials
	}
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	result := LoginResult{User: user}
	if input.GetToken {
		token, err := s.tokens.Issue(user)
		if err != nil {
			return LoginResult{}, fmt.Errorf("issue token: %w", err)
		}
		result.Token = token
	}
	return result, nil
}
