package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"socialnet/internal/models"
)

var (
	ErrTokenMissing   = errors.New("token missing")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
)

// Identity is the user snapshot carried by a session token. It is taken at
// issue time and is not refreshed if the profile changes afterwards.
type Identity struct {
	ID        string
	Name      string
	Surname   string
	Nick      string
	Email     string
	Role      string
	Image     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type SessionClaims struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Nick    string `json:"nick"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Image   string `json:"image,omitempty"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService builds a token service. A nil clock defaults to time.Now.
func NewTokenService(secret string, ttl time.Duration, clock func() time.Time) *TokenService {
	if clock == nil {
		clock = time.Now
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    clock,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(clock),
		),
	}
}

func (s *TokenService) Issue(user models.User) (string, error) {
	now := s.now()
	claims := SessionClaims{
		Name:    user.Name,
		Surname: user.Surname,
		Nick:    user.Nick,
		Email:   user.Email,
		Role:    string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	if user.Image != nil {
		claims.Image = *user.Image
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return Identity{}, ErrTokenMissing
	}

	claims := &SessionClaims{}
	_, err := s.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, ErrTokenExpired
	default:
		return Identity{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: empty subject", ErrTokenMalformed)
	}

	identity := Identity{
		ID:        claims.Subject,
		Name:      claims.Name,
		Surname:   claims.Surname,
		Nick:      claims.Nick,
		Email:     claims.Email,
		Role:      claims.Role,
		Image:     claims.Image,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	return identity, nil
}

// CleanToken strips quote characters some clients wrap the header value in,
// and an optional bearer prefix.
func CleanToken(raw string) string {
	cleaned := strings.NewReplacer(`"`, "", `'`, "").Replace(raw)
	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > 7 && strings.EqualFold(cleaned[:7], "bearer ") {
		cleaned = strings.TrimSpace(cleaned[7:])
	}
	return cleaned
}
