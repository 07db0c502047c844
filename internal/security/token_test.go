package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"socialnet/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sampleUser() models.User {
	image := "u1-1700000000000.png"
	return models.User{
		ID:      "u1",
		Name:    "Ana",
		Surname: "García",
		Nick:    "ana1",
		Email:   "a@x.com",
		Role:    models.UserRoleUser,
		Image:   &image,
	}
}

func TestIssueValidateRoundTrip(t *testing.T) {
	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewTokenService("secret", 30*24*time.Hour, fixedClock(issuedAt))

	token, err := svc.Issue(sampleUser())
	require.NoError(t, err)

	identity, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "u1", identity.ID)
	require.Equal(t, "Ana", identity.Name)
	require.Equal(t, "García", identity.Surname)
	require.Equal(t, "ana1", identity.Nick)
	require.Equal(t, "a@x.com", identity.Email)
	require.Equal(t, "ROLE_USER", identity.Role)
	require.Equal(t, "u1-1700000000000.png", identity.Image)
	require.True(t, identity.IssuedAt.Equal(issuedAt))
	require.True(t, identity.ExpiresAt.Equal(issuedAt.Add(30*24*time.Hour)))
}

func TestValidateExpired(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewTokenService("secret", time.Hour, fixedClock(issuedAt))
	token, err := issuer.Issue(sampleUser())
	require.NoError(t, err)

	later := NewTokenService("secret", time.Hour, fixedClock(issuedAt.Add(time.Hour+time.Second)))
	_, err = later.Validate(token)
	require.ErrorIs(t, err, ErrTokenExpired)

	stillValid := NewTokenService("secret", time.Hour, fixedClock(issuedAt.Add(59*time.Minute)))
	_, err = stillValid.Validate(token)
	require.NoError(t, err)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewTokenService("right", time.Hour, nil).Issue(sampleUser())
	require.NoError(t, err)

	_, err = NewTokenService("wrong", time.Hour, nil).Validate(token)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidateMalformedAndMissing(t *testing.T) {
	svc := NewTokenService("secret", time.Hour, nil)

	_, err := svc.Validate("not.a.jwt")
	require.ErrorIs(t, err, ErrTokenMalformed)

	_, err = svc.Validate("   ")
	require.ErrorIs(t, err, ErrTokenMissing)
}

func TestValidateRejectsOtherAlgorithms(t *testing.T) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenService("secret", time.Hour, nil).Validate(token)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestCleanToken(t *testing.T) {
	tests := map[string]string{
		`"abc.def.ghi"`:        "abc.def.ghi",
		`'abc.def.ghi'`:        "abc.def.ghi",
		`Bearer abc.def.ghi`:   "abc.def.ghi",
		`"Bearer abc.def.ghi"`: "abc.def.ghi",
		`abc.def.ghi`:          "abc.def.ghi",
		``:                     "",
	}
	for raw, want := range tests {
		require.Equal(t, want, CleanToken(raw), "raw=%q", raw)
	}
}
