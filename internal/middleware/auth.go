package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/internal/security"
)

const identityKey = "identity"

// Auth admits requests carrying a valid session token in the Authorization
// header and stores the embedded identity on the context.
func Auth(tokens *security.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "La petición no tiene la cabecera de autenticación"})
			return
		}

		// A header that is present but empty after cleaning is an invalid
		// token, not a missing one.
		identity, err := tokens.Validate(security.CleanToken(raw))
		switch {
		case err == nil:
		case errors.Is(err, security.ErrTokenExpired):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "El token ha expirado"})
			return
		default:
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "El token no es válido"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c *gin.Context) (security.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return security.Identity{}, false
	}
	identity, ok := v.(security.Identity)
	return identity, ok
}
