package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/glasspos/internal/auth"
	"github.com/mmynk/glasspos/internal/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ClaimsKey is the key under which the authenticated claims are stored,
// both on the gin context and on the request context.
const ClaimsKey contextKey = "claims"

// GetClaims extracts the session claims from the context.
// Returns nil if the request is unauthenticated.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims
}

// CurrentClaims extracts the session claims from a gin context.
func CurrentClaims(c *gin.Context) *auth.Claims {
	return GetClaims(c.Request.Context())
}

// GetUserID returns the authenticated user ID, or 0 if not found.
func GetUserID(ctx context.Context) int {
	if claims := GetClaims(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", auth.ErrInvalidToken
	}
	return token, nil
}

// RequireAuth validates the bearer token and stores its claims on the
// request context. Requests without a valid token are rejected with 401.
func RequireAuth(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		c.Set(string(ClaimsKey), claims)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ClaimsKey, claims))
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose role is not listed.
// It must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": auth.ErrMissingToken.Error()})
			return
		}
		if !claims.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": auth.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}
