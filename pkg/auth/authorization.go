package auth

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const tokenKey = "token"

// TokenVerifier is satisfied by the Firebase auth client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthMiddleware rejects requests without a valid Firebase ID token and
// stores the verified token on the gin context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		idToken, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || idToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			log.Ctx(c.Request.Context()).Warn().Err(err).Msg("rejected id token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid ID token"})
			return
		}

		// Attach token to the context
		c.Set(tokenKey, token)

		c.Next()
	}
}

// Disabled lets every request through as a fixed local user.
func Disabled() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(tokenKey, &auth.Token{UID: "local"})
		c.Next()
	}
}

// UserID returns the uid of the verified token, or an empty string.
func UserID(c *gin.Context) string {
	token, ok := c.Get(tokenKey)
	if !ok {
		return ""
	}
	t, ok := token.(*auth.Token)
	if !ok {
		return ""
	}
	return t.UID
}
