package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/picshare/picshare-api/pkg/helpers"
)

const CtxUsernameKey = "username"

// Auth validates the bearer token and injects the subject username into the
// Gin context. Validation is a pure wall-clock check against the embedded
// expiry; there is no server-side session state to consult.
func Auth(tokens *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}
		if !tokens.Validate(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		subject, err := tokens.Subject(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(CtxUsernameKey, subject)
		c.Next()
	}
}
