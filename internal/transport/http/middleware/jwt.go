package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"resumescout/internal/pkg/jwtutil"
	"resumescout/internal/transport/http/response"
)

const (
	ContextRecruiterIDKey = "recruiter_id"
	ContextUsernameKey    = "username"
)

func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, 401, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, 401, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextRecruiterIDKey, claims.RecruiterID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

// RecruiterID pulls the authenticated recruiter out of the request
// context. The second return is false when the middleware did not run.
func RecruiterID(c *gin.Context) (uint, bool) {
	idAny, exists := c.Get(ContextRecruiterIDKey)
	if !exists {
		return 0, false
	}
	id, ok := idAny.(uint)
	return id, ok
}
