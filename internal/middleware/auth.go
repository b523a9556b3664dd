package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"academy/internal/auth"
	"academy/internal/handler"
)

// RequireAuth returns middleware that resolves the caller's identity from the
// bearer token. Unauthenticated callers are stopped here with an AuthRequired
// envelope before any other collaborator is touched.
func RequireAuth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		learner, err := verifier.Learner(token)
		if err != nil {
			handler.RenderError(c, err, c.Param("id"))
			c.Abort()
			return
		}

		auth.SetLearner(c, learner)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
