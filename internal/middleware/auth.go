package middleware

import (
	"net/http"

	"jokehub/internal/token"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireAuth for downstream handlers.
const (
	CtxUserID = "userID"
	CtxEmail  = "userEmail"
	CtxName   = "userName"
	CtxRole   = "userRole"
)

// RequireAuth validates the bearer token on every request and stashes the
// session claims in the gin context. Auth decisions are token-based and
// provider-agnostic.
func RequireAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := token.FromRequest(c.Request)

		claims, err := tokens.Validate(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxName, claims.Name)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}
