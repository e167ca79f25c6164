package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"wayfinder/pkg/utils"
)

const SessionIDKey = "session_id"

// SessionAuthMiddleware accepts a bearer session token and stores the
// session id on the context.
func SessionAuthMiddleware(signer *utils.SessionSigner) gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := signer.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired session token")
			c.Abort()
			return
		}

		c.Set(SessionIDKey, claims.SessionID)
		c.Next()
	}
}
