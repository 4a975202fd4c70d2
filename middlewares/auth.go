package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"insightedge/backend/utils"
)

const subjectKey = "subject"

// Auth requires an HS256 bearer token. An empty secret disables the check.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := utils.ParseJWT(secret, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(subjectKey, claims.Subject)
		c.Next()
	}
}
