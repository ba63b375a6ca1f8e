// internal/server/middleware.go
package server

import (
	"net/http"
	"strings"
	"time"

	"ats-notifications/internal/common/auth"
	"ats-notifications/internal/common/logger"

	"github.com/gin-gonic/gin"
)

const (
	ctxKeyUserID = "userID"
	ctxKeyOrgID  = "orgID"
	ctxKeyRole   = "role"
)

// RequestLogger logs one structured line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request", map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"clientIp": c.ClientIP(),
		})
	}
}

// Auth validates the bearer token and stores the caller identity on the
// gin context.
func Auth(verifier *auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header missing"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := verifier.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		c.Set(ctxKeyOrgID, claims.OrgID)
		c.Set(ctxKeyRole, claims.Role)
		c.Next()
	}
}

// RequireRoles rejects callers whose token role is not in the allow-list.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	allowSet := make(map[string]bool, len(allowed))
	for _, role := range allowed {
		allowSet[role] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(ctxKeyRole)
		if !allowSet[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}
