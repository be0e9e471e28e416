package middleware

import (
	"context"
	"net/http"
	"strings"

	"Lee_Chat/internal/pkg"

	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "user_id"

// SessionStore 中间件只需要会话 token 的读和续期
type SessionStore interface {
	Get(ctx context.Context, userID uint64) (string, error)
	Extend(ctx context.Context, userID uint64) error
}

func Auth(issuer *pkg.TokenIssuer, sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			return
		}

		tokenStr := parts[1]
		claims, err := issuer.ParseAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			return
		}

		// 会话校验：token 必须是该用户当前有效的那一个
		current, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil || current != tokenStr {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "account has been logged in elsewhere"})
			return
		}

		if err = sessions.Extend(c.Request.Context(), claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID 取 Auth 中间件注入的用户 ID
func UserID(c *gin.Context) uint64 {
	v, _ := c.Get(ContextUserIDKey)
	id, _ := v.(uint64)
	return id
}
