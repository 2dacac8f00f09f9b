package middleware

import (
	"skillswap/internal/config"
	"skillswap/internal/util"
	"skillswap/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	// websocket clients cannot always set headers
	return c.Query("token")
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, util.AccessToken, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT parse failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// LastSeenRepo records user activity; implemented by the user repository.
type LastSeenRepo interface {
	TouchLastSeen(userID uint) error
}

func ActivityMiddleware(repo LastSeenRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if claims := util.GetUserFromContext(c); claims != nil {
			// 异步更新，不阻塞主流程
			go func(id uint) {
				if err := repo.TouchLastSeen(id); err != nil {
					logger.Log.Debug("update last seen failed", zap.Uint("userId", id), zap.Error(err))
				}
			}(claims.UserID)
		}
	}
}
