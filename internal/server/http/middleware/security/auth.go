package security

import (
	"context"
	"strings"

	"go-sysadmin/internal/logging"
	redisrepo "go-sysadmin/internal/repository/redis"
	"go-sysadmin/internal/security/jwt"
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	JWT    *jwt.Manager
	Logger *logging.Logger
	Redis  *redisrepo.Client
	Prefix string
}

// Auth Bearer token 认证；通过后把用户身份写入 gin.Context，
// 供权限过滤和审计拦截器取用。
func Auth(j *jwt.Manager, lg *logging.Logger) gin.HandlerFunc {
	m := &AuthMiddleware{JWT: j, Logger: lg}
	return m.Handler()
}

// AuthWithJTI 附带 Redis JTI 校验，退出登录删除 JTI 即失效
func AuthWithJTI(j *jwt.Manager, lg *logging.Logger, r *redisrepo.Client, prefix string) gin.HandlerFunc {
	m := &AuthMiddleware{JWT: j, Logger: lg, Redis: r, Prefix: prefix}
	return m.Handler()
}

func (m *AuthMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			response.Error(c, retcode.AUTH_ERROR, "missing token")
			c.Abort()
			return
		}
		token := strings.TrimSpace(auth[7:])
		claims, err := m.JWT.Parse(token)
		if err != nil {
			response.Error(c, retcode.AUTH_ERROR, "invalid token")
			c.Abort()
			return
		}
		if m.Redis != nil {
			val := m.Redis.Get(context.Background(), m.Prefix+claims.JTI)
			if val == "" {
				response.Error(c, retcode.AUTH_ERROR, "token expired")
				c.Abort()
				return
			}
		}
		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.UserName)
		c.Set("roles", claims.Roles)
		c.Next()
	}
}
