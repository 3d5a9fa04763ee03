package admin

import (
	"strconv"
	"strings"

	"go-sysadmin/internal/audit"

	"github.com/gin-gonic/gin"
)

// bound 取拦截器绑定好的参数；路由没挂审计元数据时返回 nil
func bound[T any](c *gin.Context) *T {
	if v, ok := c.Get(audit.ParamsKey); ok {
		if p, ok2 := v.(*T); ok2 {
			return p
		}
	}
	return nil
}

func qInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

func qInt64(c *gin.Context, key string) int64 {
	v := c.Query(key)
	if v == "" {
		return 0
	}
	i, _ := strconv.ParseInt(v, 10, 64)
	return i
}

func pageLimit(c *gin.Context) (int, int) { return qInt(c, "page", 1), qInt(c, "limit", 20) }

// rolesFromCtx 认证中间件写入的角色集
func rolesFromCtx(c *gin.Context) []int64 {
	if v, ok := c.Get("roles"); ok {
		if roles, ok2 := v.([]int64); ok2 {
			return roles
		}
	}
	return nil
}

// isAdmin 超级管理员固定角色 1，不做数据过滤
func isAdmin(roles []int64) bool {
	for _, r := range roles {
		if r == 1 {
			return true
		}
	}
	return false
}

// splitMenuTypes "M,C" -> ["M","C"]，空串返回 nil
func splitMenuTypes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
