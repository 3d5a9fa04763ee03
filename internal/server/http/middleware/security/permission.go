package security

import (
	"go-sysadmin/internal/service"
	"go-sysadmin/internal/util/retcode"
	"go-sysadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

// Permission 中间件：加载用户权限标识集合（菜单 perms 字段）存入上下文，供 RequirePerm 使用
func Permission(menuSvc *service.MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		if uid <= 0 {
			response.Error(c, retcode.AUTH_ERROR, "unauthorized")
			c.Abort()
			return
		}
		keys, _ := menuSvc.PermKeysByUser(c.Request.Context(), uid)
		set := make(map[string]struct{}, len(keys))
		for _, k := range keys {
			set[k] = struct{}{}
		}
		c.Set("perm_set", set)
		c.Next()
	}
}

// RequirePerm 要求任一给定权限标识；超级管理员角色直接放行
func RequirePerm(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSuperAdmin(c) {
			c.Next()
			return
		}
		allowed := false
		if setAny, ok := c.Get("perm_set"); ok {
			if set, ok2 := setAny.(map[string]struct{}); ok2 {
				for _, p := range perms {
					if _, hit := set[p]; hit {
						allowed = true
						break
					}
				}
			}
		}
		if !allowed {
			response.Error(c, retcode.FORBIDDEN, "没有权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// 超级管理员固定角色 1
func isSuperAdmin(c *gin.Context) bool {
	if v, ok := c.Get("roles"); ok {
		if roles, ok2 := v.([]int64); ok2 {
			for _, r := range roles {
				if r == 1 {
					return true
				}
			}
		}
	}
	return false
}
