// Package middleware 提供 HTTP 中间件
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/linchen2024/club-admin-backend/internal/common/response"
)

// PermissionChecker 权限检查器接口
// 由菜单权限服务实现，根据角色编码判断是否拥有权限标识。
type PermissionChecker interface {
	HasPermission(roleCodes []string, permissionCode string) bool
}

// RequirePermission 要求指定权限
func RequirePermission(checker PermissionChecker, permissionCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := GetRoles(c)
		if len(roles) == 0 {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !checker.HasPermission(roles, permissionCode) {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRoles 要求任一指定角色
func RequireRoles(roleCodes ...string) gin.HandlerFunc {
	roleSet := make(map[string]struct{})
	for _, r := range roleCodes {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		roles := GetRoles(c)
		if len(roles) == 0 {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		for _, r := range roles {
			if _, ok := roleSet[r]; ok {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "权限不足")
		c.Abort()
	}
}

// RequireSuperAdmin 要求超级管理员角色
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRoles("super_admin")
}

// PermissionCodes 预定义权限码
const (
	// 用户管理
	PermissionUserList   = "user:list"
	PermissionUserCreate = "user:create"
	PermissionUserUpdate = "user:update"
	PermissionUserDelete = "user:delete"

	// 角色与菜单
	PermissionRoleManage = "role:manage"
	PermissionMenuManage = "menu:manage"

	// 活动管理
	PermissionActivityList   = "activity:list"
	PermissionActivityCreate = "activity:create"
	PermissionActivityUpdate = "activity:update"
	PermissionActivityDelete = "activity:delete"

	// 会员卡管理
	PermissionCardList   = "card:list"
	PermissionCardCreate = "card:create"
	PermissionCardUpdate = "card:update"
	PermissionCardDelete = "card:delete"

	// 订单管理
	PermissionOrderList   = "order:list"
	PermissionOrderView   = "order:view"
	PermissionOrderRefund = "order:refund"

	// 分润管理
	PermissionDistributionConfig = "distribution:config"
	PermissionDistributionView   = "distribution:view"
	PermissionDistributionSettle = "distribution:settle"

	// 系统管理
	PermissionSystemConfig       = "system:config"
	PermissionNotificationManage = "notification:manage"
)
