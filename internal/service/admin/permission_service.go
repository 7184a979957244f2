package admin

import (
	"github.com/linchen2024/club-admin-backend/internal/middleware"
)

// 内置管理角色编码
const (
	RoleCodeSuperAdmin = "super_admin" // 超级管理员，持有全部权限
	RoleCodeAdmin      = "admin"       // 管理员
	RoleCodeOperator   = "operator"    // 运营，只读为主
)

// PermissionService 基于角色编码的权限校验
// 实现 middleware.PermissionChecker
type PermissionService struct {
	rolePermissions map[string]map[string]bool
}

// NewPermissionService 创建权限服务
func NewPermissionService() *PermissionService {
	adminPermissions := []string{
		middleware.PermissionUserList,
		middleware.PermissionUserCreate,
		middleware.PermissionUserUpdate,
		middleware.PermissionUserDelete,
		middleware.PermissionActivityList,
		middleware.PermissionActivityCreate,
		middleware.PermissionActivityUpdate,
		middleware.PermissionActivityDelete,
		middleware.PermissionCardList,
		middleware.PermissionCardCreate,
		middleware.PermissionCardUpdate,
		middleware.PermissionCardDelete,
		middleware.PermissionOrderList,
		middleware.PermissionOrderView,
		middleware.PermissionOrderRefund,
		middleware.PermissionDistributionView,
		middleware.PermissionNotificationManage,
	}
	operatorPermissions := []string{
		middleware.PermissionUserList,
		middleware.PermissionActivityList,
		middleware.PermissionCardList,
		middleware.PermissionOrderList,
		middleware.PermissionOrderView,
		middleware.PermissionDistributionView,
	}

	s := &PermissionService{
		rolePermissions: make(map[string]map[string]bool),
	}
	s.grant(RoleCodeAdmin, adminPermissions)
	s.grant(RoleCodeOperator, operatorPermissions)
	return s
}

// grant 给角色授予权限集合
func (s *PermissionService) grant(roleCode string, permissions []string) {
	set, ok := s.rolePermissions[roleCode]
	if !ok {
		set = make(map[string]bool, len(permissions))
		s.rolePermissions[roleCode] = set
	}
	for _, p := range permissions {
		set[p] = true
	}
}

// HasPermission 判断角色编码集合是否持有指定权限
// 超级管理员持有全部权限，业务角色（教练、推荐人等）不授予后台权限
func (s *PermissionService) HasPermission(roleCodes []string, permissionCode string) bool {
	for _, code := range roleCodes {
		if code == RoleCodeSuperAdmin {
			return true
		}
		if set, ok := s.rolePermissions[code]; ok && set[permissionCode] {
			return true
		}
	}
	return false
}
