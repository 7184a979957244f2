package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// RoleService 角色管理服务
type RoleService struct {
	roleRepo *repository.RoleRepository
	userRepo *repository.UserRepository
	menuRepo *repository.MenuRepository
}

// NewRoleService 创建角色管理服务
func NewRoleService(roleRepo *repository.RoleRepository, userRepo *repository.UserRepository, menuRepo *repository.MenuRepository) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		menuRepo: menuRepo,
	}
}

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Name     string  `json:"name" binding:"required,max=50"`
	Code     string  `json:"code" binding:"required,max=50"`
	Category string  `json:"category" binding:"required,oneof=referral pool"`
	Sort     int     `json:"sort"`
	Remark   *string `json:"remark,omitempty"`
}

// Create 创建角色
func (s *RoleService) Create(ctx context.Context, req *CreateRoleRequest) (*models.Role, error) {
	exists, err := s.roleRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, apperrors.ErrRoleExists
	}

	role := &models.Role{
		Name:     req.Name,
		Code:     req.Code,
		Category: req.Category,
		Sort:     req.Sort,
		Status:   models.RoleStatusActive,
		Remark:   req.Remark,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return role, nil
}

// UpdateRoleRequest 更新角色请求
// 角色编码创建后不可修改，分润配置按编码引用角色
type UpdateRoleRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty" binding:"omitempty,oneof=referral pool"`
	Sort     *int    `json:"sort,omitempty"`
	Status   *int8   `json:"status,omitempty"`
	Remark   *string `json:"remark,omitempty"`
}

// Update 更新角色
func (s *RoleService) Update(ctx context.Context, id string, req *UpdateRoleRequest) error {
	role, err := s.getRole(ctx, id)
	if err != nil {
		return err
	}

	if req.Name != nil {
		role.Name = *req.Name
	}
	if req.Category != nil {
		role.Category = *req.Category
	}
	if req.Sort != nil {
		role.Sort = *req.Sort
	}
	if req.Status != nil {
		if *req.Status != models.RoleStatusActive && *req.Status != models.RoleStatusDisabled {
			return apperrors.ErrInvalidParams.WithMessage("无效的角色状态")
		}
		role.Status = *req.Status
	}
	if req.Remark != nil {
		role.Remark = req.Remark
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Delete 删除角色，仍有用户持有时拒绝
func (s *RoleService) Delete(ctx context.Context, id string) error {
	if _, err := s.getRole(ctx, id); err != nil {
		return err
	}

	count, err := s.userRepo.CountByRoleID(ctx, id)
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if count > 0 {
		return apperrors.ErrRoleInUse
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// AssignMenus 重新分配角色菜单
func (s *RoleService) AssignMenus(ctx context.Context, id string, menuIDs []string) error {
	role, err := s.getRole(ctx, id)
	if err != nil {
		return err
	}

	var menus []models.Menu
	if len(menuIDs) > 0 {
		menus, err = s.menuRepo.GetByIDs(ctx, menuIDs)
		if err != nil {
			return apperrors.ErrDatabaseError.WithError(err)
		}
		if len(menus) != len(menuIDs) {
			return apperrors.ErrMenuNotFound
		}
	}

	if err := s.roleRepo.ReplaceMenus(ctx, role, menus); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// GetMenus 查询角色已分配的菜单
func (s *RoleService) GetMenus(ctx context.Context, id string) ([]models.Menu, error) {
	if _, err := s.getRole(ctx, id); err != nil {
		return nil, err
	}
	menus, err := s.roleRepo.GetMenus(ctx, id)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return menus, nil
}

// Get 获取角色详情
func (s *RoleService) Get(ctx context.Context, id string) (*models.Role, error) {
	return s.getRole(ctx, id)
}

// List 分页查询角色
func (s *RoleService) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Role, int64, error) {
	roles, total, err := s.roleRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return roles, total, nil
}

// ListAll 查询全部角色，用于下拉选择
func (s *RoleService) ListAll(ctx context.Context) ([]*models.Role, error) {
	roles, err := s.roleRepo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return roles, nil
}

// getRole 按 ID 获取角色
func (s *RoleService) getRole(ctx context.Context, id string) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoleNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return role, nil
}
