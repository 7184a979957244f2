// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/linchen2024/club-admin-backend/internal/models"
)

// RoleRepository 角色仓储
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository 创建角色仓储
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create 创建角色
func (r *RoleRepository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// GetByID 根据 ID 获取角色
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByCode 根据编码获取角色
func (r *RoleRepository) GetByCode(ctx context.Context, code string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByCodes 根据编码批量获取角色
func (r *RoleRepository) GetByCodes(ctx context.Context, codes []string) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// GetByIDs 根据 ID 批量获取角色
func (r *RoleRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// Update 更新角色
func (r *RoleRepository) Update(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

// Delete 删除角色
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Role{}).Error
}

// List 获取角色列表
func (r *RoleRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Role, int64, error) {
	var roles []*models.Role
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Role{})

	if name, ok := filters["name"].(string); ok && name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if category, ok := filters["category"].(string); ok && category != "" {
		query = query.Where("category = ?", category)
	}
	if status, ok := filters["status"].(int8); ok {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("sort ASC, created_at ASC").Offset(offset).Limit(limit).Find(&roles).Error; err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

// ListAll 获取全部角色
func (r *RoleRepository) ListAll(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).Order("sort ASC, created_at ASC").Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// ExistsByCode 检查角色编码是否存在
func (r *RoleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Role{}).Where("code = ?", code).Count(&count).Error
	return count > 0, err
}

// ReplaceMenus 重设角色的菜单关联
func (r *RoleRepository) ReplaceMenus(ctx context.Context, role *models.Role, menus []models.Menu) error {
	return r.db.WithContext(ctx).Model(role).Association("Menus").Replace(menus)
}

// GetMenus 获取角色的菜单列表
func (r *RoleRepository) GetMenus(ctx context.Context, roleID string) ([]models.Menu, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Preload("Menus").Where("id = ?", roleID).First(&role).Error
	if err != nil {
		return nil, err
	}
	return role.Menus, nil
}
