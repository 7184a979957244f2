// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/linchen2024/club-admin-backend/internal/models"
)

// MenuRepository 菜单仓储
type MenuRepository struct {
	db *gorm.DB
}

// NewMenuRepository 创建菜单仓储
func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// Create 创建菜单
func (r *MenuRepository) Create(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

// GetByID 根据 ID 获取菜单
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*models.Menu, error) {
	var menu models.Menu
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// GetByIDs 根据 ID 批量获取菜单
func (r *MenuRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Menu, error) {
	var menus []models.Menu
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

// Update 更新菜单
func (r *MenuRepository) Update(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Save(menu).Error
}

// Delete 删除菜单
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Menu{}).Error
}

// ListAll 获取全部菜单
func (r *MenuRepository) ListAll(ctx context.Context) ([]*models.Menu, error) {
	var menus []*models.Menu
	err := r.db.WithContext(ctx).Order("sort ASC, created_at ASC").Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

// ListByRoleCodes 获取若干角色可见的菜单（去重）
func (r *MenuRepository) ListByRoleCodes(ctx context.Context, roleCodes []string) ([]*models.Menu, error) {
	var menus []*models.Menu
	err := r.db.WithContext(ctx).
		Distinct("menus.*").
		Joins("JOIN role_menus ON role_menus.menu_id = menus.id").
		Joins("JOIN roles ON roles.id = role_menus.role_id").
		Where("roles.code IN ? AND roles.status = ?", roleCodes, models.RoleStatusActive).
		Order("menus.sort ASC").
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

// CountChildren 统计子菜单数量
func (r *MenuRepository) CountChildren(ctx context.Context, parentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Menu{}).Where("parent_id = ?", parentID).Count(&count).Error
	return count, err
}
