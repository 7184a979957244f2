// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/linchen2024/club-admin-backend/internal/models"
)

// DistributionConfigRepository 分润配置仓储
type DistributionConfigRepository struct {
	db *gorm.DB
}

// NewDistributionConfigRepository 创建分润配置仓储
func NewDistributionConfigRepository(db *gorm.DB) *DistributionConfigRepository {
	return &DistributionConfigRepository{db: db}
}

// Create 创建分润配置
func (r *DistributionConfigRepository) Create(ctx context.Context, config *models.DistributionConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

// GetByID 根据 ID 获取分润配置
func (r *DistributionConfigRepository) GetByID(ctx context.Context, id string) (*models.DistributionConfig, error) {
	var config models.DistributionConfig
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// GetEnabled 获取启用中的分润配置
func (r *DistributionConfigRepository) GetEnabled(ctx context.Context) (*models.DistributionConfig, error) {
	var config models.DistributionConfig
	err := r.db.WithContext(ctx).Where("status = ?", models.DistributionConfigEnabled).First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Update 更新分润配置
func (r *DistributionConfigRepository) Update(ctx context.Context, config *models.DistributionConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

// Delete 删除分润配置
func (r *DistributionConfigRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.DistributionConfig{}).Error
}

// List 获取分润配置列表
func (r *DistributionConfigRepository) List(ctx context.Context, offset, limit int) ([]*models.DistributionConfig, int64, error) {
	var configs []*models.DistributionConfig
	var total int64

	query := r.db.WithContext(ctx).Model(&models.DistributionConfig{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&configs).Error; err != nil {
		return nil, 0, err
	}

	return configs, total, nil
}
