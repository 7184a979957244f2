// Package repository 提供数据访问层
package repository

import (
	"context"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/linchen2024/club-admin-backend/internal/models"
)

// SystemConfigRepository 系统配置仓储
type SystemConfigRepository struct {
	db *gorm.DB
}

// NewSystemConfigRepository 创建系统配置仓储
func NewSystemConfigRepository(db *gorm.DB) *SystemConfigRepository {
	return &SystemConfigRepository{db: db}
}

// Get 获取指定分组下的配置项
func (r *SystemConfigRepository) Get(ctx context.Context, group, key string) (*models.SystemConfig, error) {
	var config models.SystemConfig
	err := r.db.WithContext(ctx).Where("\"group\" = ? AND \"key\" = ?", group, key).First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// GetValue 获取配置值，不存在时返回默认值
func (r *SystemConfigRepository) GetValue(ctx context.Context, group, key, defaultValue string) string {
	config, err := r.Get(ctx, group, key)
	if err != nil {
		return defaultValue
	}
	return config.Value
}

// GetFloat 获取数字类型配置值，不存在或非法时返回默认值
func (r *SystemConfigRepository) GetFloat(ctx context.Context, group, key string, defaultValue float64) float64 {
	config, err := r.Get(ctx, group, key)
	if err != nil {
		return defaultValue
	}
	value, err := strconv.ParseFloat(config.Value, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// Upsert 写入配置，同分组同键时覆盖
func (r *SystemConfigRepository) Upsert(ctx context.Context, config *models.SystemConfig) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "group"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "type", "description", "is_public", "updated_at"}),
	}).Create(config).Error
}

// ListByGroup 获取分组下的全部配置
func (r *SystemConfigRepository) ListByGroup(ctx context.Context, group string) ([]*models.SystemConfig, error) {
	var configs []*models.SystemConfig
	err := r.db.WithContext(ctx).Where("\"group\" = ?", group).Order("\"key\" ASC").Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

// ListPublic 获取全部公开配置
func (r *SystemConfigRepository) ListPublic(ctx context.Context) ([]*models.SystemConfig, error) {
	var configs []*models.SystemConfig
	err := r.db.WithContext(ctx).Where("is_public = ?", true).Order("\"group\" ASC, \"key\" ASC").Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

// Delete 删除配置项
func (r *SystemConfigRepository) Delete(ctx context.Context, group, key string) error {
	return r.db.WithContext(ctx).Where("\"group\" = ? AND \"key\" = ?", group, key).Delete(&models.SystemConfig{}).Error
}
