// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/linchen2024/club-admin-backend/internal/models"
)

// ActivityRepository 活动仓储
type ActivityRepository struct {
	db *gorm.DB
}

// NewActivityRepository 创建活动仓储
func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create 创建活动
func (r *ActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// GetByID 根据 ID 获取活动
func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	var activity models.Activity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// Update 更新活动
func (r *ActivityRepository) Update(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

// UpdateStatus 更新活动状态
func (r *ActivityRepository) UpdateStatus(ctx context.Context, id string, status int8) error {
	return r.db.WithContext(ctx).Model(&models.Activity{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除活动
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Activity{}).Error
}

// List 获取活动列表
func (r *ActivityRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Activity, int64, error) {
	var activities []*models.Activity
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Activity{})

	if name, ok := filters["name"].(string); ok && name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if status, ok := filters["status"].(int8); ok {
		query = query.Where("status = ?", status)
	}
	if startAfter, ok := filters["start_after"].(time.Time); ok {
		query = query.Where("start_time >= ?", startAfter)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("start_time DESC").Offset(offset).Limit(limit).Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

// IncrementEnrolled 报名人数加一，满员时不更新
func (r *ActivityRepository) IncrementEnrolled(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&models.Activity{}).
		Where("id = ? AND (capacity = 0 OR enrolled < capacity)", id).
		UpdateColumn("enrolled", gorm.Expr("enrolled + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementEnrolled 报名人数减一
func (r *ActivityRepository) DecrementEnrolled(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Activity{}).
		Where("id = ? AND enrolled > 0", id).
		UpdateColumn("enrolled", gorm.Expr("enrolled - 1")).
		Error
}

// ListEnded 获取已结束且仍在指定状态的活动 ID
func (r *ActivityRepository) ListEnded(ctx context.Context, before time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Activity{}).
		Where("end_time < ? AND status = ?", before, models.ActivityStatusPublished).
		Pluck("id", &ids).Error
	return ids, err
}
