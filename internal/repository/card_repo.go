// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/linchen2024/club-admin-backend/internal/models"
)

// MembershipCardRepository 会员卡仓储
type MembershipCardRepository struct {
	db *gorm.DB
}

// NewMembershipCardRepository 创建会员卡仓储
func NewMembershipCardRepository(db *gorm.DB) *MembershipCardRepository {
	return &MembershipCardRepository{db: db}
}

// Create 创建会员卡
func (r *MembershipCardRepository) Create(ctx context.Context, card *models.MembershipCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// GetByID 根据 ID 获取会员卡
func (r *MembershipCardRepository) GetByID(ctx context.Context, id string) (*models.MembershipCard, error) {
	var card models.MembershipCard
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Update 更新会员卡
func (r *MembershipCardRepository) Update(ctx context.Context, card *models.MembershipCard) error {
	return r.db.WithContext(ctx).Save(card).Error
}

// UpdateStatus 更新会员卡状态
func (r *MembershipCardRepository) UpdateStatus(ctx context.Context, id string, status int8) error {
	return r.db.WithContext(ctx).Model(&models.MembershipCard{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除会员卡
func (r *MembershipCardRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.MembershipCard{}).Error
}

// List 获取会员卡列表
func (r *MembershipCardRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.MembershipCard, int64, error) {
	var cards []*models.MembershipCard
	var total int64

	query := r.db.WithContext(ctx).Model(&models.MembershipCard{})

	if name, ok := filters["name"].(string); ok && name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if status, ok := filters["status"].(int8); ok {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&cards).Error; err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}
