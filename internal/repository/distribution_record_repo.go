// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/linchen2024/club-admin-backend/internal/models"
)

// DistributionRecordRepository 分润明细仓储
type DistributionRecordRepository struct {
	db *gorm.DB
}

// NewDistributionRecordRepository 创建分润明细仓储
func NewDistributionRecordRepository(db *gorm.DB) *DistributionRecordRepository {
	return &DistributionRecordRepository{db: db}
}

// CreateBatch 批量创建分润明细
func (r *DistributionRecordRepository) CreateBatch(ctx context.Context, records []*models.DistributionRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(records).Error
}

// ListByProfitRecordID 获取某总账下的全部明细
func (r *DistributionRecordRepository) ListByProfitRecordID(ctx context.Context, profitRecordID string) ([]*models.DistributionRecord, error) {
	var records []*models.DistributionRecord
	err := r.db.WithContext(ctx).
		Where("profit_record_id = ?", profitRecordID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// ListByBeneficiary 获取某受益人的分润明细
func (r *DistributionRecordRepository) ListByBeneficiary(ctx context.Context, beneficiaryID string, offset, limit int, filters map[string]interface{}) ([]*models.DistributionRecord, int64, error) {
	var records []*models.DistributionRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&models.DistributionRecord{}).
		Where("beneficiary_id = ?", beneficiaryID)

	if status, ok := filters["status"].(int8); ok {
		query = query.Where("status = ?", status)
	}
	if roleCode, ok := filters["role_code"].(string); ok && roleCode != "" {
		query = query.Where("role_code = ?", roleCode)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// SumByBeneficiary 按状态汇总某受益人的分润金额
func (r *DistributionRecordRepository) SumByBeneficiary(ctx context.Context, beneficiaryID string, status int8) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&models.DistributionRecord{}).
		Where("beneficiary_id = ? AND status = ?", beneficiaryID, status).
		Select("COALESCE(SUM(distribution_amount), 0)").
		Scan(&sum).Error
	return sum, err
}
