// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/linchen2024/club-admin-backend/internal/models"
)

// ProfitRecordRepository 分润总账仓储
type ProfitRecordRepository struct {
	db *gorm.DB
}

// NewProfitRecordRepository 创建分润总账仓储
func NewProfitRecordRepository(db *gorm.DB) *ProfitRecordRepository {
	return &ProfitRecordRepository{db: db}
}

// Create 创建分润总账记录
func (r *ProfitRecordRepository) Create(ctx context.Context, record *models.ProfitRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID 根据 ID 获取分润记录
func (r *ProfitRecordRepository) GetByID(ctx context.Context, id string) (*models.ProfitRecord, error) {
	var record models.ProfitRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByIDWithRecords 根据 ID 获取分润记录（包含明细）
func (r *ProfitRecordRepository) GetByIDWithRecords(ctx context.Context, id string) (*models.ProfitRecord, error) {
	var record models.ProfitRecord
	err := r.db.WithContext(ctx).Preload("Records").Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByOrderID 根据订单 ID 获取分润记录
func (r *ProfitRecordRepository) GetByOrderID(ctx context.Context, orderID string) (*models.ProfitRecord, error) {
	var record models.ProfitRecord
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ExistsByOrderID 检查订单是否已生成分润记录
func (r *ProfitRecordRepository) ExistsByOrderID(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProfitRecord{}).Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

// ListFrozen 获取全部冻结中的分润记录
func (r *ProfitRecordRepository) ListFrozen(ctx context.Context) ([]*models.ProfitRecord, error) {
	var records []*models.ProfitRecord
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ProfitStatusFrozen).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// List 获取分润记录列表
func (r *ProfitRecordRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.ProfitRecord, int64, error) {
	var records []*models.ProfitRecord
	var total int64

	query := r.db.WithContext(ctx).Model(&models.ProfitRecord{})

	if orderNo, ok := filters["order_no"].(string); ok && orderNo != "" {
		query = query.Where("order_no LIKE ?", "%"+orderNo+"%")
	}
	if entityType, ok := filters["entity_type"].(string); ok && entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if entityID, ok := filters["entity_id"].(string); ok && entityID != "" {
		query = query.Where("entity_id = ?", entityID)
	}
	if userID, ok := filters["user_id"].(string); ok && userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status, ok := filters["status"].(int8); ok {
		query = query.Where("status = ?", status)
	}
	if begin, ok := filters["created_after"].(time.Time); ok {
		query = query.Where("created_at >= ?", begin)
	}
	if end, ok := filters["created_before"].(time.Time); ok {
		query = query.Where("created_at < ?", end)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Preload("Records").Order("created_at DESC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// Statistics 统计分润记录
func (r *ProfitRecordRepository) Statistics(ctx context.Context) (*models.ProfitStatistics, error) {
	stats := &models.ProfitStatistics{}
	db := r.db.WithContext(ctx).Model(&models.ProfitRecord{})

	type row struct {
		Status int8
		Count  int64
		Amount float64
	}
	var rows []row
	err := db.Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS amount").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		stats.TotalRecords += r.Count
		stats.TotalAmount += r.Amount
		switch r.Status {
		case models.ProfitStatusFrozen:
			stats.FrozenCount = r.Count
			stats.FrozenAmount = r.Amount
		case models.ProfitStatusSettled:
			stats.SettledCount = r.Count
			stats.SettledAmount = r.Amount
		case models.ProfitStatusCancelled:
			stats.CancelledCount = r.Count
		}
	}

	// 已结算明细的分配总额
	err = r.db.WithContext(ctx).Model(&models.DistributionRecord{}).
		Where("status = ?", models.ProfitStatusSettled).
		Select("COALESCE(SUM(distribution_amount), 0)").
		Scan(&stats.DistributedTotal).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
