// Package distribution 分润服务
package distribution

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/common/logger"
	"github.com/linchen2024/club-admin-backend/internal/common/metrics"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// ProfitService 分润总账服务
type ProfitService struct {
	profitRepo *repository.ProfitRecordRepository
	configRepo *repository.DistributionConfigRepository
	recordRepo *repository.DistributionRecordRepository
	calculator *Calculator
	db         *gorm.DB
}

// NewProfitService 创建分润总账服务
func NewProfitService(
	profitRepo *repository.ProfitRecordRepository,
	configRepo *repository.DistributionConfigRepository,
	recordRepo *repository.DistributionRecordRepository,
	calculator *Calculator,
	db *gorm.DB,
) *ProfitService {
	return &ProfitService{
		profitRepo: profitRepo,
		configRepo: configRepo,
		recordRepo: recordRepo,
		calculator: calculator,
		db:         db,
	}
}

// CreateForOrder 为已完成订单生成冻结分润
// 一条总账加每个分配一条明细，同一事务内写入；
// order_id 唯一索引保证同一订单只会生成一次
func (s *ProfitService) CreateForOrder(ctx context.Context, order *models.Order) (*models.ProfitRecord, error) {
	exists, err := s.profitRepo.ExistsByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrProfitRecordExists
	}

	var result *CalculationResult
	config, err := s.configRepo.GetEnabled(ctx)
	switch {
	case err == nil:
		result, err = s.calculator.Calculate(ctx, config, order.Amount, order.InviterID)
		if err != nil {
			return nil, err
		}
		if !result.IsValid {
			logger.Error("分润配置份额异常，拒绝生成分润",
				zap.String("order_no", order.OrderNo),
				zap.String("config_id", config.ID),
				zap.Float64("total_share", config.RoleShares.Total()),
			)
			return nil, apperrors.ErrDistTotalShareExceed
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 无启用配置时降级处理：只生成冻结总账，全额保留不分配
		logger.Warn("无启用分润配置，订单全额保留",
			zap.String("order_no", order.OrderNo),
			zap.Float64("amount", order.Amount),
		)
		result = &CalculationResult{RemainingAmount: order.Amount, IsValid: true}
	default:
		return nil, err
	}

	record := &models.ProfitRecord{
		OrderID:     order.ID,
		OrderNo:     order.OrderNo,
		EntityType:  order.EntityType,
		EntityID:    order.EntityID,
		UserID:      order.UserID,
		InviterID:   order.InviterID,
		TotalAmount: order.Amount,
		Status:      models.ProfitStatusFrozen,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(record).Error; err != nil {
			return err
		}

		details := make([]*models.DistributionRecord, 0, len(result.Allocations))
		for _, alloc := range result.Allocations {
			details = append(details, &models.DistributionRecord{
				ProfitRecordID:     record.ID,
				RoleCode:           alloc.RoleCode,
				RoleCategory:       alloc.RoleCategory,
				BeneficiaryID:      alloc.BeneficiaryID,
				BaseAmount:         order.Amount,
				DistributionAmount: alloc.Amount,
				SharePercentage:    alloc.Percentage,
				Status:             models.ProfitStatusFrozen,
			})
		}
		if len(details) > 0 {
			if err := tx.WithContext(ctx).Create(&details).Error; err != nil {
				return err
			}
			record.Records = make([]models.DistributionRecord, 0, len(details))
			for _, d := range details {
				record.Records = append(record.Records, *d)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, skipped := range result.Skipped {
		logger.Warn("分润角色被跳过",
			zap.String("order_no", order.OrderNo),
			zap.String("role_code", skipped.RoleCode),
			zap.String("reason", skipped.Reason),
		)
	}

	metrics.GetMetrics().RecordProfitRecord(order.EntityType)

	return record, nil
}

// CancelByOrder 取消订单对应的分润（退款时调用）
// 冻结状态级联置为已取消；已结算的不允许取消
func (s *ProfitService) CancelByOrder(ctx context.Context, orderID string) error {
	record, err := s.profitRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 没有分润记录时取消是无操作
			return nil
		}
		return err
	}

	switch record.Status {
	case models.ProfitStatusCancelled:
		return nil
	case models.ProfitStatusSettled:
		return apperrors.ErrProfitStatusError.WithMessage("已结算的分润不可取消")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Model(&models.ProfitRecord{}).
			Where("id = ? AND status = ?", record.ID, models.ProfitStatusFrozen).
			Update("status", models.ProfitStatusCancelled).Error; err != nil {
			return err
		}

		return tx.WithContext(ctx).Model(&models.DistributionRecord{}).
			Where("profit_record_id = ? AND status = ?", record.ID, models.ProfitStatusFrozen).
			Update("status", models.ProfitStatusCancelled).Error
	})
}

// Get 获取分润记录（包含明细）
func (s *ProfitService) Get(ctx context.Context, id string) (*models.ProfitRecord, error) {
	record, err := s.profitRepo.GetByIDWithRecords(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfitRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

// GetByOrderID 根据订单获取分润记录
func (s *ProfitService) GetByOrderID(ctx context.Context, orderID string) (*models.ProfitRecord, error) {
	record, err := s.profitRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfitRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

// List 获取分润记录列表
func (s *ProfitService) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.ProfitRecord, int64, error) {
	return s.profitRepo.List(ctx, offset, limit, filters)
}

// Statistics 获取分润统计
func (s *ProfitService) Statistics(ctx context.Context) (*models.ProfitStatistics, error) {
	return s.profitRepo.Statistics(ctx)
}

// ListRecordsByBeneficiary 查询受益人的分润明细
func (s *ProfitService) ListRecordsByBeneficiary(ctx context.Context, beneficiaryID string, offset, limit int, filters map[string]interface{}) ([]*models.DistributionRecord, int64, error) {
	return s.recordRepo.ListByBeneficiary(ctx, beneficiaryID, offset, limit, filters)
}

// SumSettledByBeneficiary 统计受益人已结算金额
func (s *ProfitService) SumSettledByBeneficiary(ctx context.Context, beneficiaryID string) (float64, error) {
	return s.recordRepo.SumByBeneficiary(ctx, beneficiaryID, models.ProfitStatusSettled)
}

// SumFrozenByBeneficiary 统计受益人冻结中金额
func (s *ProfitService) SumFrozenByBeneficiary(ctx context.Context, beneficiaryID string) (float64, error) {
	return s.recordRepo.SumByBeneficiary(ctx, beneficiaryID, models.ProfitStatusFrozen)
}
