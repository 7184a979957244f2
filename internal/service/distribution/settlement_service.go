// Package distribution 分润服务
package distribution

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/common/logger"
	"github.com/linchen2024/club-admin-backend/internal/common/metrics"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// SettlementService 分润结算服务
// 冻结分润到期后转为已结算；扫描串行执行，重复触发直接返回
type SettlementService struct {
	profitRepo    *repository.ProfitRecordRepository
	activityRepo  *repository.ActivityRepository
	sysConfigRepo *repository.SystemConfigRepository
	db            *gorm.DB

	defaultDeadlineHours float64 // 活动退款截止提前小时数兜底值
	defaultSettleHours   float64 // 非活动订单结算延迟小时数兜底值

	running atomic.Bool
}

// NewSettlementService 创建分润结算服务
func NewSettlementService(
	profitRepo *repository.ProfitRecordRepository,
	activityRepo *repository.ActivityRepository,
	sysConfigRepo *repository.SystemConfigRepository,
	db *gorm.DB,
	defaultDeadlineHours, defaultSettleHours float64,
) *SettlementService {
	if defaultDeadlineHours <= 0 {
		defaultDeadlineHours = models.DefaultRefundDeadlineHours
	}
	if defaultSettleHours <= 0 {
		defaultSettleHours = models.DefaultAutoSettleHours
	}
	return &SettlementService{
		profitRepo:           profitRepo,
		activityRepo:         activityRepo,
		sysConfigRepo:        sysConfigRepo,
		db:                   db,
		defaultDeadlineHours: defaultDeadlineHours,
		defaultSettleHours:   defaultSettleHours,
	}
}

// Settle 结算单条分润记录
// 总账与明细同一事务内 冻结 -> 已结算；非冻结状态报错
func (s *SettlementService) Settle(ctx context.Context, recordID string) error {
	record, err := s.profitRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProfitRecordNotFound
		}
		return err
	}

	if record.Status != models.ProfitStatusFrozen {
		return apperrors.ErrProfitStatusError
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).Model(&models.ProfitRecord{}).
			Where("id = ? AND status = ?", recordID, models.ProfitStatusFrozen).
			Updates(map[string]interface{}{
				"status":     models.ProfitStatusSettled,
				"settled_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		// 并发结算时只有一个事务能完成转移
		if result.RowsAffected == 0 {
			return apperrors.ErrProfitStatusError
		}

		return tx.WithContext(ctx).Model(&models.DistributionRecord{}).
			Where("profit_record_id = ? AND status = ?", recordID, models.ProfitStatusFrozen).
			Updates(map[string]interface{}{
				"status":     models.ProfitStatusSettled,
				"settled_at": now,
			}).Error
	})
}

// RunSettlementSweep 扫描并结算所有到期的冻结分润
// 返回本次结算的记录数；已在执行时直接返回 0
func (s *SettlementService) RunSettlementSweep(ctx context.Context) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		return 0, nil
	}
	defer s.running.Store(false)

	deadlineHours := s.sysConfigRepo.GetFloat(ctx,
		models.ConfigGroupDistribution, models.ConfigKeyRefundDeadlineHours, s.defaultDeadlineHours)
	settleHours := s.sysConfigRepo.GetFloat(ctx,
		models.ConfigGroupDistribution, models.ConfigKeyAutoSettleHours, s.defaultSettleHours)

	records, err := s.profitRepo.ListFrozen(ctx)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		metrics.GetMetrics().RecordSettlementSweep(0)
		return 0, nil
	}

	now := time.Now()
	settled := 0
	for _, record := range records {
		eligible, err := s.eligible(ctx, record, now, deadlineHours, settleHours)
		if err != nil {
			logger.Warn("结算条件检查失败",
				zap.String("profit_record_id", record.ID),
				zap.String("order_no", record.OrderNo),
				zap.Error(err),
			)
			continue
		}
		if !eligible {
			continue
		}

		if err := s.Settle(ctx, record.ID); err != nil {
			// 单条失败不影响其它记录
			logger.Error("分润结算失败",
				zap.String("profit_record_id", record.ID),
				zap.String("order_no", record.OrderNo),
				zap.Error(err),
			)
			continue
		}
		settled++
	}

	metrics.GetMetrics().RecordSettlementSweep(int64(settled))
	if settled > 0 {
		logger.Info("分润结算扫描完成",
			zap.Int("settled", settled),
			zap.Int("frozen", len(records)),
		)
	}

	return settled, nil
}

// eligible 判断冻结分润是否到期可结算
// 活动订单：活动已开始且退款截止时间已过；
// 其它订单：创建满 settleHours 小时
func (s *SettlementService) eligible(ctx context.Context, record *models.ProfitRecord, now time.Time, deadlineHours, settleHours float64) (bool, error) {
	if record.EntityType != models.OrderEntityActivity {
		settleAt := record.CreatedAt.Add(time.Duration(settleHours * float64(time.Hour)))
		return now.After(settleAt), nil
	}

	activity, err := s.activityRepo.GetByID(ctx, record.EntityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 活动已被删除，保持冻结等待人工处理
			return false, nil
		}
		return false, err
	}

	return now.After(activity.StartTime) && now.After(activity.RefundDeadline(deadlineHours)), nil
}
