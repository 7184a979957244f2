// Package order 订单服务
package order

import (
	"context"
	"errors"

	"go.uber.org/zap"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/common/logger"
	"github.com/linchen2024/club-admin-backend/internal/models"
)

// profitService 分润服务依赖
type profitService interface {
	CreateForOrder(ctx context.Context, order *models.Order) (*models.ProfitRecord, error)
	CancelByOrder(ctx context.Context, orderID string) error
}

// ProfitHook 订单完成钩子
// 订单完成时生成冻结分润，退款时取消分润
type ProfitHook struct {
	profitService profitService
}

// NewProfitHook 创建订单完成钩子
func NewProfitHook(profitService profitService) *ProfitHook {
	return &ProfitHook{profitService: profitService}
}

// OnOrderCompleted 订单完成时触发
// 分润失败不影响订单完成，只记录日志待人工处理
func (h *ProfitHook) OnOrderCompleted(ctx context.Context, order *models.Order) error {
	if order.Status != models.OrderStatusCompleted {
		return nil
	}
	if h.profitService == nil {
		return nil
	}

	record, err := h.profitService.CreateForOrder(ctx, order)
	if err != nil {
		// 重复触发视为已处理
		if errors.Is(err, apperrors.ErrProfitRecordExists) {
			return nil
		}
		logger.Warn("生成分润失败",
			zap.String("order_no", order.OrderNo),
			zap.Error(err),
		)
		return nil
	}

	logger.Info("订单分润已生成",
		zap.String("order_no", order.OrderNo),
		zap.String("profit_record_id", record.ID),
		zap.Int("allocations", len(record.Records)),
	)
	return nil
}

// OnOrderRefunded 订单退款时触发
func (h *ProfitHook) OnOrderRefunded(ctx context.Context, order *models.Order) error {
	if h.profitService == nil {
		return nil
	}

	if err := h.profitService.CancelByOrder(ctx, order.ID); err != nil {
		logger.Warn("取消分润失败",
			zap.String("order_no", order.OrderNo),
			zap.Error(err),
		)
		return nil
	}
	return nil
}
