// Package scheduler 提供定时任务
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/linchen2024/club-admin-backend/internal/common/logger"
	orderService "github.com/linchen2024/club-admin-backend/internal/service/order"
)

// settlementService 结算服务依赖
type settlementService interface {
	RunSettlementSweep(ctx context.Context) (int, error)
}

// TaskHandler 任务处理器
type TaskHandler struct {
	orderService      *orderService.OrderService
	settlementService settlementService

	completeSweepInterval time.Duration
	settleSweepInterval   time.Duration
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(
	orderSvc *orderService.OrderService,
	settlementSvc settlementService,
	completeSweepMinutes, settleSweepMinutes int,
) *TaskHandler {
	if completeSweepMinutes <= 0 {
		completeSweepMinutes = 10
	}
	if settleSweepMinutes <= 0 {
		settleSweepMinutes = 30
	}
	return &TaskHandler{
		orderService:          orderSvc,
		settlementService:     settlementSvc,
		completeSweepInterval: time.Duration(completeSweepMinutes) * time.Minute,
		settleSweepInterval:   time.Duration(settleSweepMinutes) * time.Minute,
	}
}

// AutoCompleteOrders 完成已结束活动的已支付订单
func (h *TaskHandler) AutoCompleteOrders(ctx context.Context) error {
	completed, err := h.orderService.AutoCompleteOrders(ctx)
	if err != nil {
		return err
	}
	if completed > 0 {
		logger.Info("订单自动完成扫描", zap.Int("completed", completed))
	}
	return nil
}

// SettleProfitRecords 结算到期的冻结分润
func (h *TaskHandler) SettleProfitRecords(ctx context.Context) error {
	settled, err := h.settlementService.RunSettlementSweep(ctx)
	if err != nil {
		return err
	}
	if settled > 0 {
		logger.Info("分润结算扫描", zap.Int("settled", settled))
	}
	return nil
}

// ExpirePendingOrders 取消超时未支付的订单
func (h *TaskHandler) ExpirePendingOrders(ctx context.Context) error {
	cancelled, err := h.orderService.ExpirePendingOrders(ctx)
	if err != nil {
		return err
	}
	if cancelled > 0 {
		logger.Info("超时订单取消扫描", zap.Int("cancelled", cancelled))
	}
	return nil
}

// SetupTasks 设置所有任务
func SetupTasks(scheduler *Scheduler, handler *TaskHandler) {
	// 定期完成已结束活动的订单
	scheduler.AddTask("AutoCompleteOrders", handler.completeSweepInterval, handler.AutoCompleteOrders)

	// 定期结算到期分润
	scheduler.AddTask("SettleProfitRecords", handler.settleSweepInterval, handler.SettleProfitRecords)

	// 每分钟取消超时未支付订单
	scheduler.AddTask("ExpirePendingOrders", 1*time.Minute, handler.ExpirePendingOrders)
}
