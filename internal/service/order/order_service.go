// Package order 订单服务
package order

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/common/logger"
	"github.com/linchen2024/club-admin-backend/internal/common/metrics"
	"github.com/linchen2024/club-admin-backend/internal/common/utils"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// 订单号前缀
const (
	OrderNoPrefixActivity = "A"
	OrderNoPrefixCard     = "C"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo     *repository.OrderRepository
	activityRepo  *repository.ActivityRepository
	cardRepo      *repository.MembershipCardRepository
	userRepo      *repository.UserRepository
	sysConfigRepo *repository.SystemConfigRepository
	hook          *ProfitHook
	db            *gorm.DB
	payTimeout    time.Duration
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo *repository.OrderRepository,
	activityRepo *repository.ActivityRepository,
	cardRepo *repository.MembershipCardRepository,
	userRepo *repository.UserRepository,
	sysConfigRepo *repository.SystemConfigRepository,
	hook *ProfitHook,
	db *gorm.DB,
	payTimeoutMinutes int,
) *OrderService {
	if payTimeoutMinutes <= 0 {
		payTimeoutMinutes = 30
	}
	return &OrderService{
		orderRepo:     orderRepo,
		activityRepo:  activityRepo,
		cardRepo:      cardRepo,
		userRepo:      userRepo,
		sysConfigRepo: sysConfigRepo,
		hook:          hook,
		db:            db,
		payTimeout:    time.Duration(payTimeoutMinutes) * time.Minute,
	}
}

// CreateRequest 下单请求
type CreateRequest struct {
	UserID     string  `json:"user_id" binding:"required"`
	EntityType string  `json:"entity_type" binding:"required,oneof=activity membership_card"`
	EntityID   string  `json:"entity_id" binding:"required"`
	Remark     *string `json:"remark"`
}

// Create 创建订单
// 金额取下单时刻的实体价格快照，邀请人取自用户档案
func (s *OrderService) Create(ctx context.Context, req *CreateRequest) (*models.Order, error) {
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrAccountDisabled
	}

	order := &models.Order{
		UserID:     user.ID,
		InviterID:  user.InviterID,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Remark:     req.Remark,
		Status:     models.OrderStatusPending,
	}

	switch req.EntityType {
	case models.OrderEntityActivity:
		activity, err := s.activityRepo.GetByID(ctx, req.EntityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrActivityNotFound
			}
			return nil, err
		}
		if activity.Status != models.ActivityStatusPublished {
			return nil, apperrors.ErrActivityNotOnSale
		}
		if time.Now().After(activity.StartTime) {
			return nil, apperrors.ErrActivityStarted
		}
		if activity.Capacity > 0 && activity.Enrolled >= activity.Capacity {
			return nil, apperrors.ErrActivityFull
		}
		order.OrderNo = utils.GenerateOrderNo(OrderNoPrefixActivity)
		order.Amount = activity.Price

	case models.OrderEntityMembershipCard:
		card, err := s.cardRepo.GetByID(ctx, req.EntityID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCardNotFound
			}
			return nil, err
		}
		if card.Status != models.MembershipCardStatusOnSale {
			return nil, apperrors.ErrCardOffShelf
		}
		order.OrderNo = utils.GenerateOrderNo(OrderNoPrefixCard)
		order.Amount = card.Price

	default:
		return nil, apperrors.ErrInvalidParams
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(order).Error; err != nil {
			return err
		}

		// 活动订单下单即占名额
		if order.EntityType == models.OrderEntityActivity {
			result := tx.WithContext(ctx).Model(&models.Activity{}).
				Where("id = ? AND (capacity = 0 OR enrolled < capacity)", order.EntityID).
				UpdateColumn("enrolled", gorm.Expr("enrolled + 1"))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return apperrors.ErrActivityFull
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.GetMetrics().RecordOrder("pending")
	return order, nil
}

// MarkPaid 标记订单已支付
// 会员卡订单支付即完成并触发分润；活动订单等活动结束后由扫描完成
func (s *OrderService) MarkPaid(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := s.orderRepo.UpdateStatusFrom(ctx, order.ID, models.OrderStatusPending, models.OrderStatusPaid,
		map[string]interface{}{"paid_at": now})
	if err != nil {
		return nil, err
	}
	if !ok {
		if order.Status == models.OrderStatusPaid {
			return nil, apperrors.ErrOrderPaid
		}
		return nil, apperrors.ErrOrderStatusError
	}
	order.Status = models.OrderStatusPaid
	order.PaidAt = &now
	metrics.GetMetrics().RecordOrder("paid")

	// 会员卡订单无时间门槛，支付即完成
	if order.EntityType == models.OrderEntityMembershipCard {
		if err := s.complete(ctx, order); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// complete 将已支付订单置为完成并触发分润钩子
func (s *OrderService) complete(ctx context.Context, order *models.Order) error {
	now := time.Now()
	ok, err := s.orderRepo.UpdateStatusFrom(ctx, order.ID, models.OrderStatusPaid, models.OrderStatusCompleted,
		map[string]interface{}{"completed_at": now})
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrOrderStatusError
	}
	order.Status = models.OrderStatusCompleted
	order.CompletedAt = &now
	metrics.GetMetrics().RecordOrder("completed")

	if s.hook != nil {
		// 钩子内部自行记录失败，不阻断订单完成
		_ = s.hook.OnOrderCompleted(ctx, order)
	}
	return nil
}

// Cancel 取消待支付订单
func (s *OrderService) Cancel(ctx context.Context, orderID string, reason *string) error {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return err
	}

	now := time.Now()
	fields := map[string]interface{}{"cancelled_at": now}
	if reason != nil {
		fields["cancel_reason"] = *reason
	}
	ok, err := s.orderRepo.UpdateStatusFrom(ctx, order.ID, models.OrderStatusPending, models.OrderStatusCancelled, fields)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrOrderCannotCancel
	}
	metrics.GetMetrics().RecordOrder("cancelled")

	if order.EntityType == models.OrderEntityActivity {
		if err := s.activityRepo.DecrementEnrolled(ctx, order.EntityID); err != nil {
			logger.Warn("释放活动名额失败",
				zap.String("order_no", order.OrderNo),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Refund 订单退款
// 活动订单需在退款截止时间之前；退款同时取消分润
func (s *OrderService) Refund(ctx context.Context, orderID string) error {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status != models.OrderStatusPaid && order.Status != models.OrderStatusCompleted {
		return apperrors.ErrOrderCannotRefund
	}

	if order.EntityType == models.OrderEntityActivity {
		activity, err := s.activityRepo.GetByID(ctx, order.EntityID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if activity != nil {
			deadlineHours := s.sysConfigRepo.GetFloat(ctx,
				models.ConfigGroupDistribution, models.ConfigKeyRefundDeadlineHours, models.DefaultRefundDeadlineHours)
			if time.Now().After(activity.RefundDeadline(deadlineHours)) {
				return apperrors.ErrRefundDeadline
			}
		}
	}

	now := time.Now()
	ok, err := s.orderRepo.UpdateStatusFrom(ctx, order.ID, order.Status, models.OrderStatusRefunded,
		map[string]interface{}{"refunded_at": now})
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrOrderCannotRefund
	}
	metrics.GetMetrics().RecordOrder("refunded")

	if order.EntityType == models.OrderEntityActivity {
		if err := s.activityRepo.DecrementEnrolled(ctx, order.EntityID); err != nil {
			logger.Warn("释放活动名额失败",
				zap.String("order_no", order.OrderNo),
				zap.Error(err),
			)
		}
	}

	if s.hook != nil {
		_ = s.hook.OnOrderRefunded(ctx, order)
	}
	return nil
}

// Get 获取订单
func (s *OrderService) Get(ctx context.Context, orderID string) (*models.Order, error) {
	return s.getOrder(ctx, orderID)
}

// GetByOrderNo 根据订单号获取订单
func (s *OrderService) GetByOrderNo(ctx context.Context, orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// List 获取订单列表
func (s *OrderService) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Order, int64, error) {
	return s.orderRepo.List(ctx, offset, limit, filters)
}

// AutoCompleteOrders 完成已结束活动的已支付订单
// 逐单完成并触发分润，单个订单失败不影响其它订单；返回完成数量
func (s *OrderService) AutoCompleteOrders(ctx context.Context) (int, error) {
	activityIDs, err := s.activityRepo.ListEnded(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if len(activityIDs) == 0 {
		return 0, nil
	}

	orders, err := s.orderRepo.ListPaidActivityOrders(ctx, activityIDs)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, order := range orders {
		if err := s.complete(ctx, order); err != nil {
			logger.Error("订单自动完成失败",
				zap.String("order_no", order.OrderNo),
				zap.Error(err),
			)
			continue
		}
		completed++
	}

	if completed > 0 {
		logger.Info("订单自动完成扫描结束",
			zap.Int("completed", completed),
			zap.Int("activities", len(activityIDs)),
		)
	}
	return completed, nil
}

// ExpirePendingOrders 取消超时未支付的订单
func (s *OrderService) ExpirePendingOrders(ctx context.Context) (int, error) {
	orders, err := s.orderRepo.ListExpiredPending(ctx, time.Now().Add(-s.payTimeout))
	if err != nil {
		return 0, err
	}

	reason := "支付超时自动取消"
	cancelled := 0
	for _, order := range orders {
		if err := s.Cancel(ctx, order.ID, &reason); err != nil {
			logger.Warn("超时订单取消失败",
				zap.String("order_no", order.OrderNo),
				zap.Error(err),
			)
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

// getOrder 读取订单并转换 not found 错误
func (s *OrderService) getOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
