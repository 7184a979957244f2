// Package order 订单服务单元测试
package order

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
	"github.com/linchen2024/club-admin-backend/internal/service/distribution"
)

// setupOrderTestDB 创建测试数据库
func setupOrderTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Activity{},
		&models.MembershipCard{},
		&models.Order{},
		&models.SystemConfig{},
		&models.DistributionConfig{},
		&models.ProfitRecord{},
		&models.DistributionRecord{},
	)
	require.NoError(t, err)

	return db
}

// newTestOrderService 构造订单服务（含分润钩子）
func newTestOrderService(t *testing.T, db *gorm.DB) *OrderService {
	resolver := distribution.NewStrategyResolver(repository.NewUserRepository(db), repository.NewRoleRepository(db))
	profitSvc := distribution.NewProfitService(
		repository.NewProfitRecordRepository(db),
		repository.NewDistributionConfigRepository(db),
		repository.NewDistributionRecordRepository(db),
		distribution.NewCalculator(resolver),
		db,
	)
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewActivityRepository(db),
		repository.NewMembershipCardRepository(db),
		repository.NewUserRepository(db),
		repository.NewSystemConfigRepository(db),
		NewProfitHook(profitSvc),
		db,
		30,
	)
}

// createBuyer 创建测试买家
func createBuyer(t *testing.T, db *gorm.DB, inviterID *string) *models.User {
	user := &models.User{
		Username:  fmt.Sprintf("buyer_%d", time.Now().UnixNano()%1000000),
		Password:  "hashed",
		InviterID: inviterID,
		Status:    models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createPublishedActivity 创建已发布活动
func createPublishedActivity(t *testing.T, db *gorm.DB, price float64, capacity int, startIn time.Duration) *models.Activity {
	start := time.Now().Add(startIn)
	activity := &models.Activity{
		Name:      "晨练营",
		Price:     price,
		Capacity:  capacity,
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		Status:    models.ActivityStatusPublished,
	}
	require.NoError(t, db.Create(activity).Error)
	return activity
}

// createOnSaleCard 创建在售会员卡
func createOnSaleCard(t *testing.T, db *gorm.DB, price float64) *models.MembershipCard {
	card := &models.MembershipCard{
		Name:         "季卡",
		Price:        price,
		DurationDays: 90,
		Status:       models.MembershipCardStatusOnSale,
	}
	require.NoError(t, db.Create(card).Error)
	return card
}

// enableCoachConfig 启用教练分润配置并创建教练
func enableCoachConfig(t *testing.T, db *gorm.DB) *models.User {
	role := &models.Role{Name: "教练", Code: "coach", Category: models.RoleCategoryPool, Status: models.RoleStatusActive}
	require.NoError(t, db.Create(role).Error)
	coach := &models.User{Username: "coach", Password: "x", Status: models.UserStatusActive}
	require.NoError(t, db.Create(coach).Error)
	require.NoError(t, db.Model(coach).Association("Roles").Append(role))
	require.NoError(t, db.Create(&models.DistributionConfig{
		Name:       "方案",
		RoleShares: models.RoleShares{"coach": 60},
		TotalShare: 60,
		Status:     models.DistributionConfigEnabled,
	}).Error)
	return coach
}

func TestOrderService_Create(t *testing.T) {
	t.Run("活动订单_快照价格并占名额", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		inviter := createBuyer(t, db, nil)
		buyer := createBuyer(t, db, &inviter.ID)
		activity := createPublishedActivity(t, db, 200.0, 10, 24*time.Hour)

		order, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityActivity,
			EntityID:   activity.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int8(models.OrderStatusPending), order.Status)
		assert.InDelta(t, 200.0, order.Amount, 0.001)
		require.NotNil(t, order.InviterID)
		assert.Equal(t, inviter.ID, *order.InviterID)
		assert.True(t, strings.HasPrefix(order.OrderNo, OrderNoPrefixActivity))

		var found models.Activity
		require.NoError(t, db.Where("id = ?", activity.ID).First(&found).Error)
		assert.Equal(t, 1, found.Enrolled)
	})

	t.Run("活动名额已满_拒绝下单", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		buyer := createBuyer(t, db, nil)
		activity := createPublishedActivity(t, db, 100.0, 1, 24*time.Hour)
		require.NoError(t, db.Model(activity).UpdateColumn("enrolled", 1).Error)

		_, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityActivity,
			EntityID:   activity.ID,
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrActivityFull.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("活动已开始_拒绝下单", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		buyer := createBuyer(t, db, nil)
		activity := createPublishedActivity(t, db, 100.0, 10, -time.Hour)

		_, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityActivity,
			EntityID:   activity.ID,
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrActivityStarted.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("下架会员卡_拒绝下单", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		buyer := createBuyer(t, db, nil)
		card := createOnSaleCard(t, db, 500.0)
		require.NoError(t, db.Model(card).UpdateColumn("status", models.MembershipCardStatusOffShelf).Error)

		_, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityMembershipCard,
			EntityID:   card.ID,
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCardOffShelf.Code, apperrors.GetAppError(err).Code)
	})
}

func TestOrderService_GetByOrderNo(t *testing.T) {
	t.Run("按订单号查询", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		buyer := createBuyer(t, db, nil)
		activity := createPublishedActivity(t, db, 100.0, 10, 24*time.Hour)

		created, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityActivity,
			EntityID:   activity.ID,
		})
		require.NoError(t, err)

		found, err := svc.GetByOrderNo(ctx, created.OrderNo)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("订单号不存在_返回订单不存在", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		_, err := svc.GetByOrderNo(ctx, "A20260101000000000000")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrOrderNotFound.Code, apperrors.GetAppError(err).Code)
	})
}

func TestOrderService_MarkPaid(t *testing.T) {
	t.Run("会员卡订单_支付即完成并生成分润", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		enableCoachConfig(t, db)
		buyer := createBuyer(t, db, nil)
		card := createOnSaleCard(t, db, 500.0)

		order, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityMembershipCard,
			EntityID:   card.ID,
		})
		require.NoError(t, err)

		paid, err := svc.MarkPaid(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, int8(models.OrderStatusCompleted), paid.Status)
		require.NotNil(t, paid.CompletedAt)

		var record models.ProfitRecord
		require.NoError(t, db.Where("order_id = ?", order.ID).First(&record).Error)
		assert.Equal(t, int8(models.ProfitStatusFrozen), record.Status)
		assert.InDelta(t, 500.0, record.TotalAmount, 0.001)
	})

	t.Run("无启用分润配置_订单完成且总账全额保留", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		buyer := createBuyer(t, db, nil)
		card := createOnSaleCard(t, db, 300.0)

		order, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityMembershipCard,
			EntityID:   card.ID,
		})
		require.NoError(t, err)

		paid, err := svc.MarkPaid(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, int8(models.OrderStatusCompleted), paid.Status)

		// 没有配置也要落总账，避免订单完成后分润永久丢失
		var record models.ProfitRecord
		require.NoError(t, db.Where("order_id = ?", order.ID).First(&record).Error)
		assert.Equal(t, int8(models.ProfitStatusFrozen), record.Status)
		assert.InDelta(t, 300.0, record.TotalAmount, 0.001)

		var detailCount int64
		require.NoError(t, db.Model(&models.DistributionRecord{}).
			Where("profit_record_id = ?", record.ID).Count(&detailCount).Error)
		assert.Equal(t, int64(0), detailCount)
	})

	t.Run("活动订单_支付后保持已支付", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		enableCoachConfig(t, db)
		buyer := createBuyer(t, db, nil)
		activity := createPublishedActivity(t, db, 200.0, 10, 24*time.Hour)

		order, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityActivity,
			EntityID:   activity.ID,
		})
		require.NoError(t, err)

		paid, err := svc.MarkPaid(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, int8(models.OrderStatusPaid), paid.Status)

		// 活动未结束时不生成分润
		var count int64
		require.NoError(t, db.Model(&models.ProfitRecord{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("重复支付_返回已支付错误", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		buyer := createBuyer(t, db, nil)
		activity := createPublishedActivity(t, db, 200.0, 10, 24*time.Hour)

		order, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityActivity,
			EntityID:   activity.ID,
		})
		require.NoError(t, err)

		_, err = svc.MarkPaid(ctx, order.ID)
		require.NoError(t, err)

		_, err = svc.MarkPaid(ctx, order.ID)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrOrderPaid.Code, apperrors.GetAppError(err).Code)
	})
}

func TestOrderService_AutoCompleteOrders(t *testing.T) {
	t.Run("已结束活动的已支付订单自动完成", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		enableCoachConfig(t, db)
		buyer := createBuyer(t, db, nil)

		// 活动已结束
		start := time.Now().Add(-3 * time.Hour)
		activity := &models.Activity{
			Name:      "已结束活动",
			Price:     200.0,
			StartTime: start,
			EndTime:   start.Add(time.Hour),
			Status:    models.ActivityStatusPublished,
		}
		require.NoError(t, db.Create(activity).Error)

		now := time.Now()
		order := &models.Order{
			OrderNo:    fmt.Sprintf("A%d", time.Now().UnixNano()),
			UserID:     buyer.ID,
			EntityType: models.OrderEntityActivity,
			EntityID:   activity.ID,
			Amount:     200.0,
			Status:     models.OrderStatusPaid,
			PaidAt:     &now,
		}
		require.NoError(t, db.Create(order).Error)

		completed, err := svc.AutoCompleteOrders(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, completed)

		var found models.Order
		require.NoError(t, db.Where("id = ?", order.ID).First(&found).Error)
		assert.Equal(t, int8(models.OrderStatusCompleted), found.Status)

		var record models.ProfitRecord
		require.NoError(t, db.Where("order_id = ?", order.ID).First(&record).Error)
		assert.Equal(t, int8(models.ProfitStatusFrozen), record.Status)

		// 再次扫描无新完成
		completed, err = svc.AutoCompleteOrders(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, completed)
	})
}

func TestOrderService_Refund(t *testing.T) {
	t.Run("退款截止前_退款并取消分润", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		enableCoachConfig(t, db)
		buyer := createBuyer(t, db, nil)
		activity := createPublishedActivity(t, db, 200.0, 10, 24*time.Hour)

		order, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityActivity,
			EntityID:   activity.ID,
		})
		require.NoError(t, err)
		_, err = svc.MarkPaid(ctx, order.ID)
		require.NoError(t, err)

		require.NoError(t, svc.Refund(ctx, order.ID))

		var found models.Order
		require.NoError(t, db.Where("id = ?", order.ID).First(&found).Error)
		assert.Equal(t, int8(models.OrderStatusRefunded), found.Status)

		var foundActivity models.Activity
		require.NoError(t, db.Where("id = ?", activity.ID).First(&foundActivity).Error)
		assert.Equal(t, 0, foundActivity.Enrolled)
	})

	t.Run("已过退款截止时间_拒绝退款", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		buyer := createBuyer(t, db, nil)
		// 活动 1 小时后开始，默认截止提前 2 小时，已过截止
		activity := createPublishedActivity(t, db, 200.0, 10, time.Hour)

		order, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityActivity,
			EntityID:   activity.ID,
		})
		require.NoError(t, err)
		_, err = svc.MarkPaid(ctx, order.ID)
		require.NoError(t, err)

		err = svc.Refund(ctx, order.ID)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrRefundDeadline.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("待支付订单_不可退款", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		buyer := createBuyer(t, db, nil)
		activity := createPublishedActivity(t, db, 200.0, 10, 24*time.Hour)

		order, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityActivity,
			EntityID:   activity.ID,
		})
		require.NoError(t, err)

		err = svc.Refund(ctx, order.ID)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrOrderCannotRefund.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("已完成订单退款_分润被取消", func(t *testing.T) {
		db := setupOrderTestDB(t)
		svc := newTestOrderService(t, db)
		ctx := context.Background()

		enableCoachConfig(t, db)
		buyer := createBuyer(t, db, nil)
		card := createOnSaleCard(t, db, 500.0)

		order, err := svc.Create(ctx, &CreateRequest{
			UserID:     buyer.ID,
			EntityType: models.OrderEntityMembershipCard,
			EntityID:   card.ID,
		})
		require.NoError(t, err)
		_, err = svc.MarkPaid(ctx, order.ID)
		require.NoError(t, err)

		require.NoError(t, svc.Refund(ctx, order.ID))

		var record models.ProfitRecord
		require.NoError(t, db.Where("order_id = ?", order.ID).First(&record).Error)
		assert.Equal(t, int8(models.ProfitStatusCancelled), record.Status)
	})
}

func TestOrderService_ExpirePendingOrders(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newTestOrderService(t, db)
	ctx := context.Background()

	buyer := createBuyer(t, db, nil)
	activity := createPublishedActivity(t, db, 200.0, 10, 24*time.Hour)

	order, err := svc.Create(ctx, &CreateRequest{
		UserID:     buyer.ID,
		EntityType: models.OrderEntityActivity,
		EntityID:   activity.ID,
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)

	cancelled, err := svc.ExpirePendingOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cancelled)

	var found models.Order
	require.NoError(t, db.Where("id = ?", order.ID).First(&found).Error)
	assert.Equal(t, int8(models.OrderStatusCancelled), found.Status)

	// 名额已释放
	var foundActivity models.Activity
	require.NoError(t, db.Where("id = ?", activity.ID).First(&foundActivity).Error)
	assert.Equal(t, 0, foundActivity.Enrolled)
}
