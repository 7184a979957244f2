// Package distribution 分润结算服务单元测试
package distribution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// newTestSettlementService 构造结算服务
func newTestSettlementService(db *gorm.DB) *SettlementService {
	return NewSettlementService(
		repository.NewProfitRecordRepository(db),
		repository.NewActivityRepository(db),
		repository.NewSystemConfigRepository(db),
		db,
		models.DefaultRefundDeadlineHours,
		models.DefaultAutoSettleHours,
	)
}

// createTestActivity 创建指定开始时间的活动
func createTestActivity(t *testing.T, db *gorm.DB, startTime time.Time) *models.Activity {
	activity := &models.Activity{
		Name:      "测试活动",
		Price:     200.0,
		StartTime: startTime,
		EndTime:   startTime.Add(2 * time.Hour),
		Status:    models.ActivityStatusPublished,
	}
	require.NoError(t, db.Create(activity).Error)
	return activity
}

// createFrozenLedger 为订单生成一条冻结分润
func createFrozenLedger(t *testing.T, db *gorm.DB, order *models.Order) *models.ProfitRecord {
	record := &models.ProfitRecord{
		OrderID:     order.ID,
		OrderNo:     order.OrderNo,
		EntityType:  order.EntityType,
		EntityID:    order.EntityID,
		UserID:      order.UserID,
		TotalAmount: order.Amount,
		Status:      models.ProfitStatusFrozen,
	}
	require.NoError(t, db.Create(record).Error)
	require.NoError(t, db.Create(&models.DistributionRecord{
		ProfitRecordID:     record.ID,
		RoleCode:           "coach",
		RoleCategory:       models.RoleCategoryPool,
		BeneficiaryID:      order.UserID,
		BaseAmount:         order.Amount,
		DistributionAmount: order.Amount * 0.6,
		SharePercentage:    60,
		Status:             models.ProfitStatusFrozen,
	}).Error)
	return record
}

func TestSettlementService_Settle(t *testing.T) {
	t.Run("冻结转已结算_明细级联", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestSettlementService(db)
		ctx := context.Background()

		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)
		activity := createTestActivity(t, db, time.Now().Add(-3*time.Hour))
		order := createTestActivityOrder(t, db, buyer.ID, nil, 200.0, activity.ID)
		record := createFrozenLedger(t, db, order)

		require.NoError(t, svc.Settle(ctx, record.ID))

		var found models.ProfitRecord
		require.NoError(t, db.Preload("Records").Where("id = ?", record.ID).First(&found).Error)
		assert.Equal(t, int8(models.ProfitStatusSettled), found.Status)
		require.NotNil(t, found.SettledAt)
		require.Len(t, found.Records, 1)
		assert.Equal(t, int8(models.ProfitStatusSettled), found.Records[0].Status)
		require.NotNil(t, found.Records[0].SettledAt)
	})

	t.Run("重复结算_返回状态错误", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestSettlementService(db)
		ctx := context.Background()

		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)
		activity := createTestActivity(t, db, time.Now().Add(-3*time.Hour))
		order := createTestActivityOrder(t, db, buyer.ID, nil, 200.0, activity.ID)
		record := createFrozenLedger(t, db, order)

		require.NoError(t, svc.Settle(ctx, record.ID))

		err := svc.Settle(ctx, record.ID)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrProfitStatusError.Code, apperrors.GetAppError(err).Code)
	})
}

func TestSettlementService_RunSettlementSweep(t *testing.T) {
	t.Run("活动已开始且退款期已过_结算", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestSettlementService(db)
		ctx := context.Background()

		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)
		activity := createTestActivity(t, db, time.Now().Add(-3*time.Hour))
		order := createTestActivityOrder(t, db, buyer.ID, nil, 200.0, activity.ID)
		record := createFrozenLedger(t, db, order)

		settled, err := svc.RunSettlementSweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, settled)

		var found models.ProfitRecord
		require.NoError(t, db.Where("id = ?", record.ID).First(&found).Error)
		assert.Equal(t, int8(models.ProfitStatusSettled), found.Status)

		// 再次扫描是幂等无操作
		settled, err = svc.RunSettlementSweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, settled)
	})

	t.Run("活动未开始_保持冻结", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestSettlementService(db)
		ctx := context.Background()

		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)
		activity := createTestActivity(t, db, time.Now().Add(24*time.Hour))
		order := createTestActivityOrder(t, db, buyer.ID, nil, 200.0, activity.ID)
		record := createFrozenLedger(t, db, order)

		settled, err := svc.RunSettlementSweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, settled)

		var found models.ProfitRecord
		require.NoError(t, db.Where("id = ?", record.ID).First(&found).Error)
		assert.Equal(t, int8(models.ProfitStatusFrozen), found.Status)
	})

	t.Run("会员卡分润按创建时间延迟结算", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestSettlementService(db)
		ctx := context.Background()

		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)
		now := time.Now()
		order := &models.Order{
			OrderNo:    "C2026010112000012345",
			UserID:     buyer.ID,
			EntityType: models.OrderEntityMembershipCard,
			EntityID:   "33333333-3333-3333-3333-333333333333",
			Amount:     500.0,
			Status:     models.OrderStatusCompleted,
			PaidAt:     &now,
		}
		require.NoError(t, db.Create(order).Error)
		record := createFrozenLedger(t, db, order)

		// 刚创建的记录不满足 24 小时延迟
		settled, err := svc.RunSettlementSweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, settled)

		// 回拨创建时间后可结算
		require.NoError(t, db.Model(&models.ProfitRecord{}).Where("id = ?", record.ID).
			UpdateColumn("created_at", time.Now().Add(-25*time.Hour)).Error)

		settled, err = svc.RunSettlementSweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, settled)
	})

	t.Run("结算延迟读取系统配置", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestSettlementService(db)
		sysConfigRepo := repository.NewSystemConfigRepository(db)
		ctx := context.Background()

		// 配置为 1 小时延迟
		require.NoError(t, sysConfigRepo.Upsert(ctx, &models.SystemConfig{
			Group: models.ConfigGroupDistribution,
			Key:   models.ConfigKeyAutoSettleHours,
			Value: "1",
			Type:  models.ConfigTypeNumber,
		}))

		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)
		now := time.Now()
		order := &models.Order{
			OrderNo:    "C2026010112000054321",
			UserID:     buyer.ID,
			EntityType: models.OrderEntityMembershipCard,
			EntityID:   "33333333-3333-3333-3333-333333333333",
			Amount:     500.0,
			Status:     models.OrderStatusCompleted,
			PaidAt:     &now,
		}
		require.NoError(t, db.Create(order).Error)
		record := createFrozenLedger(t, db, order)
		require.NoError(t, db.Model(&models.ProfitRecord{}).Where("id = ?", record.ID).
			UpdateColumn("created_at", time.Now().Add(-2*time.Hour)).Error)

		settled, err := svc.RunSettlementSweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, settled)
	})

	t.Run("活动被删除_保持冻结", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestSettlementService(db)
		ctx := context.Background()

		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)
		order := createTestActivityOrder(t, db, buyer.ID, nil, 200.0, "44444444-4444-4444-4444-444444444444")
		record := createFrozenLedger(t, db, order)

		settled, err := svc.RunSettlementSweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, settled)

		var found models.ProfitRecord
		require.NoError(t, db.Where("id = ?", record.ID).First(&found).Error)
		assert.Equal(t, int8(models.ProfitStatusFrozen), found.Status)
	})
}
