// Package distribution 分润总账服务单元测试
package distribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// newTestProfitService 构造分润总账服务
func newTestProfitService(db *gorm.DB) *ProfitService {
	return NewProfitService(
		repository.NewProfitRecordRepository(db),
		repository.NewDistributionConfigRepository(db),
		repository.NewDistributionRecordRepository(db),
		newTestCalculator(db),
		db,
	)
}

// enableTestConfig 创建并启用一条分润配置
func enableTestConfig(t *testing.T, db *gorm.DB, shares models.RoleShares) *models.DistributionConfig {
	config := &models.DistributionConfig{
		Name:       "测试方案",
		RoleShares: shares,
		TotalShare: shares.Total(),
		Status:     models.DistributionConfigEnabled,
	}
	require.NoError(t, db.Create(config).Error)
	return config
}

func TestProfitService_CreateForOrder(t *testing.T) {
	t.Run("生成冻结总账和明细", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestProfitService(db)
		ctx := context.Background()

		coachRole := createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		referralRole := createTestRole(t, db, "referrer", models.RoleCategoryReferral, models.RoleStatusActive)
		coach := createTestUserWithRole(t, db, "coach_user", coachRole, models.UserStatusActive)
		inviter := createTestUserWithRole(t, db, "inviter_user", referralRole, models.UserStatusActive)
		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)

		enableTestConfig(t, db, models.RoleShares{"coach": 60, "referrer": 30})
		order := createTestActivityOrder(t, db, buyer.ID, &inviter.ID, 200.0, "11111111-1111-1111-1111-111111111111")

		record, err := svc.CreateForOrder(ctx, order)
		require.NoError(t, err)
		assert.Equal(t, int8(models.ProfitStatusFrozen), record.Status)
		assert.InDelta(t, 200.0, record.TotalAmount, 0.001)
		require.Len(t, record.Records, 2)

		for _, detail := range record.Records {
			assert.Equal(t, int8(models.ProfitStatusFrozen), detail.Status)
			assert.Equal(t, record.ID, detail.ProfitRecordID)
		}
		assert.Equal(t, coach.ID, record.Records[0].BeneficiaryID)
		assert.InDelta(t, 120.0, record.Records[0].DistributionAmount, 0.001)
		assert.Equal(t, inviter.ID, record.Records[1].BeneficiaryID)
		assert.InDelta(t, 60.0, record.Records[1].DistributionAmount, 0.001)
	})

	t.Run("同一订单重复生成_返回已存在错误", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestProfitService(db)
		ctx := context.Background()

		coachRole := createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		createTestUserWithRole(t, db, "coach_user", coachRole, models.UserStatusActive)
		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)

		enableTestConfig(t, db, models.RoleShares{"coach": 60})
		order := createTestActivityOrder(t, db, buyer.ID, nil, 100.0, "11111111-1111-1111-1111-111111111111")

		_, err := svc.CreateForOrder(ctx, order)
		require.NoError(t, err)

		_, err = svc.CreateForOrder(ctx, order)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrProfitRecordExists.Code, apperrors.GetAppError(err).Code)

		var count int64
		require.NoError(t, db.Model(&models.ProfitRecord{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("没有启用配置_降级生成全额保留总账", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestProfitService(db)
		ctx := context.Background()

		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)
		order := createTestActivityOrder(t, db, buyer.ID, nil, 100.0, "11111111-1111-1111-1111-111111111111")

		record, err := svc.CreateForOrder(ctx, order)
		require.NoError(t, err)
		assert.Equal(t, int8(models.ProfitStatusFrozen), record.Status)
		assert.Empty(t, record.Records)
		assert.Equal(t, 100.0, record.TotalAmount)

		// 总账已落库，后续不会重复生成
		_, err = svc.CreateForOrder(ctx, order)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrProfitRecordExists.Code, apperrors.GetAppError(err).Code)

		var detailCount int64
		require.NoError(t, db.Model(&models.DistributionRecord{}).Count(&detailCount).Error)
		assert.Equal(t, int64(0), detailCount)
	})

	t.Run("全部角色被跳过_仍生成总账", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestProfitService(db)
		ctx := context.Background()

		createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)

		enableTestConfig(t, db, models.RoleShares{"coach": 60})
		order := createTestActivityOrder(t, db, buyer.ID, nil, 100.0, "11111111-1111-1111-1111-111111111111")

		record, err := svc.CreateForOrder(ctx, order)
		require.NoError(t, err)
		assert.Empty(t, record.Records)
		assert.Equal(t, int8(models.ProfitStatusFrozen), record.Status)
	})
}

func TestProfitService_CancelByOrder(t *testing.T) {
	t.Run("冻结分润级联取消", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestProfitService(db)
		ctx := context.Background()

		coachRole := createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		createTestUserWithRole(t, db, "coach_user", coachRole, models.UserStatusActive)
		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)

		enableTestConfig(t, db, models.RoleShares{"coach": 60})
		order := createTestActivityOrder(t, db, buyer.ID, nil, 100.0, "11111111-1111-1111-1111-111111111111")

		record, err := svc.CreateForOrder(ctx, order)
		require.NoError(t, err)

		require.NoError(t, svc.CancelByOrder(ctx, order.ID))

		found, err := svc.Get(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, int8(models.ProfitStatusCancelled), found.Status)
		for _, detail := range found.Records {
			assert.Equal(t, int8(models.ProfitStatusCancelled), detail.Status)
		}

		// 再次取消是无操作
		require.NoError(t, svc.CancelByOrder(ctx, order.ID))
	})

	t.Run("无分润记录_取消为无操作", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestProfitService(db)
		ctx := context.Background()

		require.NoError(t, svc.CancelByOrder(ctx, "22222222-2222-2222-2222-222222222222"))
	})

	t.Run("已结算分润不可取消", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestProfitService(db)
		ctx := context.Background()

		coachRole := createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		createTestUserWithRole(t, db, "coach_user", coachRole, models.UserStatusActive)
		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)

		enableTestConfig(t, db, models.RoleShares{"coach": 60})
		order := createTestActivityOrder(t, db, buyer.ID, nil, 100.0, "11111111-1111-1111-1111-111111111111")

		record, err := svc.CreateForOrder(ctx, order)
		require.NoError(t, err)
		require.NoError(t, db.Model(&models.ProfitRecord{}).Where("id = ?", record.ID).
			Update("status", models.ProfitStatusSettled).Error)

		err = svc.CancelByOrder(ctx, order.ID)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrProfitStatusError.Code, apperrors.GetAppError(err).Code)
	})
}

func TestProfitService_BeneficiarySums(t *testing.T) {
	t.Run("按状态汇总受益人金额", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestProfitService(db)
		ctx := context.Background()

		coachRole := createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		coach := createTestUserWithRole(t, db, "coach_user", coachRole, models.UserStatusActive)
		buyer := createTestUserWithRole(t, db, "buyer", nil, models.UserStatusActive)

		enableTestConfig(t, db, models.RoleShares{"coach": 60})
		first := createTestActivityOrder(t, db, buyer.ID, nil, 100.0, "11111111-1111-1111-1111-111111111111")
		second := createTestActivityOrder(t, db, buyer.ID, nil, 200.0, "11111111-1111-1111-1111-111111111111")

		firstRecord, err := svc.CreateForOrder(ctx, first)
		require.NoError(t, err)
		_, err = svc.CreateForOrder(ctx, second)
		require.NoError(t, err)

		// 第一笔结算，第二笔仍冻结
		require.NoError(t, db.Model(&models.DistributionRecord{}).
			Where("profit_record_id = ?", firstRecord.ID).
			Update("status", models.ProfitStatusSettled).Error)

		settled, err := svc.SumSettledByBeneficiary(ctx, coach.ID)
		require.NoError(t, err)
		assert.InDelta(t, 60.0, settled, 0.001)

		frozen, err := svc.SumFrozenByBeneficiary(ctx, coach.ID)
		require.NoError(t, err)
		assert.InDelta(t, 120.0, frozen, 0.001)
	})

	t.Run("无分润明细_汇总为零", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := newTestProfitService(db)
		ctx := context.Background()

		settled, err := svc.SumSettledByBeneficiary(ctx, "22222222-2222-2222-2222-222222222222")
		require.NoError(t, err)
		assert.Equal(t, 0.0, settled)
	})
}
