// Package distribution 分润配置服务单元测试
package distribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

func TestConfigService_Create(t *testing.T) {
	t.Run("合法配置_创建成功", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := NewConfigService(repository.NewDistributionConfigRepository(db), repository.NewRoleRepository(db), db)
		ctx := context.Background()

		createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		createTestRole(t, db, "referrer", models.RoleCategoryReferral, models.RoleStatusActive)

		config, err := svc.Create(ctx, "默认方案", models.RoleShares{"coach": 60, "referrer": 30})
		require.NoError(t, err)
		assert.NotEmpty(t, config.ID)
		assert.InDelta(t, 90.0, config.TotalShare, 0.001)
		assert.Equal(t, int8(models.DistributionConfigDisabled), config.Status)
	})

	t.Run("比例总和超过100_拒绝", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := NewConfigService(repository.NewDistributionConfigRepository(db), repository.NewRoleRepository(db), db)
		ctx := context.Background()

		createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		createTestRole(t, db, "referrer", models.RoleCategoryReferral, models.RoleStatusActive)

		_, err := svc.Create(ctx, "超额方案", models.RoleShares{"coach": 70, "referrer": 40})
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrDistTotalShareExceed.Code, appErr.Code)
	})

	t.Run("单项比例越界_拒绝", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := NewConfigService(repository.NewDistributionConfigRepository(db), repository.NewRoleRepository(db), db)
		ctx := context.Background()

		createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)

		_, err := svc.Create(ctx, "负比例", models.RoleShares{"coach": -1})
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrDistShareOutOfRange.Code, appErr.Code)
	})

	t.Run("角色不存在_拒绝", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := NewConfigService(repository.NewDistributionConfigRepository(db), repository.NewRoleRepository(db), db)
		ctx := context.Background()

		_, err := svc.Create(ctx, "未知角色", models.RoleShares{"ghost": 10})
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrDistRoleNotFound.Code, appErr.Code)
	})
}

func TestConfigService_Enable(t *testing.T) {
	t.Run("启用时禁用其它配置", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		configRepo := repository.NewDistributionConfigRepository(db)
		svc := NewConfigService(configRepo, repository.NewRoleRepository(db), db)
		ctx := context.Background()

		createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)

		first, err := svc.Create(ctx, "方案一", models.RoleShares{"coach": 50})
		require.NoError(t, err)
		second, err := svc.Create(ctx, "方案二", models.RoleShares{"coach": 60})
		require.NoError(t, err)

		require.NoError(t, svc.Enable(ctx, first.ID))
		enabled, err := svc.GetEnabled(ctx)
		require.NoError(t, err)
		assert.Equal(t, first.ID, enabled.ID)

		// 启用第二个后第一个自动禁用
		require.NoError(t, svc.Enable(ctx, second.ID))
		enabled, err = svc.GetEnabled(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, enabled.ID)

		var count int64
		require.NoError(t, db.Model(&models.DistributionConfig{}).
			Where("status = ?", models.DistributionConfigEnabled).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("配置不存在_返回错误", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := NewConfigService(repository.NewDistributionConfigRepository(db), repository.NewRoleRepository(db), db)
		ctx := context.Background()

		err := svc.Enable(ctx, "00000000-0000-0000-0000-000000000000")
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrDistConfigNotFound.Code, appErr.Code)
	})
}

func TestConfigService_Delete(t *testing.T) {
	t.Run("启用中的配置不可删除", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		svc := NewConfigService(repository.NewDistributionConfigRepository(db), repository.NewRoleRepository(db), db)
		ctx := context.Background()

		createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		config, err := svc.Create(ctx, "方案", models.RoleShares{"coach": 50})
		require.NoError(t, err)
		require.NoError(t, svc.Enable(ctx, config.ID))

		err = svc.Delete(ctx, config.ID)
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrDistConfigEnabled.Code, appErr.Code)

		// 禁用后可删除
		require.NoError(t, svc.Disable(ctx, config.ID))
		require.NoError(t, svc.Delete(ctx, config.ID))
	})
}
