package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

func TestSystemConfigService_Upsert(t *testing.T) {
	t.Run("数字类型校验", func(t *testing.T) {
		db := setupAdminTestDB(t)
		ctx := context.Background()
		svc := NewSystemConfigService(repository.NewSystemConfigRepository(db))

		err := svc.Upsert(ctx, &UpsertConfigRequest{
			Group: models.ConfigGroupDistribution,
			Key:   models.ConfigKeyAutoSettleHours,
			Value: "not-a-number",
			Type:  models.ConfigTypeNumber,
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrConfigValueType.Code, apperrors.GetAppError(err).Code)

		err = svc.Upsert(ctx, &UpsertConfigRequest{
			Group: models.ConfigGroupDistribution,
			Key:   models.ConfigKeyAutoSettleHours,
			Value: "48",
			Type:  models.ConfigTypeNumber,
		})
		require.NoError(t, err)
	})

	t.Run("JSON类型校验", func(t *testing.T) {
		db := setupAdminTestDB(t)
		ctx := context.Background()
		svc := NewSystemConfigService(repository.NewSystemConfigRepository(db))

		err := svc.Upsert(ctx, &UpsertConfigRequest{
			Group: models.ConfigGroupSystem,
			Key:   "banner",
			Value: "{invalid",
			Type:  models.ConfigTypeJSON,
		})
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrConfigValueType.Code, apperrors.GetAppError(err).Code)
	})

	t.Run("重复写入覆盖旧值", func(t *testing.T) {
		db := setupAdminTestDB(t)
		ctx := context.Background()
		svc := NewSystemConfigService(repository.NewSystemConfigRepository(db))

		require.NoError(t, svc.Upsert(ctx, &UpsertConfigRequest{
			Group: models.ConfigGroupSystem,
			Key:   "site_name",
			Value: "俱乐部",
			Type:  models.ConfigTypeString,
		}))
		require.NoError(t, svc.Upsert(ctx, &UpsertConfigRequest{
			Group: models.ConfigGroupSystem,
			Key:   "site_name",
			Value: "新俱乐部",
			Type:  models.ConfigTypeString,
		}))

		config, err := svc.Get(ctx, models.ConfigGroupSystem, "site_name")
		require.NoError(t, err)
		assert.Equal(t, "新俱乐部", config.Value)
	})
}

func TestSystemConfigService_SeedDefaults(t *testing.T) {
	t.Run("写入默认值_不覆盖已有配置", func(t *testing.T) {
		db := setupAdminTestDB(t)
		ctx := context.Background()
		repo := repository.NewSystemConfigRepository(db)
		svc := NewSystemConfigService(repo)

		require.NoError(t, svc.Upsert(ctx, &UpsertConfigRequest{
			Group: models.ConfigGroupDistribution,
			Key:   models.ConfigKeyRefundDeadlineHours,
			Value: "6",
			Type:  models.ConfigTypeNumber,
		}))

		require.NoError(t, svc.SeedDefaults(ctx))

		// 管理员设置的值保留
		assert.Equal(t, 6.0, repo.GetFloat(ctx, models.ConfigGroupDistribution, models.ConfigKeyRefundDeadlineHours, 0))
		// 缺失的键补默认值
		assert.Equal(t, models.DefaultAutoSettleHours,
			repo.GetFloat(ctx, models.ConfigGroupDistribution, models.ConfigKeyAutoSettleHours, 0))

		// 再次执行幂等
		require.NoError(t, svc.SeedDefaults(ctx))
	})
}
