// Package distribution 分润计算器单元测试
package distribution

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

	"github.com/linchen2024/club-admin-backend/internal/common/utils"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// setupDistributionTestDB 创建测试数据库
func setupDistributionTestDB(t *testing.T) *gorm.DB {
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
		&models.Menu{},
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

// createTestRole 创建测试角色
func createTestRole(t *testing.T, db *gorm.DB, code, category string, status int8) *models.Role {
	role := &models.Role{
		Name:     code,
		Code:     code,
		Category: category,
		Status:   status,
	}
	require.NoError(t, db.Create(role).Error)
	return role
}

// createTestUserWithRole 创建持有指定角色的测试用户
func createTestUserWithRole(t *testing.T, db *gorm.DB, username string, role *models.Role, status int8) *models.User {
	user := &models.User{
		Username: username,
		Password: "hashed",
		Status:   status,
	}
	require.NoError(t, db.Create(user).Error)
	if role != nil {
		require.NoError(t, db.Model(user).Association("Roles").Append(role))
	}
	return user
}

// createTestActivityOrder 创建已支付的活动订单
func createTestActivityOrder(t *testing.T, db *gorm.DB, userID string, inviterID *string, amount float64, activityID string) *models.Order {
	now := time.Now()
	order := &models.Order{
		OrderNo:    utils.GenerateOrderNo("A"),
		UserID:     userID,
		InviterID:  inviterID,
		EntityType: models.OrderEntityActivity,
		EntityID:   activityID,
		Amount:     amount,
		Status:     models.OrderStatusPaid,
		PaidAt:     &now,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

// newTestCalculator 构造计算器
func newTestCalculator(db *gorm.DB) *Calculator {
	resolver := NewStrategyResolver(repository.NewUserRepository(db), repository.NewRoleRepository(db))
	return NewCalculator(resolver)
}

func TestCalculator_Calculate(t *testing.T) {
	t.Run("教练加推荐人_按比例分配", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		ctx := context.Background()

		coachRole := createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		referralRole := createTestRole(t, db, "referrer", models.RoleCategoryReferral, models.RoleStatusActive)
		coach := createTestUserWithRole(t, db, "coach_user", coachRole, models.UserStatusActive)
		inviter := createTestUserWithRole(t, db, "inviter_user", referralRole, models.UserStatusActive)

		config := &models.DistributionConfig{
			Name:       "默认方案",
			RoleShares: models.RoleShares{"coach": 60, "referrer": 30},
			TotalShare: 90,
		}

		calc := newTestCalculator(db)
		result, err := calc.Calculate(ctx, config, 200.0, &inviter.ID)

		require.NoError(t, err)
		assert.True(t, result.IsValid)
		require.Len(t, result.Allocations, 2)
		assert.Empty(t, result.Skipped)

		// 角色编码排序后 coach 在前
		assert.Equal(t, "coach", result.Allocations[0].RoleCode)
		assert.Equal(t, coach.ID, result.Allocations[0].BeneficiaryID)
		assert.InDelta(t, 120.0, result.Allocations[0].Amount, 0.001)

		assert.Equal(t, "referrer", result.Allocations[1].RoleCode)
		assert.Equal(t, inviter.ID, result.Allocations[1].BeneficiaryID)
		assert.InDelta(t, 60.0, result.Allocations[1].Amount, 0.001)

		assert.InDelta(t, 180.0, result.DistributedSum, 0.001)
		assert.InDelta(t, 20.0, result.RemainingAmount, 0.001)
	})

	t.Run("无邀请人_推荐角色被跳过", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		ctx := context.Background()

		coachRole := createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		createTestRole(t, db, "referrer", models.RoleCategoryReferral, models.RoleStatusActive)
		createTestUserWithRole(t, db, "coach_user", coachRole, models.UserStatusActive)

		config := &models.DistributionConfig{
			Name:       "默认方案",
			RoleShares: models.RoleShares{"coach": 60, "referrer": 30},
			TotalShare: 90,
		}

		calc := newTestCalculator(db)
		result, err := calc.Calculate(ctx, config, 100.0, nil)

		require.NoError(t, err)
		assert.True(t, result.IsValid)
		require.Len(t, result.Allocations, 1)
		assert.Equal(t, "coach", result.Allocations[0].RoleCode)

		require.Len(t, result.Skipped, 1)
		assert.Equal(t, "referrer", result.Skipped[0].RoleCode)
		assert.Equal(t, SkipReasonNoInviter, result.Skipped[0].Reason)

		// 跳过的份额留在剩余金额中
		assert.InDelta(t, 40.0, result.RemainingAmount, 0.001)
	})

	t.Run("邀请人被禁用_推荐角色被跳过", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		ctx := context.Background()

		referralRole := createTestRole(t, db, "referrer", models.RoleCategoryReferral, models.RoleStatusActive)
		inviter := createTestUserWithRole(t, db, "inviter_user", referralRole, models.UserStatusDisabled)

		config := &models.DistributionConfig{
			Name:       "方案",
			RoleShares: models.RoleShares{"referrer": 30},
			TotalShare: 30,
		}

		calc := newTestCalculator(db)
		result, err := calc.Calculate(ctx, config, 100.0, &inviter.ID)

		require.NoError(t, err)
		assert.Empty(t, result.Allocations)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, SkipReasonInviterDisabled, result.Skipped[0].Reason)
	})

	t.Run("岗位角色无持有者_被跳过", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		ctx := context.Background()

		createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)

		config := &models.DistributionConfig{
			Name:       "方案",
			RoleShares: models.RoleShares{"coach": 60},
			TotalShare: 60,
		}

		calc := newTestCalculator(db)
		result, err := calc.Calculate(ctx, config, 100.0, nil)

		require.NoError(t, err)
		assert.Empty(t, result.Allocations)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, SkipReasonNoRoleHolder, result.Skipped[0].Reason)
		assert.InDelta(t, 100.0, result.RemainingAmount, 0.001)
	})

	t.Run("岗位角色多个持有者_最早注册者受益", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		ctx := context.Background()

		coachRole := createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		older := createTestUserWithRole(t, db, "coach_a", coachRole, models.UserStatusActive)
		require.NoError(t, db.Model(older).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)
		createTestUserWithRole(t, db, "coach_b", coachRole, models.UserStatusActive)

		config := &models.DistributionConfig{
			Name:       "方案",
			RoleShares: models.RoleShares{"coach": 50},
			TotalShare: 50,
		}

		calc := newTestCalculator(db)
		result, err := calc.Calculate(ctx, config, 100.0, nil)

		require.NoError(t, err)
		require.Len(t, result.Allocations, 1)
		assert.Equal(t, older.ID, result.Allocations[0].BeneficiaryID)
	})

	t.Run("零比例角色_被跳过", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		ctx := context.Background()

		coachRole := createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		createTestUserWithRole(t, db, "coach_user", coachRole, models.UserStatusActive)

		config := &models.DistributionConfig{
			Name:       "方案",
			RoleShares: models.RoleShares{"coach": 0},
			TotalShare: 0,
		}

		calc := newTestCalculator(db)
		result, err := calc.Calculate(ctx, config, 100.0, nil)

		require.NoError(t, err)
		assert.Empty(t, result.Allocations)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, SkipReasonZeroShare, result.Skipped[0].Reason)
	})

	t.Run("金额四舍五入到分", func(t *testing.T) {
		db := setupDistributionTestDB(t)
		ctx := context.Background()

		coachRole := createTestRole(t, db, "coach", models.RoleCategoryPool, models.RoleStatusActive)
		createTestUserWithRole(t, db, "coach_user", coachRole, models.UserStatusActive)

		config := &models.DistributionConfig{
			Name:       "方案",
			RoleShares: models.RoleShares{"coach": 33.33},
			TotalShare: 33.33,
		}

		calc := newTestCalculator(db)
		result, err := calc.Calculate(ctx, config, 10.01, nil)

		require.NoError(t, err)
		require.Len(t, result.Allocations, 1)
		// 10.01 * 33.33% = 3.336333 -> 3.34
		assert.InDelta(t, 3.34, result.Allocations[0].Amount, 0.0001)
		assert.InDelta(t, 6.67, result.RemainingAmount, 0.0001)
	})
}
