// Package distribution 分润服务
package distribution

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// ConfigService 分润配置服务
type ConfigService struct {
	configRepo *repository.DistributionConfigRepository
	roleRepo   *repository.RoleRepository
	db         *gorm.DB
}

// NewConfigService 创建分润配置服务
func NewConfigService(
	configRepo *repository.DistributionConfigRepository,
	roleRepo *repository.RoleRepository,
	db *gorm.DB,
) *ConfigService {
	return &ConfigService{
		configRepo: configRepo,
		roleRepo:   roleRepo,
		db:         db,
	}
}

// validateShares 校验分润比例
// 每项比例在 (0, 100] 内（允许 0 表示暂不分配），合计不超过 100，角色编码必须存在
func (s *ConfigService) validateShares(ctx context.Context, shares models.RoleShares) error {
	if len(shares) == 0 {
		return apperrors.ErrDistShareOutOfRange.WithMessage("分润比例不能为空")
	}

	var total float64
	codes := make([]string, 0, len(shares))
	for code, pct := range shares {
		if pct < 0 || pct > 100 {
			return apperrors.ErrDistShareOutOfRange
		}
		// 比例最多两位小数
		if math.Abs(pct*100-math.Round(pct*100)) > 1e-9 {
			return apperrors.ErrDistShareOutOfRange.WithMessage("分润比例最多两位小数")
		}
		total += pct
		codes = append(codes, code)
	}

	if total > 100 {
		return apperrors.ErrDistTotalShareExceed
	}

	roles, err := s.roleRepo.GetByCodes(ctx, codes)
	if err != nil {
		return err
	}
	if len(roles) != len(codes) {
		return apperrors.ErrDistRoleNotFound
	}

	return nil
}

// Create 创建分润配置，默认禁用
func (s *ConfigService) Create(ctx context.Context, name string, shares models.RoleShares) (*models.DistributionConfig, error) {
	if err := s.validateShares(ctx, shares); err != nil {
		return nil, err
	}

	config := &models.DistributionConfig{
		Name:       name,
		RoleShares: shares,
		TotalShare: shares.Total(),
		Status:     models.DistributionConfigDisabled,
	}
	if err := s.configRepo.Create(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Update 更新分润配置
func (s *ConfigService) Update(ctx context.Context, id, name string, shares models.RoleShares) (*models.DistributionConfig, error) {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDistConfigNotFound
		}
		return nil, err
	}

	if err := s.validateShares(ctx, shares); err != nil {
		return nil, err
	}

	config.Name = name
	config.RoleShares = shares
	config.TotalShare = shares.Total()
	if err := s.configRepo.Update(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

// Enable 启用配置
// 同一事务内先禁用其它配置，保证全局最多一条启用
func (s *ConfigService) Enable(ctx context.Context, id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var config models.DistributionConfig
		if err := tx.WithContext(ctx).Where("id = ?", id).First(&config).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrDistConfigNotFound
			}
			return err
		}

		if err := tx.WithContext(ctx).Model(&models.DistributionConfig{}).
			Where("status = ? AND id <> ?", models.DistributionConfigEnabled, id).
			Update("status", models.DistributionConfigDisabled).Error; err != nil {
			return err
		}

		return tx.WithContext(ctx).Model(&models.DistributionConfig{}).
			Where("id = ?", id).
			Update("status", models.DistributionConfigEnabled).Error
	})
}

// Disable 禁用配置
func (s *ConfigService) Disable(ctx context.Context, id string) error {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrDistConfigNotFound
		}
		return err
	}
	config.Status = models.DistributionConfigDisabled
	return s.configRepo.Update(ctx, config)
}

// Delete 删除配置，启用中的配置不可删除
func (s *ConfigService) Delete(ctx context.Context, id string) error {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrDistConfigNotFound
		}
		return err
	}

	if config.Status == models.DistributionConfigEnabled {
		return apperrors.ErrDistConfigEnabled
	}

	return s.configRepo.Delete(ctx, id)
}

// Get 获取配置
func (s *ConfigService) Get(ctx context.Context, id string) (*models.DistributionConfig, error) {
	config, err := s.configRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDistConfigNotFound
		}
		return nil, err
	}
	return config, nil
}

// GetEnabled 获取启用中的配置
func (s *ConfigService) GetEnabled(ctx context.Context) (*models.DistributionConfig, error) {
	config, err := s.configRepo.GetEnabled(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDistConfigNotFound
		}
		return nil, err
	}
	return config, nil
}

// List 获取配置列表
func (s *ConfigService) List(ctx context.Context, offset, limit int) ([]*models.DistributionConfig, int64, error) {
	return s.configRepo.List(ctx, offset, limit)
}
