package admin

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/common/logger"
	"github.com/linchen2024/club-admin-backend/internal/common/utils"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// SystemConfigService 系统配置服务
type SystemConfigService struct {
	configRepo *repository.SystemConfigRepository
}

// NewSystemConfigService 创建系统配置服务
func NewSystemConfigService(configRepo *repository.SystemConfigRepository) *SystemConfigService {
	return &SystemConfigService{configRepo: configRepo}
}

// UpsertConfigRequest 写入配置请求
type UpsertConfigRequest struct {
	Group       string  `json:"group" binding:"required,max=50"`
	Key         string  `json:"key" binding:"required,max=100"`
	Value       string  `json:"value" binding:"required"`
	Type        string  `json:"type" binding:"required,oneof=string number boolean json"`
	Description *string `json:"description,omitempty"`
	IsPublic    bool    `json:"is_public"`
}

// Upsert 写入配置，按 group+key 覆盖
func (s *SystemConfigService) Upsert(ctx context.Context, req *UpsertConfigRequest) error {
	if err := validateConfigValue(req.Type, req.Value); err != nil {
		return err
	}

	config := &models.SystemConfig{
		Group:       req.Group,
		Key:         req.Key,
		Value:       req.Value,
		Type:        req.Type,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}
	if err := s.configRepo.Upsert(ctx, config); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Get 获取配置项
func (s *SystemConfigService) Get(ctx context.Context, group, key string) (*models.SystemConfig, error) {
	config, err := s.configRepo.Get(ctx, group, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrConfigNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return config, nil
}

// ListByGroup 查询分组下的全部配置
func (s *SystemConfigService) ListByGroup(ctx context.Context, group string) ([]*models.SystemConfig, error) {
	configs, err := s.configRepo.ListByGroup(ctx, group)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return configs, nil
}

// ListPublic 查询公开配置，前端启动时拉取
func (s *SystemConfigService) ListPublic(ctx context.Context) ([]*models.SystemConfig, error) {
	configs, err := s.configRepo.ListPublic(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return configs, nil
}

// Delete 删除配置项
func (s *SystemConfigService) Delete(ctx context.Context, group, key string) error {
	if _, err := s.Get(ctx, group, key); err != nil {
		return err
	}
	if err := s.configRepo.Delete(ctx, group, key); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// SeedDefaults 写入缺失的默认配置，已有值不覆盖
func (s *SystemConfigService) SeedDefaults(ctx context.Context) error {
	defaults := []*models.SystemConfig{
		{
			Group:       models.ConfigGroupDistribution,
			Key:         models.ConfigKeyRefundDeadlineHours,
			Value:       strconv.FormatFloat(models.DefaultRefundDeadlineHours, 'f', -1, 64),
			Type:        models.ConfigTypeNumber,
			Description: utils.StringPtr("活动开始前停止退款的小时数"),
		},
		{
			Group:       models.ConfigGroupDistribution,
			Key:         models.ConfigKeyAutoSettleHours,
			Value:       strconv.FormatFloat(models.DefaultAutoSettleHours, 'f', -1, 64),
			Type:        models.ConfigTypeNumber,
			Description: utils.StringPtr("非活动订单创建后自动结算的小时数"),
		},
	}

	for _, config := range defaults {
		_, err := s.configRepo.Get(ctx, config.Group, config.Key)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrDatabaseError.WithError(err)
		}
		if err := s.configRepo.Upsert(ctx, config); err != nil {
			return apperrors.ErrDatabaseError.WithError(err)
		}
		logger.Info("写入默认系统配置",
			zap.String("group", config.Group),
			zap.String("key", config.Key),
			zap.String("value", config.Value))
	}
	return nil
}

// validateConfigValue 按类型校验配置值
func validateConfigValue(valueType, value string) error {
	switch valueType {
	case models.ConfigTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return apperrors.ErrConfigValueType.WithMessage("配置值不是合法数字")
		}
	case models.ConfigTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return apperrors.ErrConfigValueType.WithMessage("配置值不是合法布尔值")
		}
	case models.ConfigTypeJSON:
		if !json.Valid([]byte(value)) {
			return apperrors.ErrConfigValueType.WithMessage("配置值不是合法 JSON")
		}
	}
	return nil
}
