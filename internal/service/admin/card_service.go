package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// CardService 会员卡管理服务
type CardService struct {
	cardRepo *repository.MembershipCardRepository
}

// NewCardService 创建会员卡管理服务
func NewCardService(cardRepo *repository.MembershipCardRepository) *CardService {
	return &CardService{cardRepo: cardRepo}
}

// CreateCardRequest 创建会员卡请求
type CreateCardRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	Price        float64 `json:"price" binding:"gte=0"`
	DurationDays int     `json:"duration_days" binding:"gt=0"`
	Description  *string `json:"description,omitempty"`
}

// Create 创建会员卡，默认在售
func (s *CardService) Create(ctx context.Context, req *CreateCardRequest) (*models.MembershipCard, error) {
	card := &models.MembershipCard{
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Description:  req.Description,
		Status:       models.MembershipCardStatusOnSale,
	}
	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return card, nil
}

// UpdateCardRequest 更新会员卡请求
type UpdateCardRequest struct {
	Name         *string  `json:"name,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	DurationDays *int     `json:"duration_days,omitempty"`
	Description  *string  `json:"description,omitempty"`
}

// Update 更新会员卡
func (s *CardService) Update(ctx context.Context, id string, req *UpdateCardRequest) error {
	card, err := s.getCard(ctx, id)
	if err != nil {
		return err
	}

	if req.Name != nil {
		card.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return apperrors.ErrInvalidParams.WithMessage("价格不能为负数")
		}
		card.Price = *req.Price
	}
	if req.DurationDays != nil {
		if *req.DurationDays <= 0 {
			return apperrors.ErrInvalidParams.WithMessage("有效期必须大于 0")
		}
		card.DurationDays = *req.DurationDays
	}
	if req.Description != nil {
		card.Description = req.Description
	}

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// OnShelf 上架会员卡
func (s *CardService) OnShelf(ctx context.Context, id string) error {
	return s.updateStatus(ctx, id, models.MembershipCardStatusOnSale)
}

// OffShelf 下架会员卡
func (s *CardService) OffShelf(ctx context.Context, id string) error {
	return s.updateStatus(ctx, id, models.MembershipCardStatusOffShelf)
}

// Delete 删除会员卡
func (s *CardService) Delete(ctx context.Context, id string) error {
	if _, err := s.getCard(ctx, id); err != nil {
		return err
	}
	if err := s.cardRepo.Delete(ctx, id); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Get 获取会员卡详情
func (s *CardService) Get(ctx context.Context, id string) (*models.MembershipCard, error) {
	return s.getCard(ctx, id)
}

// List 分页查询会员卡
func (s *CardService) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.MembershipCard, int64, error) {
	cards, total, err := s.cardRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return cards, total, nil
}

// updateStatus 更新会员卡状态
func (s *CardService) updateStatus(ctx context.Context, id string, status int8) error {
	if _, err := s.getCard(ctx, id); err != nil {
		return err
	}
	if err := s.cardRepo.UpdateStatus(ctx, id, status); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// getCard 按 ID 获取会员卡
func (s *CardService) getCard(ctx context.Context, id string) (*models.MembershipCard, error) {
	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCardNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return card, nil
}
