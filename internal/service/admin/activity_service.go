package admin

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// ActivityService 活动管理服务
type ActivityService struct {
	activityRepo *repository.ActivityRepository
}

// NewActivityService 创建活动管理服务
func NewActivityService(activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// CreateActivityRequest 创建活动请求
type CreateActivityRequest struct {
	Name      string    `json:"name" binding:"required,max=100"`
	Cover     *string   `json:"cover,omitempty"`
	Content   string    `json:"content"`
	Address   *string   `json:"address,omitempty"`
	Price     float64   `json:"price" binding:"gte=0"`
	Capacity  int       `json:"capacity" binding:"gte=0"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

// Create 创建活动，初始为草稿状态
func (s *ActivityService) Create(ctx context.Context, req *CreateActivityRequest) (*models.Activity, error) {
	if err := validateActivityTime(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	activity := &models.Activity{
		Name:      req.Name,
		Cover:     req.Cover,
		Content:   req.Content,
		Address:   req.Address,
		Price:     req.Price,
		Capacity:  req.Capacity,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    models.ActivityStatusDraft,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return activity, nil
}

// UpdateActivityRequest 更新活动请求
type UpdateActivityRequest struct {
	Name      *string    `json:"name,omitempty"`
	Cover     *string    `json:"cover,omitempty"`
	Content   *string    `json:"content,omitempty"`
	Address   *string    `json:"address,omitempty"`
	Price     *float64   `json:"price,omitempty"`
	Capacity  *int       `json:"capacity,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// Update 更新活动
func (s *ActivityService) Update(ctx context.Context, id string, req *UpdateActivityRequest) error {
	activity, err := s.getActivity(ctx, id)
	if err != nil {
		return err
	}

	if req.Name != nil {
		activity.Name = *req.Name
	}
	if req.Cover != nil {
		activity.Cover = req.Cover
	}
	if req.Content != nil {
		activity.Content = *req.Content
	}
	if req.Address != nil {
		activity.Address = req.Address
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return apperrors.ErrInvalidParams.WithMessage("价格不能为负数")
		}
		activity.Price = *req.Price
	}
	if req.Capacity != nil {
		if *req.Capacity != 0 && *req.Capacity < activity.Enrolled {
			return apperrors.ErrInvalidParams.WithMessage("容量不能小于已报名人数")
		}
		activity.Capacity = *req.Capacity
	}
	if req.StartTime != nil {
		activity.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		activity.EndTime = *req.EndTime
	}
	if err := validateActivityTime(activity.StartTime, activity.EndTime); err != nil {
		return err
	}

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Publish 发布活动
func (s *ActivityService) Publish(ctx context.Context, id string) error {
	activity, err := s.getActivity(ctx, id)
	if err != nil {
		return err
	}
	if activity.Status == models.ActivityStatusPublished {
		return nil
	}
	if !time.Now().Before(activity.EndTime) {
		return apperrors.ErrActivityTimeError.WithMessage("活动已结束，无法发布")
	}
	if err := s.activityRepo.UpdateStatus(ctx, id, models.ActivityStatusPublished); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Close 关闭活动，停止报名
func (s *ActivityService) Close(ctx context.Context, id string) error {
	if _, err := s.getActivity(ctx, id); err != nil {
		return err
	}
	if err := s.activityRepo.UpdateStatus(ctx, id, models.ActivityStatusClosed); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Delete 删除活动，已有报名时拒绝
func (s *ActivityService) Delete(ctx context.Context, id string) error {
	activity, err := s.getActivity(ctx, id)
	if err != nil {
		return err
	}
	if activity.Enrolled > 0 {
		return apperrors.ErrOperationFailed.WithMessage("活动已有报名，无法删除")
	}
	if err := s.activityRepo.Delete(ctx, id); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// Get 获取活动详情
func (s *ActivityService) Get(ctx context.Context, id string) (*models.Activity, error) {
	return s.getActivity(ctx, id)
}

// List 分页查询活动
func (s *ActivityService) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Activity, int64, error) {
	activities, total, err := s.activityRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return activities, total, nil
}

// getActivity 按 ID 获取活动
func (s *ActivityService) getActivity(ctx context.Context, id string) (*models.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrActivityNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return activity, nil
}

// validateActivityTime 校验活动时间
func validateActivityTime(start, end time.Time) error {
	if !start.Before(end) {
		return apperrors.ErrActivityTimeError
	}
	return nil
}
