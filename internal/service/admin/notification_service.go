package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/linchen2024/club-admin-backend/internal/common/errors"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/repository"
)

// NotificationService 通知服务
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
}

// NewNotificationService 创建通知服务
func NewNotificationService(notificationRepo *repository.NotificationRepository, userRepo *repository.UserRepository) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// SendNotificationRequest 发送通知请求
// UserID 为空表示全员广播
type SendNotificationRequest struct {
	UserID  *string `json:"user_id,omitempty"`
	Type    string  `json:"type" binding:"required,oneof=system order activity"`
	Title   string  `json:"title" binding:"required,max=100"`
	Content string  `json:"content" binding:"required"`
}

// Send 发送站内通知
func (s *NotificationService) Send(ctx context.Context, req *SendNotificationRequest) (*models.Notification, error) {
	if req.UserID != nil {
		if _, err := s.userRepo.GetByID(ctx, *req.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
	}

	notification := &models.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return notification, nil
}

// ListForUser 查询用户可见的通知（含广播）
func (s *NotificationService) ListForUser(ctx context.Context, userID string, offset, limit int) ([]*models.Notification, int64, error) {
	notifications, total, err := s.notificationRepo.ListForUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return notifications, total, nil
}

// MarkRead 标记通知为已读
// 定向通知仅收件人可标记
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	notification, err := s.getNotification(ctx, id)
	if err != nil {
		return err
	}
	if notification.UserID != nil && *notification.UserID != userID {
		return apperrors.ErrPermissionDenied
	}
	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// CountUnread 统计用户未读通知数
func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.ErrDatabaseError.WithError(err)
	}
	return count, nil
}

// Delete 删除通知
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if _, err := s.getNotification(ctx, id); err != nil {
		return err
	}
	if err := s.notificationRepo.Delete(ctx, id); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// getNotification 按 ID 获取通知
func (s *NotificationService) getNotification(ctx context.Context, id string) (*models.Notification, error) {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return notification, nil
}
