package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/linchen2024/club-admin-backend/internal/common/response"
	"github.com/linchen2024/club-admin-backend/internal/middleware"
	adminService "github.com/linchen2024/club-admin-backend/internal/service/admin"
)

// NotificationHandler 通知处理器
type NotificationHandler struct {
	notificationService *adminService.NotificationService
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(notificationService *adminService.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Send 发送通知
// @Summary 发送站内通知（user_id 为空时广播）
// @Tags 管理-通知
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.SendNotificationRequest true "通知参数"
// @Success 200 {object} response.Response{data=models.Notification}
// @Router /api/v1/admin/notifications [post]
func (h *NotificationHandler) Send(c *gin.Context) {
	var req adminService.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	notification, err := h.notificationService.Send(c.Request.Context(), &req)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, notification)
}

// ListMine 当前用户可见的通知
// @Summary 当前用户可见的通知（含广播）
// @Tags 管理-通知
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/notifications [get]
func (h *NotificationHandler) ListMine(c *gin.Context) {
	page, pageSize, offset := parsePage(c)

	notifications, total, err := h.notificationService.ListForUser(c.Request.Context(), middleware.GetUserID(c), offset, pageSize)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessPage(c, notifications, total, page, pageSize)
}

// MarkRead 标记已读
// @Summary 标记通知已读
// @Tags 管理-通知
// @Produce json
// @Security Bearer
// @Param id path string true "通知ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationService.MarkRead(c.Request.Context(), c.Param("id"), middleware.GetUserID(c)); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// UnreadCount 未读数
// @Summary 当前用户未读通知数
// @Tags 管理-通知
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=int64}
// @Router /api/v1/admin/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.CountUnread(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, gin.H{"count": count})
}

// Delete 删除通知
// @Summary 删除通知
// @Tags 管理-通知
// @Produce json
// @Security Bearer
// @Param id path string true "通知ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.notificationService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}
