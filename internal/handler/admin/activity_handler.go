package admin

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linchen2024/club-admin-backend/internal/common/response"
	adminService "github.com/linchen2024/club-admin-backend/internal/service/admin"
)

// ActivityHandler 活动管理处理器
type ActivityHandler struct {
	activityService *adminService.ActivityService
}

// NewActivityHandler 创建活动管理处理器
func NewActivityHandler(activityService *adminService.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// Create 创建活动
// @Summary 创建活动
// @Tags 管理-活动
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateActivityRequest true "活动参数"
// @Success 200 {object} response.Response{data=models.Activity}
// @Router /api/v1/admin/activities [post]
func (h *ActivityHandler) Create(c *gin.Context) {
	var req adminService.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	activity, err := h.activityService.Create(c.Request.Context(), &req)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, activity)
}

// List 活动列表
// @Summary 活动列表
// @Tags 管理-活动
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param name query string false "名称模糊匹配"
// @Param status query int false "状态: 0草稿 1已发布 2已关闭"
// @Param start_after query string false "开始时间下限 RFC3339"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	page, pageSize, offset := parsePage(c)

	filters := make(map[string]interface{})
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, _ := strconv.Atoi(statusStr)
		filters["status"] = int8(status)
	}
	if startAfter := c.Query("start_after"); startAfter != "" {
		t, err := time.Parse(time.RFC3339, startAfter)
		if err != nil {
			response.BadRequest(c, "无效的时间格式")
			return
		}
		filters["start_after"] = t
	}

	activities, total, err := h.activityService.List(c.Request.Context(), offset, pageSize, filters)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessPage(c, activities, total, page, pageSize)
}

// Get 活动详情
// @Summary 活动详情
// @Tags 管理-活动
// @Produce json
// @Security Bearer
// @Param id path string true "活动ID"
// @Success 200 {object} response.Response{data=models.Activity}
// @Router /api/v1/admin/activities/{id} [get]
func (h *ActivityHandler) Get(c *gin.Context) {
	activity, err := h.activityService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, activity)
}

// Update 更新活动
// @Summary 更新活动
// @Tags 管理-活动
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "活动ID"
// @Param request body adminService.UpdateActivityRequest true "更新参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/activities/{id} [put]
func (h *ActivityHandler) Update(c *gin.Context) {
	var req adminService.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.activityService.Update(c.Request.Context(), c.Param("id"), &req); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// Publish 发布活动
// @Summary 发布活动
// @Tags 管理-活动
// @Produce json
// @Security Bearer
// @Param id path string true "活动ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/activities/{id}/publish [post]
func (h *ActivityHandler) Publish(c *gin.Context) {
	if err := h.activityService.Publish(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// Close 关闭活动
// @Summary 关闭活动
// @Tags 管理-活动
// @Produce json
// @Security Bearer
// @Param id path string true "活动ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/activities/{id}/close [post]
func (h *ActivityHandler) Close(c *gin.Context) {
	if err := h.activityService.Close(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// Delete 删除活动
// @Summary 删除活动
// @Tags 管理-活动
// @Produce json
// @Security Bearer
// @Param id path string true "活动ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/activities/{id} [delete]
func (h *ActivityHandler) Delete(c *gin.Context) {
	if err := h.activityService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}
