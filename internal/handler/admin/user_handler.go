package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linchen2024/club-admin-backend/internal/common/response"
	adminService "github.com/linchen2024/club-admin-backend/internal/service/admin"
)

// UserHandler 用户管理处理器
type UserHandler struct {
	userService *adminService.UserService
}

// NewUserHandler 创建用户管理处理器
func NewUserHandler(userService *adminService.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create 创建用户
// @Summary 创建用户
// @Tags 管理-用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateUserRequest true "用户参数"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req adminService.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, user)
}

// List 用户列表
// @Summary 用户列表
// @Tags 管理-用户
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param username query string false "用户名模糊匹配"
// @Param phone query string false "手机号"
// @Param status query int false "状态: 0禁用 1正常"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	page, pageSize, offset := parsePage(c)

	filters := make(map[string]interface{})
	if username := c.Query("username"); username != "" {
		filters["username"] = username
	}
	if phone := c.Query("phone"); phone != "" {
		filters["phone"] = phone
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, _ := strconv.Atoi(statusStr)
		filters["status"] = int8(status)
	}

	users, total, err := h.userService.List(c.Request.Context(), offset, pageSize, filters)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessPage(c, users, total, page, pageSize)
}

// Get 用户详情
// @Summary 用户详情
// @Tags 管理-用户
// @Produce json
// @Security Bearer
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=models.User}
// @Router /api/v1/admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, user)
}

// Update 更新用户资料
// @Summary 更新用户资料
// @Tags 管理-用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "用户ID"
// @Param request body adminService.UpdateUserRequest true "更新参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req adminService.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.userService.Update(c.Request.Context(), c.Param("id"), &req); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// UpdateStatusRequest 更新状态请求
type UpdateStatusRequest struct {
	Status int8 `json:"status"`
}

// UpdateStatus 启用或禁用用户
// @Summary 启用或禁用用户
// @Tags 管理-用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "用户ID"
// @Param request body UpdateStatusRequest true "状态参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/users/{id}/status [put]
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.userService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6,max=32"`
}

// ResetPassword 重置用户密码
// @Summary 重置用户密码
// @Tags 管理-用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "用户ID"
// @Param request body ResetPasswordRequest true "密码参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/users/{id}/password [put]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), c.Param("id"), req.Password); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// AssignRolesRequest 分配角色请求
type AssignRolesRequest struct {
	RoleIDs []string `json:"role_ids"`
}

// AssignRoles 分配角色
// @Summary 分配角色
// @Tags 管理-用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "用户ID"
// @Param request body AssignRolesRequest true "角色参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/users/{id}/roles [put]
func (h *UserHandler) AssignRoles(c *gin.Context) {
	var req AssignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.userService.AssignRoles(c.Request.Context(), c.Param("id"), req.RoleIDs); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// Delete 删除用户
// @Summary 删除用户
// @Tags 管理-用户
// @Produce json
// @Security Bearer
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// ListReferrals 用户邀请的下级列表
// @Summary 用户邀请的下级列表
// @Tags 管理-用户
// @Produce json
// @Security Bearer
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/users/{id}/referrals [get]
func (h *UserHandler) ListReferrals(c *gin.Context) {
	page, pageSize, offset := parsePage(c)

	referrals, total, err := h.userService.ListReferrals(c.Request.Context(), c.Param("id"), offset, pageSize)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessPage(c, referrals, total, page, pageSize)
}
