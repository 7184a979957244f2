package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linchen2024/club-admin-backend/internal/common/response"
	adminService "github.com/linchen2024/club-admin-backend/internal/service/admin"
)

// RoleHandler 角色管理处理器
type RoleHandler struct {
	roleService *adminService.RoleService
}

// NewRoleHandler 创建角色管理处理器
func NewRoleHandler(roleService *adminService.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// Create 创建角色
// @Summary 创建角色
// @Tags 管理-角色
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateRoleRequest true "角色参数"
// @Success 200 {object} response.Response{data=models.Role}
// @Router /api/v1/admin/roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req adminService.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	role, err := h.roleService.Create(c.Request.Context(), &req)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, role)
}

// List 角色列表
// @Summary 角色列表
// @Tags 管理-角色
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param name query string false "角色名模糊匹配"
// @Param category query string false "类别: referral/pool"
// @Param status query int false "状态: 0禁用 1正常"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	page, pageSize, offset := parsePage(c)

	filters := make(map[string]interface{})
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}
	if category := c.Query("category"); category != "" {
		filters["category"] = category
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, _ := strconv.Atoi(statusStr)
		filters["status"] = int8(status)
	}

	roles, total, err := h.roleService.List(c.Request.Context(), offset, pageSize, filters)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessPage(c, roles, total, page, pageSize)
}

// ListAll 全部角色
// @Summary 全部角色（下拉选择用）
// @Tags 管理-角色
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.Role}
// @Router /api/v1/admin/roles/all [get]
func (h *RoleHandler) ListAll(c *gin.Context) {
	roles, err := h.roleService.ListAll(c.Request.Context())
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, roles)
}

// Get 角色详情
// @Summary 角色详情
// @Tags 管理-角色
// @Produce json
// @Security Bearer
// @Param id path string true "角色ID"
// @Success 200 {object} response.Response{data=models.Role}
// @Router /api/v1/admin/roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, role)
}

// Update 更新角色
// @Summary 更新角色
// @Tags 管理-角色
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "角色ID"
// @Param request body adminService.UpdateRoleRequest true "更新参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	var req adminService.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.roleService.Update(c.Request.Context(), c.Param("id"), &req); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// Delete 删除角色
// @Summary 删除角色
// @Tags 管理-角色
// @Produce json
// @Security Bearer
// @Param id path string true "角色ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.roleService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// AssignMenusRequest 分配菜单请求
type AssignMenusRequest struct {
	MenuIDs []string `json:"menu_ids"`
}

// AssignMenus 分配菜单
// @Summary 分配菜单
// @Tags 管理-角色
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "角色ID"
// @Param request body AssignMenusRequest true "菜单参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/roles/{id}/menus [put]
func (h *RoleHandler) AssignMenus(c *gin.Context) {
	var req AssignMenusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.roleService.AssignMenus(c.Request.Context(), c.Param("id"), req.MenuIDs); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// GetMenus 角色菜单
// @Summary 角色已分配菜单
// @Tags 管理-角色
// @Produce json
// @Security Bearer
// @Param id path string true "角色ID"
// @Success 200 {object} response.Response{data=[]models.Menu}
// @Router /api/v1/admin/roles/{id}/menus [get]
func (h *RoleHandler) GetMenus(c *gin.Context) {
	menus, err := h.roleService.GetMenus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, menus)
}
