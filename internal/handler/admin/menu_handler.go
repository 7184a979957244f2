package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/linchen2024/club-admin-backend/internal/common/response"
	adminService "github.com/linchen2024/club-admin-backend/internal/service/admin"
)

// MenuHandler 菜单管理处理器
type MenuHandler struct {
	menuService *adminService.MenuService
}

// NewMenuHandler 创建菜单管理处理器
func NewMenuHandler(menuService *adminService.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// Create 创建菜单
// @Summary 创建菜单
// @Tags 管理-菜单
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateMenuRequest true "菜单参数"
// @Success 200 {object} response.Response{data=models.Menu}
// @Router /api/v1/admin/menus [post]
func (h *MenuHandler) Create(c *gin.Context) {
	var req adminService.CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	menu, err := h.menuService.Create(c.Request.Context(), &req)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, menu)
}

// Tree 菜单树
// @Summary 完整菜单树
// @Tags 管理-菜单
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]models.Menu}
// @Router /api/v1/admin/menus/tree [get]
func (h *MenuHandler) Tree(c *gin.Context) {
	tree, err := h.menuService.Tree(c.Request.Context())
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, tree)
}

// Get 菜单详情
// @Summary 菜单详情
// @Tags 管理-菜单
// @Produce json
// @Security Bearer
// @Param id path string true "菜单ID"
// @Success 200 {object} response.Response{data=models.Menu}
// @Router /api/v1/admin/menus/{id} [get]
func (h *MenuHandler) Get(c *gin.Context) {
	menu, err := h.menuService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, menu)
}

// Update 更新菜单
// @Summary 更新菜单
// @Tags 管理-菜单
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "菜单ID"
// @Param request body adminService.UpdateMenuRequest true "更新参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/menus/{id} [put]
func (h *MenuHandler) Update(c *gin.Context) {
	var req adminService.UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.menuService.Update(c.Request.Context(), c.Param("id"), &req); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// Delete 删除菜单
// @Summary 删除菜单
// @Tags 管理-菜单
// @Produce json
// @Security Bearer
// @Param id path string true "菜单ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/menus/{id} [delete]
func (h *MenuHandler) Delete(c *gin.Context) {
	if err := h.menuService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}
