package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/linchen2024/club-admin-backend/internal/common/response"
	adminService "github.com/linchen2024/club-admin-backend/internal/service/admin"
)

// SystemHandler 系统配置处理器
type SystemHandler struct {
	configService *adminService.SystemConfigService
}

// NewSystemHandler 创建系统配置处理器
func NewSystemHandler(configService *adminService.SystemConfigService) *SystemHandler {
	return &SystemHandler{configService: configService}
}

// Upsert 写入配置
// @Summary 写入配置项（按 group+key 覆盖）
// @Tags 管理-系统配置
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.UpsertConfigRequest true "配置参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/configs [put]
func (h *SystemHandler) Upsert(c *gin.Context) {
	var req adminService.UpsertConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.configService.Upsert(c.Request.Context(), &req); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// ListByGroup 分组配置
// @Summary 查询分组下的配置
// @Tags 管理-系统配置
// @Produce json
// @Security Bearer
// @Param group path string true "配置分组"
// @Success 200 {object} response.Response{data=[]models.SystemConfig}
// @Router /api/v1/admin/configs/{group} [get]
func (h *SystemHandler) ListByGroup(c *gin.Context) {
	configs, err := h.configService.ListByGroup(c.Request.Context(), c.Param("group"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, configs)
}

// Get 配置详情
// @Summary 配置详情
// @Tags 管理-系统配置
// @Produce json
// @Security Bearer
// @Param group path string true "配置分组"
// @Param key path string true "配置键"
// @Success 200 {object} response.Response{data=models.SystemConfig}
// @Router /api/v1/admin/configs/{group}/{key} [get]
func (h *SystemHandler) Get(c *gin.Context) {
	config, err := h.configService.Get(c.Request.Context(), c.Param("group"), c.Param("key"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, config)
}

// Delete 删除配置
// @Summary 删除配置项
// @Tags 管理-系统配置
// @Produce json
// @Security Bearer
// @Param group path string true "配置分组"
// @Param key path string true "配置键"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/configs/{group}/{key} [delete]
func (h *SystemHandler) Delete(c *gin.Context) {
	if err := h.configService.Delete(c.Request.Context(), c.Param("group"), c.Param("key")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// ListPublic 公开配置
// @Summary 公开配置（免认证）
// @Tags 系统配置
// @Produce json
// @Success 200 {object} response.Response{data=[]models.SystemConfig}
// @Router /api/v1/configs/public [get]
func (h *SystemHandler) ListPublic(c *gin.Context) {
	configs, err := h.configService.ListPublic(c.Request.Context())
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, configs)
}
