package admin

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linchen2024/club-admin-backend/internal/common/response"
	"github.com/linchen2024/club-admin-backend/internal/models"
	"github.com/linchen2024/club-admin-backend/internal/service/distribution"
)

// DistributionHandler 分润管理处理器
type DistributionHandler struct {
	configService     *distribution.ConfigService
	profitService     *distribution.ProfitService
	settlementService *distribution.SettlementService
}

// NewDistributionHandler 创建分润管理处理器
func NewDistributionHandler(
	configService *distribution.ConfigService,
	profitService *distribution.ProfitService,
	settlementService *distribution.SettlementService,
) *DistributionHandler {
	return &DistributionHandler{
		configService:     configService,
		profitService:     profitService,
		settlementService: settlementService,
	}
}

// ConfigRequest 分润配置请求
type ConfigRequest struct {
	Name       string            `json:"name" binding:"required,max=100"`
	RoleShares models.RoleShares `json:"role_shares" binding:"required"`
}

// CreateConfig 创建分润配置
// @Summary 创建分润配置（初始为停用）
// @Tags 管理-分润
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body ConfigRequest true "配置参数"
// @Success 200 {object} response.Response{data=models.DistributionConfig}
// @Router /api/v1/admin/distribution/configs [post]
func (h *DistributionHandler) CreateConfig(c *gin.Context) {
	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	config, err := h.configService.Create(c.Request.Context(), req.Name, req.RoleShares)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, config)
}

// UpdateConfig 更新分润配置
// @Summary 更新分润配置
// @Tags 管理-分润
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "配置ID"
// @Param request body ConfigRequest true "配置参数"
// @Success 200 {object} response.Response{data=models.DistributionConfig}
// @Router /api/v1/admin/distribution/configs/{id} [put]
func (h *DistributionHandler) UpdateConfig(c *gin.Context) {
	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	config, err := h.configService.Update(c.Request.Context(), c.Param("id"), req.Name, req.RoleShares)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, config)
}

// ListConfigs 分润配置列表
// @Summary 分润配置列表
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/distribution/configs [get]
func (h *DistributionHandler) ListConfigs(c *gin.Context) {
	page, pageSize, offset := parsePage(c)

	configs, total, err := h.configService.List(c.Request.Context(), offset, pageSize)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessPage(c, configs, total, page, pageSize)
}

// GetConfig 分润配置详情
// @Summary 分润配置详情
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Param id path string true "配置ID"
// @Success 200 {object} response.Response{data=models.DistributionConfig}
// @Router /api/v1/admin/distribution/configs/{id} [get]
func (h *DistributionHandler) GetConfig(c *gin.Context) {
	config, err := h.configService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, config)
}

// GetEnabledConfig 当前启用的分润配置
// @Summary 当前启用的分润配置
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.DistributionConfig}
// @Router /api/v1/admin/distribution/configs/enabled [get]
func (h *DistributionHandler) GetEnabledConfig(c *gin.Context) {
	config, err := h.configService.GetEnabled(c.Request.Context())
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, config)
}

// EnableConfig 启用分润配置
// @Summary 启用分润配置（同时停用其它配置）
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Param id path string true "配置ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/distribution/configs/{id}/enable [post]
func (h *DistributionHandler) EnableConfig(c *gin.Context) {
	if err := h.configService.Enable(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// DisableConfig 停用分润配置
// @Summary 停用分润配置
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Param id path string true "配置ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/distribution/configs/{id}/disable [post]
func (h *DistributionHandler) DisableConfig(c *gin.Context) {
	if err := h.configService.Disable(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// DeleteConfig 删除分润配置
// @Summary 删除分润配置（启用中不可删除）
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Param id path string true "配置ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/distribution/configs/{id} [delete]
func (h *DistributionHandler) DeleteConfig(c *gin.Context) {
	if err := h.configService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// ListProfitRecords 分润总账列表
// @Summary 分润总账列表
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param order_no query string false "订单号模糊匹配"
// @Param entity_type query string false "类型: activity/membership_card"
// @Param entity_id query string false "活动或会员卡ID"
// @Param user_id query string false "下单用户ID"
// @Param status query int false "状态: 0冻结 1已结算 2已取消"
// @Param created_after query string false "创建时间下限 RFC3339"
// @Param created_before query string false "创建时间上限 RFC3339"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/distribution/profit-records [get]
func (h *DistributionHandler) ListProfitRecords(c *gin.Context) {
	page, pageSize, offset := parsePage(c)

	filters := make(map[string]interface{})
	if orderNo := c.Query("order_no"); orderNo != "" {
		filters["order_no"] = orderNo
	}
	if entityType := c.Query("entity_type"); entityType != "" {
		filters["entity_type"] = entityType
	}
	if entityID := c.Query("entity_id"); entityID != "" {
		filters["entity_id"] = entityID
	}
	if userID := c.Query("user_id"); userID != "" {
		filters["user_id"] = userID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, _ := strconv.Atoi(statusStr)
		filters["status"] = int8(status)
	}
	if createdAfter := c.Query("created_after"); createdAfter != "" {
		t, err := time.Parse(time.RFC3339, createdAfter)
		if err != nil {
			response.BadRequest(c, "无效的时间格式")
			return
		}
		filters["created_after"] = t
	}
	if createdBefore := c.Query("created_before"); createdBefore != "" {
		t, err := time.Parse(time.RFC3339, createdBefore)
		if err != nil {
			response.BadRequest(c, "无效的时间格式")
			return
		}
		filters["created_before"] = t
	}

	records, total, err := h.profitService.List(c.Request.Context(), offset, pageSize, filters)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessPage(c, records, total, page, pageSize)
}

// GetProfitRecord 分润总账详情
// @Summary 分润总账详情（含明细）
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Param id path string true "记录ID"
// @Success 200 {object} response.Response{data=models.ProfitRecord}
// @Router /api/v1/admin/distribution/profit-records/{id} [get]
func (h *DistributionHandler) GetProfitRecord(c *gin.Context) {
	record, err := h.profitService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, record)
}

// SettleProfitRecord 手工结算
// @Summary 手工结算单条冻结总账
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Param id path string true "记录ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/distribution/profit-records/{id}/settle [post]
func (h *DistributionHandler) SettleProfitRecord(c *gin.Context) {
	if err := h.settlementService.Settle(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// RunSettlement 立即执行结算扫描
// @Summary 立即执行结算扫描
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /api/v1/admin/distribution/settle [post]
func (h *DistributionHandler) RunSettlement(c *gin.Context) {
	settled, err := h.settlementService.RunSettlementSweep(c.Request.Context())
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, gin.H{"settled": settled})
}

// Statistics 分润统计
// @Summary 分润统计
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=models.ProfitStatistics}
// @Router /api/v1/admin/distribution/statistics [get]
func (h *DistributionHandler) Statistics(c *gin.Context) {
	stats, err := h.profitService.Statistics(c.Request.Context())
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, stats)
}

// ListBeneficiaryRecords 受益人分润明细
// @Summary 受益人分润明细
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Param user_id path string true "受益人用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param status query int false "状态: 0冻结 1已结算 2已取消"
// @Param role_code query string false "角色编码"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/distribution/beneficiaries/{user_id}/records [get]
func (h *DistributionHandler) ListBeneficiaryRecords(c *gin.Context) {
	page, pageSize, offset := parsePage(c)

	filters := make(map[string]interface{})
	if statusStr := c.Query("status"); statusStr != "" {
		status, _ := strconv.Atoi(statusStr)
		filters["status"] = int8(status)
	}
	if roleCode := c.Query("role_code"); roleCode != "" {
		filters["role_code"] = roleCode
	}

	records, total, err := h.profitService.ListRecordsByBeneficiary(c.Request.Context(), c.Param("user_id"), offset, pageSize, filters)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessPage(c, records, total, page, pageSize)
}

// GetBeneficiarySummary 受益人分润汇总
// @Summary 受益人分润汇总
// @Tags 管理-分润
// @Produce json
// @Security Bearer
// @Param user_id path string true "受益人用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/distribution/beneficiaries/{user_id}/summary [get]
func (h *DistributionHandler) GetBeneficiarySummary(c *gin.Context) {
	userID := c.Param("user_id")

	settled, err := h.profitService.SumSettledByBeneficiary(c.Request.Context(), userID)
	if err != nil {
		response.AppError(c, err)
		return
	}
	frozen, err := h.profitService.SumFrozenByBeneficiary(c.Request.Context(), userID)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, gin.H{
		"user_id":        userID,
		"settled_amount": settled,
		"frozen_amount":  frozen,
	})
}
