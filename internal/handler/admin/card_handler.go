package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linchen2024/club-admin-backend/internal/common/response"
	adminService "github.com/linchen2024/club-admin-backend/internal/service/admin"
)

// CardHandler 会员卡管理处理器
type CardHandler struct {
	cardService *adminService.CardService
}

// NewCardHandler 创建会员卡管理处理器
func NewCardHandler(cardService *adminService.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// Create 创建会员卡
// @Summary 创建会员卡
// @Tags 管理-会员卡
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.CreateCardRequest true "会员卡参数"
// @Success 200 {object} response.Response{data=models.MembershipCard}
// @Router /api/v1/admin/cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	var req adminService.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	card, err := h.cardService.Create(c.Request.Context(), &req)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, card)
}

// List 会员卡列表
// @Summary 会员卡列表
// @Tags 管理-会员卡
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param name query string false "名称模糊匹配"
// @Param status query int false "状态: 0下架 1在售"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/cards [get]
func (h *CardHandler) List(c *gin.Context) {
	page, pageSize, offset := parsePage(c)

	filters := make(map[string]interface{})
	if name := c.Query("name"); name != "" {
		filters["name"] = name
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, _ := strconv.Atoi(statusStr)
		filters["status"] = int8(status)
	}

	cards, total, err := h.cardService.List(c.Request.Context(), offset, pageSize, filters)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessPage(c, cards, total, page, pageSize)
}

// Get 会员卡详情
// @Summary 会员卡详情
// @Tags 管理-会员卡
// @Produce json
// @Security Bearer
// @Param id path string true "会员卡ID"
// @Success 200 {object} response.Response{data=models.MembershipCard}
// @Router /api/v1/admin/cards/{id} [get]
func (h *CardHandler) Get(c *gin.Context) {
	card, err := h.cardService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, card)
}

// Update 更新会员卡
// @Summary 更新会员卡
// @Tags 管理-会员卡
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "会员卡ID"
// @Param request body adminService.UpdateCardRequest true "更新参数"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/cards/{id} [put]
func (h *CardHandler) Update(c *gin.Context) {
	var req adminService.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.cardService.Update(c.Request.Context(), c.Param("id"), &req); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// OnShelf 上架会员卡
// @Summary 上架会员卡
// @Tags 管理-会员卡
// @Produce json
// @Security Bearer
// @Param id path string true "会员卡ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/cards/{id}/on-shelf [post]
func (h *CardHandler) OnShelf(c *gin.Context) {
	if err := h.cardService.OnShelf(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// OffShelf 下架会员卡
// @Summary 下架会员卡
// @Tags 管理-会员卡
// @Produce json
// @Security Bearer
// @Param id path string true "会员卡ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/cards/{id}/off-shelf [post]
func (h *CardHandler) OffShelf(c *gin.Context) {
	if err := h.cardService.OffShelf(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// Delete 删除会员卡
// @Summary 删除会员卡
// @Tags 管理-会员卡
// @Produce json
// @Security Bearer
// @Param id path string true "会员卡ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/cards/{id} [delete]
func (h *CardHandler) Delete(c *gin.Context) {
	if err := h.cardService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}
