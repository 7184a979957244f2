package admin

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linchen2024/club-admin-backend/internal/common/response"
	orderService "github.com/linchen2024/club-admin-backend/internal/service/order"
)

// OrderHandler 订单管理处理器
type OrderHandler struct {
	orderService *orderService.OrderService
}

// NewOrderHandler 创建订单管理处理器
func NewOrderHandler(orderSvc *orderService.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderSvc}
}

// Create 代客下单
// @Summary 代客下单
// @Tags 管理-订单
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body orderService.CreateRequest true "订单参数"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /api/v1/admin/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderService.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), &req)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, order)
}

// List 订单列表
// @Summary 订单列表
// @Tags 管理-订单
// @Produce json
// @Security Bearer
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Param order_no query string false "订单号"
// @Param user_id query string false "用户ID"
// @Param entity_type query string false "类型: activity/membership_card"
// @Param entity_id query string false "活动或会员卡ID"
// @Param status query int false "状态: 0待支付 1已支付 2已完成 3已取消 4已退款"
// @Param created_after query string false "创建时间下限 RFC3339"
// @Param created_before query string false "创建时间上限 RFC3339"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize, offset := parsePage(c)

	filters := make(map[string]interface{})
	if orderNo := c.Query("order_no"); orderNo != "" {
		filters["order_no"] = orderNo
	}
	if userID := c.Query("user_id"); userID != "" {
		filters["user_id"] = userID
	}
	if entityType := c.Query("entity_type"); entityType != "" {
		filters["entity_type"] = entityType
	}
	if entityID := c.Query("entity_id"); entityID != "" {
		filters["entity_id"] = entityID
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

	orders, total, err := h.orderService.List(c.Request.Context(), offset, pageSize, filters)
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.SuccessPage(c, orders, total, page, pageSize)
}

// Get 订单详情
// @Summary 订单详情
// @Tags 管理-订单
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /api/v1/admin/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, order)
}

// GetByOrderNo 按订单号查询订单
// @Summary 按订单号查询订单
// @Tags 管理-订单
// @Produce json
// @Security Bearer
// @Param order_no path string true "订单号"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /api/v1/admin/orders/by-no/{order_no} [get]
func (h *OrderHandler) GetByOrderNo(c *gin.Context) {
	order, err := h.orderService.GetByOrderNo(c.Request.Context(), c.Param("order_no"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, order)
}

// MarkPaid 标记支付成功
// @Summary 标记支付成功
// @Tags 管理-订单
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=models.Order}
// @Router /api/v1/admin/orders/{id}/pay [post]
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	order, err := h.orderService.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, order)
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// Cancel 取消订单
// @Summary 取消待支付订单
// @Tags 管理-订单
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Param request body CancelOrderRequest false "取消原因"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	if err := h.orderService.Cancel(c.Request.Context(), c.Param("id"), reason); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}

// Refund 订单退款
// @Summary 订单退款并取消分润
// @Tags 管理-订单
// @Produce json
// @Security Bearer
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response
// @Router /api/v1/admin/orders/{id}/refund [post]
func (h *OrderHandler) Refund(c *gin.Context) {
	if err := h.orderService.Refund(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err)
		return
	}

	response.Success(c, nil)
}
