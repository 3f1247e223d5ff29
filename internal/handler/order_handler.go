package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/wcf/internal/logic"
	"github.com/blues/wcf/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderHandler struct {
	orderLogic      *logic.OrderLogic
	contributeLogic *logic.ContributeLogic
}

func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{
		orderLogic:      logic.NewOrderLogic(db),
		contributeLogic: logic.NewContributeLogic(db),
	}
}

type orderItemRequest struct {
	ProjectId int64  `json:"project_id"`
	LevelId   int64  `json:"level_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Total     int64  `json:"total" binding:"required"`
}

type createOrderRequest struct {
	OrderNumber      string             `json:"order_number"`
	BillingFirstName string             `json:"billing_first_name"`
	BillingLastName  string             `json:"billing_last_name"`
	PublishDonator   bool               `json:"publish_donator"`
	PublishAmount    bool               `json:"publish_amount"`
	Items            []orderItemRequest `json:"items" binding:"required"`
}

// CreateOrder 结账创建订单
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	order := model.OrderModel{
		OrderNumber:      req.OrderNumber,
		BillingFirstName: req.BillingFirstName,
		BillingLastName:  req.BillingLastName,
		PublishDonator:   req.PublishDonator,
		PublishAmount:    req.PublishAmount,
	}

	items := make([]model.OrderItemModel, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.OrderItemModel{
			ProjectId: item.ProjectId,
			LevelId:   item.LevelId,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Total:     item.Total,
		}
	}

	if err := h.orderLogic.CreateOrder(&order, items); err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "订单创建成功",
		"order":   order,
		"items":   items,
	})
}

// GetOrders 获取订单列表，可按项目过滤
func (h *OrderHandler) GetOrders(c *gin.Context) {
	projectId, _ := strconv.ParseInt(c.DefaultQuery("project_id", "0"), 10, 64)
	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	orders, total, err := h.orderLogic.GetOrders(projectId, status, page, pageSize)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":    orders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetOrder 获取订单详情
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的订单ID")
		return
	}

	order, items, err := h.orderLogic.GetOrder(id)
	if err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
		"items": items,
	})
}

// CompleteOrder 完成订单并记入项目账本
func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的订单ID")
		return
	}

	if err := h.contributeLogic.CompleteOrder(id); err != nil {
		handleLogicError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "订单已完成"})
}
