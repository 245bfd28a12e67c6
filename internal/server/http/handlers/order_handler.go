package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed order")
		return
	}

	in := model.NewOrder{
		ShopID:       req.ShopID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		Items:        make([]model.RequestedItem, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, model.RequestedItem{ItemID: it.ItemID, Name: it.Name, Qty: it.Qty, Price: it.Price})
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatusResponse(*order))
}

// Transition handles PATCH /api/orders/:id/status.
func (h *OrderHandler) Transition(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		badRequest(c, "status is required")
		return
	}

	order, err := h.facade.TransitionOrder(c.Request.Context(), CurrentCaller(c), c.Param("id"), model.OrderStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// History handles GET /api/orders/:id/history.
func (h *OrderHandler) History(c *gin.Context) {
	changes, err := h.facade.OrderHistory(c.Request.Context(), CurrentCaller(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.StatusChangeResponse, 0, len(changes))
	for _, ch := range changes {
		response = append(response, dto.StatusChangeResponse{
			From:      string(ch.From),
			To:        string(ch.To),
			ChangedBy: ch.ChangedBy,
			ChangedAt: ch.ChangedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

func toStatusResponse(order model.Order) dto.OrderStatusResponse {
	items := make([]dto.LineItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, dto.LineItem{MenuItemID: it.MenuItemID, Name: it.Name, Qty: it.Qty, UnitPrice: it.UnitPrice})
	}
	return dto.OrderStatusResponse{
		ID:             order.ID,
		SequenceNumber: order.SequenceNumber,
		ShopID:         order.ShopID,
		Status:         string(order.Status),
		Items:          items,
		Total:          order.Total,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		OrderStatusResponse: toStatusResponse(order),
		CustomerName:        order.CustomerName,
		Phone:               order.Phone,
		Address:             order.Address,
	}
}
