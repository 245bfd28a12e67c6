package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/server/http/dto"
)

// ShopHandler manages shops, their menus and the merchant order board.
type ShopHandler struct {
	facade ShopFacade
}

// NewShopHandler constructs ShopHandler.
func NewShopHandler(facade ShopFacade) *ShopHandler {
	return &ShopHandler{facade: facade}
}

// Create handles POST /api/shops.
func (h *ShopHandler) Create(c *gin.Context) {
	var req dto.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed shop")
		return
	}

	shop, err := h.facade.CreateShop(c.Request.Context(), CurrentCaller(c), req.Name, req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ShopResponse{
		ID:        shop.ID,
		OwnerID:   shop.OwnerID,
		Name:      shop.Name,
		Phone:     shop.Phone,
		CreatedAt: shop.CreatedAt,
	})
}

// Menu handles GET /api/shops/:id/menu.
func (h *ShopHandler) Menu(c *gin.Context) {
	shopID, ok := pathID(c)
	if !ok {
		return
	}

	items, err := h.facade.Menu(c.Request.Context(), shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMenuResponse(items))
}

// ReplaceMenu handles PUT /api/shops/:id/menu.
func (h *ShopHandler) ReplaceMenu(c *gin.Context) {
	shopID, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.MenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed menu")
		return
	}

	items := make([]model.MenuItem, 0, len(req.Items))
	for _, it := range req.Items {
		available := true
		if it.Available != nil {
			available = *it.Available
		}
		items = append(items, model.MenuItem{Name: it.Name, Price: it.Price, Available: available})
	}

	stored, err := h.facade.ReplaceMenu(c.Request.Context(), CurrentCaller(c), shopID, items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMenuResponse(stored))
}

// Orders handles GET /api/shops/:id/orders.
func (h *ShopHandler) Orders(c *gin.Context) {
	shopID, ok := pathID(c)
	if !ok {
		return
	}

	orders, err := h.facade.ShopOrders(c.Request.Context(), CurrentCaller(c), shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

func toMenuResponse(items []model.MenuItem) []dto.MenuItemResponse {
	response := make([]dto.MenuItemResponse, 0, len(items))
	for _, it := range items {
		response = append(response, dto.MenuItemResponse{ID: it.ID, Name: it.Name, Price: it.Price, Available: it.Available})
	}
	return response
}
