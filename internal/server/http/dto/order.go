package dto

import "time"

// OrderItemRequest references a menu item by id or name.
type OrderItemRequest struct {
	ItemID int64  `json:"item_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Qty    int64  `json:"qty"`
	Price  int64  `json:"price,omitempty"`
}

// CreateOrderRequest is the payload of POST /api/orders.
type CreateOrderRequest struct {
	ShopID       int64              `json:"shop_id"`
	CustomerName string             `json:"customer_name"`
	Phone        string             `json:"phone"`
	Address      string             `json:"address,omitempty"`
	Items        []OrderItemRequest `json:"items"`
}

// LineItem is a priced order entry.
type LineItem struct {
	MenuItemID int64  `json:"menu_item_id,omitempty"`
	Name       string `json:"name"`
	Qty        int64  `json:"qty"`
	UnitPrice  int64  `json:"unit_price"`
}

// OrderStatusResponse is the public projection of an order. It carries no
// customer contact data.
type OrderStatusResponse struct {
	ID             string     `json:"id"`
	SequenceNumber int64      `json:"sequence_number"`
	ShopID         int64      `json:"shop_id"`
	Status         string     `json:"status"`
	Items          []LineItem `json:"items"`
	Total          int64      `json:"total"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// OrderResponse is the full order as seen by its creator and the shop.
type OrderResponse struct {
	OrderStatusResponse
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	Address      string `json:"address,omitempty"`
}

// StatusRequest asks for a status transition.
type StatusRequest struct {
	Status string `json:"status"`
}

// StatusChangeResponse is one audit trail entry.
type StatusChangeResponse struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedBy int64     `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}
