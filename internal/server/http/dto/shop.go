package dto

import "time"

// CreateShopRequest describes a new shop.
type CreateShopRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// ShopResponse describes a stored shop.
type ShopResponse struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MenuItemRequest is one entry of a menu replacement. Items are available
// unless stated otherwise.
type MenuItemRequest struct {
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Available *bool  `json:"available,omitempty"`
}

// MenuRequest replaces the whole menu of a shop.
type MenuRequest struct {
	Items []MenuItemRequest `json:"items"`
}

// MenuItemResponse is a live menu entry.
type MenuItemResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Available bool   `json:"available"`
}
