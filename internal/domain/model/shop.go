package model

import "time"

// Shop is a merchant storefront that receives orders.
type Shop struct {
	ID        int64
	OwnerID   int64
	Name      string
	Phone     string
	CreatedAt time.Time
}

// MenuItem is a live menu entry; its price may change at any time.
type MenuItem struct {
	ID        int64
	ShopID    int64
	Name      string
	Price     int64
	Available bool
}
