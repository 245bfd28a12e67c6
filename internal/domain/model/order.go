package model

import (
	"math"
	"time"
)

// OrderStatus describes the delivery lifecycle of an order.
type OrderStatus string

const (
	OrderStatusReceived       OrderStatus = "received"
	OrderStatusAccepted       OrderStatus = "accepted"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusFailed         OrderStatus = "failed"
)

var statusRank = map[OrderStatus]int{
	OrderStatusReceived:       1,
	OrderStatusAccepted:       2,
	OrderStatusPacked:         3,
	OrderStatusOutForDelivery: 4,
	OrderStatusDelivered:      5,
	OrderStatusCancelled:      6,
	OrderStatusFailed:         6,
}

// Rank orders statuses along the lifecycle. Unknown statuses rank 0.
// Cancelled and failed rank above every happy-path status.
func (s OrderStatus) Rank() int {
	return statusRank[s]
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	return s.Rank() > 0
}

// Terminal reports whether no transition is permitted out of s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusFailed:
		return true
	}
	return false
}

// Label renders status for humans, e.g. "out for delivery".
func (s OrderStatus) Label() string {
	b := []byte(s)
	for i := range b {
		if b[i] == '_' {
			b[i] = ' '
		}
	}
	return string(b)
}

// CanTransition is the single rule for status moves: strictly forward along
// the happy path, or into cancelled/failed from any non-terminal status.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() || from.Terminal() {
		return false
	}
	if to == OrderStatusCancelled || to == OrderStatusFailed {
		return true
	}
	return to.Rank() > from.Rank()
}

// LineItem is an order entry with its price captured at order time.
type LineItem struct {
	MenuItemID int64  `json:"menu_item_id,omitempty"`
	Name       string `json:"name"`
	Qty        int64  `json:"qty"`
	UnitPrice  int64  `json:"unit_price"`
}

// Total returns qty multiplied by the captured unit price. ok is false when
// either factor is negative or the product does not fit in int64.
func (i LineItem) Total() (total int64, ok bool) {
	if i.Qty < 0 || i.UnitPrice < 0 {
		return 0, false
	}
	if i.UnitPrice != 0 && i.Qty > math.MaxInt64/i.UnitPrice {
		return 0, false
	}
	return i.Qty * i.UnitPrice, true
}

// SumLineItems returns the exact integer sum of line totals. ok is false
// when any line or the running sum overflows int64.
func SumLineItems(items []LineItem) (total int64, ok bool) {
	for _, item := range items {
		line, ok := item.Total()
		if !ok || total > math.MaxInt64-line {
			return 0, false
		}
		total += line
	}
	return total, true
}

// Order is a customer order placed with a shop.
type Order struct {
	ID             string
	SequenceNumber int64
	ShopID         int64
	CustomerName   string
	Phone          string
	Address        string
	Items          []LineItem
	Total          int64
	Status         OrderStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RequestedItem is an item reference supplied by a client. ItemID and Price
// are optional; Price is only trusted when no menu entry matches.
type RequestedItem struct {
	ItemID int64
	Name   string
	Qty    int64
	Price  int64
}

// NewOrder carries the input for order creation.
type NewOrder struct {
	ShopID       int64
	CustomerName string
	Phone        string
	Address      string
	Items        []RequestedItem
}

// StatusChange is an audit record of a persisted transition.
type StatusChange struct {
	OrderID   string
	From      OrderStatus
	To        OrderStatus
	ChangedBy int64
	ChangedAt time.Time
}
