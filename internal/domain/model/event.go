package model

import "time"

// OrderEvent is published to real-time subscribers and the event stream.
type OrderEvent struct {
	OrderID        string      `json:"order_id"`
	ShopID         int64       `json:"shop_id"`
	SequenceNumber int64       `json:"sequence_number"`
	Status         OrderStatus `json:"status"`
	At             time.Time   `json:"at"`
}

// EventFromOrder builds an event describing the current order state.
func EventFromOrder(o Order) OrderEvent {
	at := o.UpdatedAt
	if at.IsZero() {
		at = o.CreatedAt
	}
	return OrderEvent{
		OrderID:        o.ID,
		ShopID:         o.ShopID,
		SequenceNumber: o.SequenceNumber,
		Status:         o.Status,
		At:             at,
	}
}

// OutboundMessage is a text queued for the external messaging channel.
type OutboundMessage struct {
	OrderID string
	Phone   string
	Text    string
}

// InboundMessage is a customer text received from the messaging channel.
type InboundMessage struct {
	From string
	Name string
	Text string
}
