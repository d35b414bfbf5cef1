// Package events defines the push events of the order lifecycle and courier
// tracking, their JSON payloads, and the channels they are published on.
//
//	new-order            -> admins channel, full order
//	order-status-updated -> buyer channel, {orderId, status}
//	courier-location     -> order channel, {orderId, lat, lng, city}, once per tick
//	courier-delivered    -> order channel, {orderId}, exactly once
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/tracking"
	"marketplace/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Event names.
const (
	NewOrder           = "new-order"
	OrderStatusUpdated = "order-status-updated"
	CourierLocation    = "courier-location"
	CourierDelivered   = "courier-delivered"
)

// OrderItemPayload is one line item of OrderPayload.
type OrderItemPayload struct {
	ProductID kernel.UUID     `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

// OrderPayload is the full order as pushed to admins.
type OrderPayload struct {
	ID          kernel.UUID        `json:"id"`
	BuyerID     kernel.UUID        `json:"buyerId"`
	SellerID    kernel.UUID        `json:"sellerId"`
	Items       []OrderItemPayload `json:"items"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// StatusPayload is pushed to the buyer after a status change.
type StatusPayload struct {
	OrderID kernel.UUID `json:"orderId"`
	Status  string      `json:"status"`
}

// LocationPayload is one courier position.
type LocationPayload struct {
	OrderID kernel.UUID `json:"orderId"`
	Lat     float64     `json:"lat"`
	Lng     float64     `json:"lng"`
	City    string      `json:"city"`
}

// DeliveredPayload terminates a tracking session.
type DeliveredPayload struct {
	OrderID kernel.UUID `json:"orderId"`
}

// NewOrderPayload maps an order aggregate to its payload.
func NewOrderPayload(o *order.Order) OrderPayload {
	items := o.Items()
	payload := OrderPayload{
		ID:          o.ID(),
		BuyerID:     o.BuyerID(),
		SellerID:    o.SellerID(),
		Items:       make([]OrderItemPayload, 0, len(items)),
		TotalAmount: o.TotalAmount(),
		Status:      o.Status().String(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
	for _, item := range items {
		payload.Items = append(payload.Items, OrderItemPayload{
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}
	return payload
}

// OrderPlaced builds the new-order event.
func OrderPlaced(o *order.Order) (ports.Event, error) {
	return newEvent(NewOrder, NewOrderPayload(o))
}

// StatusUpdated builds the order-status-updated event.
func StatusUpdated(o *order.Order) (ports.Event, error) {
	return newEvent(OrderStatusUpdated, StatusPayload{OrderID: o.ID(), Status: o.Status().String()})
}

// Location builds the courier-location event of a position.
func Location(pos tracking.Position) (ports.Event, error) {
	return newEvent(CourierLocation, LocationPayload{
		OrderID: pos.OrderID,
		Lat:     pos.Point.Lat(),
		Lng:     pos.Point.Lng(),
		City:    pos.City,
	})
}

// Delivered builds the courier-delivered event.
func Delivered(orderID kernel.UUID) (ports.Event, error) {
	return newEvent(CourierDelivered, DeliveredPayload{OrderID: orderID})
}

// BuyerChannel is the private channel of a user.
func BuyerChannel(buyerID kernel.UUID) string {
	return buyerID.String()
}

// OrderChannel is the channel subscribers of one order join.
func OrderChannel(orderID kernel.UUID) string {
	return orderID.String()
}

// Decode unmarshals the payload of e into T.
func Decode[T any](e ports.Event) (T, error) {
	var payload T
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %w", e.Name, err)
	}
	return payload, nil
}

func newEvent(name string, payload any) (ports.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return ports.Event{}, fmt.Errorf("encode %s payload: %w", name, err)
	}
	return ports.Event{Name: name, Payload: data}, nil
}
