package http

import (
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// PlaceOrderRequest is the body of POST /orders.
type PlaceOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// OrderItemRequest is one requested product.
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateStatusRequest is the body of PUT /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// StartTrackingRequest is the body of POST /orders/:id/tracking.
type StartTrackingRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// StartTrackingResponse reports whether a new session was created.
type StartTrackingResponse struct {
	Started bool `json:"started"`
}

type PartyResponse struct {
	ID    kernel.UUID `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
}

type OrderItemResponse struct {
	ProductID   kernel.UUID     `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"price"`
}

// OrderResponse is an order as listed to buyers and sellers.
type OrderResponse struct {
	ID          kernel.UUID         `json:"id"`
	Buyer       PartyResponse       `json:"buyer"`
	Seller      PartyResponse       `json:"seller"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	Items       []OrderItemResponse `json:"items"`
}

func toOrderResponses(views []queries.OrderView) []OrderResponse {
	response := make([]OrderResponse, len(views))
	for i, view := range views {
		response[i] = toOrderResponse(view)
	}
	return response
}

func toOrderResponse(view queries.OrderView) OrderResponse {
	items := make([]OrderItemResponse, len(view.Items))
	for i, item := range view.Items {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	return OrderResponse{
		ID:          view.ID,
		Buyer:       PartyResponse(view.Buyer),
		Seller:      PartyResponse(view.Seller),
		Status:      view.Status,
		TotalAmount: view.TotalAmount,
		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
		Items:       items,
	}
}
