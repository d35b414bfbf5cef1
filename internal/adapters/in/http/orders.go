package http

import (
	"errors"
	"fmt"
	"net/http"

	"marketplace/internal/core/application/events"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	items := make([]services.RequestedItem, len(req.Items))
	var parseErr error
	for i, item := range req.Items {
		productID, err := kernel.UUIDFromString(item.ProductID)
		if err != nil {
			parseErr = errors.Join(parseErr,
				errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].productId", i), err))
			continue
		}
		items[i] = services.RequestedItem{ProductID: productID, Quantity: item.Quantity}
	}
	if parseErr != nil {
		return s.fail(ctx, parseErr)
	}

	cmd, err := commands.NewPlaceOrderCommand(callerOf(ctx).UserID, items)
	if err != nil {
		return s.fail(ctx, err)
	}

	placed, err := s.handlers.PlaceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, events.NewOrderPayload(placed))
}

// ListMyOrders handles GET /api/v1/orders/my.
func (s *Server) ListMyOrders(ctx echo.Context) error {
	query, err := queries.NewListBuyerOrdersQuery(callerOf(ctx).UserID)
	if err != nil {
		return s.fail(ctx, err)
	}

	views, err := s.handlers.ListBuyerOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponses(views))
}

// ListSellerOrders handles GET /api/v1/orders/seller.
func (s *Server) ListSellerOrders(ctx echo.Context) error {
	query, err := queries.NewListSellerOrdersQuery(callerOf(ctx).UserID)
	if err != nil {
		return s.fail(ctx, err)
	}

	views, err := s.handlers.ListSellerOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponses(views))
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var req UpdateStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, callerOf(ctx).UserID, req.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.handlers.UpdateOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, events.NewOrderPayload(updated))
}

// StartTracking handles POST /api/v1/orders/:id/tracking.
func (s *Server) StartTracking(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var req StartTrackingRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if req.Lat == nil || req.Lng == nil {
		return s.fail(ctx, errs.NewValueIsRequiredError("lat and lng"))
	}

	cmd, err := commands.NewStartTrackingCommand(orderID, callerOf(ctx).UserID, *req.Lat, *req.Lng)
	if err != nil {
		return s.fail(ctx, err)
	}

	started, err := s.handlers.StartTracking.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusAccepted, StartTrackingResponse{Started: started})
}

// CancelTracking handles DELETE /api/v1/orders/:id/tracking.
func (s *Server) CancelTracking(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCancelTrackingCommand(orderID, callerOf(ctx).UserID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.CancelTracking.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func orderIDParam(ctx echo.Context) (kernel.UUID, error) {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("order id", err)
	}
	return orderID, nil
}
