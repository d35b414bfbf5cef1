package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"marketplace/internal/core/application/events"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// StreamMyEvents handles GET /api/v1/events/me: the caller's private channel.
func (s *Server) StreamMyEvents(ctx echo.Context) error {
	return s.stream(ctx, events.BuyerChannel(callerOf(ctx).UserID))
}

// StreamAdminEvents handles GET /api/v1/events/admins.
func (s *Server) StreamAdminEvents(ctx echo.Context) error {
	return s.stream(ctx, ports.AdminsChannel)
}

// StreamOrderEvents handles GET /api/v1/orders/:id/events. Only the order's buyer,
// its seller and admins may join the order channel.
func (s *Server) StreamOrderEvents(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	caller := callerOf(ctx)
	if caller.Role != RoleAdmin &&
		!view.Buyer.ID.IsEqual(caller.UserID) &&
		!view.Seller.ID.IsEqual(caller.UserID) {
		return s.fail(ctx, errs.NewAccessDeniedError("user "+caller.UserID.String(), "order "+orderID.String()))
	}

	return s.stream(ctx, events.OrderChannel(orderID))
}

// stream relays channel to the client as server-sent events until the client leaves
// or the subscription ends.
func (s *Server) stream(ctx echo.Context, channel string) error {
	reqCtx, cancel := context.WithCancel(ctx.Request().Context())
	defer cancel()

	subscription, err := s.subscriber.Subscribe(reqCtx, channel)
	if err != nil {
		return s.fail(ctx, err)
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-reqCtx.Done():
			return nil
		case event, ok := <-subscription:
			if !ok {
				return nil
			}
			if _, err = fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event.Name, event.Payload); err != nil {
				return nil
			}
			res.Flush()
		case <-heartbeat.C:
			if _, err = fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
