package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/auth"
	"github.com/mvolkov/storefront/internal/events"
	"github.com/mvolkov/storefront/internal/service"
	"github.com/mvolkov/storefront/internal/transport"
	"github.com/mvolkov/storefront/pkg/logging"
)

type CheckoutHTTP struct {
	Svc      *service.CheckoutService
	Producer *events.Producer
}

func (h *CheckoutHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.submit")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, option, err := h.Svc.Checkout(ctx, userID, req)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrValidation):
		l.Warn("checkout_failed", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "failed checkout")
	case errors.Is(err, service.ErrNoOpenOrder):
		l.Warn("checkout_failed", "status", 400, "reason", "no open order")
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{
			Message: "you do not have any items in your cart",
		})
	case errors.Is(err, service.ErrInvalidPaymentOption):
		// The billing address is already attached; only the payment
		// step is re-presented.
		l.Warn("checkout_failed", "status", 400, "reason", "invalid payment option")
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{
			Message: "invalid payment option",
		})
	default:
		l.Error("checkout_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]any{
		"type":           "checkout_completed",
		"userID":         userID,
		"orderID":        order.ID,
		"payment_option": option,
	})

	l.Info("checkout completed", "user_id", userID, "order_id", order.ID, "payment_option", option)
	return c.JSON(http.StatusOK, transport.CheckoutResponse{
		Message:       "billing address saved",
		PaymentOption: option,
		Next:          "/api/v1/checkout/payment/" + option,
	})
}
