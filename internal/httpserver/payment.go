package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/auth"
	"github.com/mvolkov/storefront/internal/events"
	"github.com/mvolkov/storefront/internal/service"
	"github.com/mvolkov/storefront/internal/transport"
	"github.com/mvolkov/storefront/pkg/logging"
)

type PaymentHTTP struct {
	Svc      *service.PaymentService
	Producer *events.Producer
}

func (h *PaymentHTTP) Pay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.pay")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	option := c.Param("option")
	switch option {
	case service.PaymentOptionStripe, service.PaymentOptionPaypal:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payment option")
	}

	var req transport.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, payment, err := h.Svc.Pay(ctx, userID, req.StripeToken)
	if err != nil {
		return h.payFailure(c, l, err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]any{
		"type":      "order_paid",
		"userID":    userID,
		"orderID":   order.ID,
		"paymentID": payment.ID,
		"amount":    payment.Amount,
	})

	l.Info("payment succeeded", "user_id", userID, "order_id", order.ID, "amount", payment.Amount)
	return c.JSON(http.StatusOK, transport.PaymentResponse{
		Message: "your order was successful!",
		OrderID: order.ID,
		Payment: *payment,
	})
}

// payFailure turns every charge failure into the short shopper-facing
// message for its category. The order is untouched in all of these.
func (h *PaymentHTTP) payFailure(c echo.Context, l *slog.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "payment source token required")
	case errors.Is(err, service.ErrNoOpenOrder):
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{
			Message: "you do not have any items in your cart",
		})
	case errors.Is(err, service.ErrCardDeclined):
		l.Warn("charge_declined", "error", err)
		return c.JSON(http.StatusPaymentRequired, transport.MessageResponse{Message: err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		l.Warn("charge_rate_limited", "error", err)
		return c.JSON(http.StatusTooManyRequests, transport.MessageResponse{Message: "rate limit error"})
	case errors.Is(err, service.ErrInvalidRequest):
		l.Warn("charge_invalid_request", "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "invalid parameters"})
	case errors.Is(err, service.ErrGatewayAuth):
		l.Error("charge_auth_failed", "error", err)
		return c.JSON(http.StatusBadGateway, transport.MessageResponse{Message: "not authenticated"})
	case errors.Is(err, service.ErrGatewayConnection):
		l.Error("charge_network_error", "error", err)
		return c.JSON(http.StatusBadGateway, transport.MessageResponse{Message: "network error"})
	case errors.Is(err, service.ErrGateway):
		l.Error("charge_gateway_error", "error", err)
		return c.JSON(http.StatusBadGateway, transport.MessageResponse{
			Message: "something went wrong, you were not charged, please try again",
		})
	default:
		l.Error("charge_unclassified_error", "error", err)
		return c.JSON(http.StatusInternalServerError, transport.MessageResponse{
			Message: "a serious error has occurred",
		})
	}
}
