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

type CartHTTP struct {
	Svc      *service.CartService
	Producer *events.Producer
}

// GetCart is the order-summary view: the open order with its lines and
// running total.
func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	order, total, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNoOpenOrder) {
			return c.JSON(http.StatusOK, transport.CartResponse{
				Message: "you do not have any items in your cart",
				Order:   nil,
				Total:   0,
			})
		}
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, transport.CartResponse{Order: order, Total: total})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	slug := c.Param("slug")
	line, updated, err := h.Svc.AddToCart(ctx, userID, slug)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	msg := "this item was added to your cart"
	if updated {
		msg = "the item quantity has been updated"
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":     "cart_item_added",
		"userID":   userID,
		"slug":     slug,
		"quantity": line.Quantity,
	})

	l.Info("cart updated", "user_id", userID, "slug", slug, "quantity", line.Quantity)
	return c.JSON(http.StatusOK, map[string]any{"message": msg, "line": line})
}

func (h *CartHTTP) RemoveSingleFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_single")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	slug := c.Param("slug")
	line, deleted, err := h.Svc.RemoveSingleFromCart(ctx, userID, slug)
	if err != nil {
		if resp := cartRemovalFailure(c, err); resp != nil {
			return resp
		}
		l.Error("remove_single_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	event := map[string]any{
		"type":   "cart_item_decremented",
		"userID": userID,
		"slug":   slug,
	}
	resp := map[string]any{"message": "the item quantity has been updated"}
	if deleted {
		event["type"] = "cart_item_removed"
		resp = map[string]any{"message": "this item was removed from your cart"}
	} else {
		resp["line"] = line
		event["quantity"] = line.Quantity
	}
	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), event)

	return c.JSON(http.StatusOK, resp)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := auth.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	slug := c.Param("slug")
	if err := h.Svc.RemoveFromCart(ctx, userID, slug); err != nil {
		if resp := cartRemovalFailure(c, err); resp != nil {
			return resp
		}
		l.Error("remove_from_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":   "cart_item_removed",
		"userID": userID,
		"slug":   slug,
	})

	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "this item was removed from your cart"})
}

// cartRemovalFailure maps the informational removal outcomes: the item,
// or the cart itself, was not there. No state changed.
func cartRemovalFailure(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	case errors.Is(err, service.ErrNoOpenOrder):
		return c.JSON(http.StatusOK, transport.MessageResponse{Message: "there are no items in your cart"})
	case errors.Is(err, service.ErrNotInCart):
		return c.JSON(http.StatusOK, transport.MessageResponse{Message: "this item is not in your cart"})
	}
	return nil
}
