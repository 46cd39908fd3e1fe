package httpserver

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/events"
	"github.com/mvolkov/storefront/pkg/logging"
)

const publishTimeout = 5 * time.Second

// publish sends a domain event without failing the request; event
// delivery is best effort and only logged on error.
func publish(c echo.Context, producer *events.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), publishTimeout)
	defer cancel()

	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}
