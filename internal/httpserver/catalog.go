package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mvolkov/storefront/internal/events"
	"github.com/mvolkov/storefront/internal/service"
	"github.com/mvolkov/storefront/internal/transport"
	"github.com/mvolkov/storefront/internal/util"
	"github.com/mvolkov/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Svc      *service.CatalogService
	Producer *events.Producer
}

func (h *CatalogHTTP) ListItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	items, meta, err := h.Svc.List(ctx, page, size)
	if err != nil {
		l.Error("list_items_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, transport.ItemListResponse{Data: items, Meta: meta})
}

func (h *CatalogHTTP) GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get")

	item, err := h.Svc.Get(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		l.Error("get_item_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create")

	var req transport.ItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Create(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_item_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_item_error", "status", 500, "error", err)
		if item == nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		// item was stored, only the search index lagged
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(item.ID), map[string]any{
		"type":   "item_created",
		"itemID": item.ID,
		"slug":   item.Slug,
		"title":  item.Title,
	})

	l.Info("item created", "item_id", item.ID, "slug", item.Slug)
	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHTTP) PatchItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch")

	var req transport.ItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Update(ctx, c.Param("slug"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("patch_item_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("patch_item_error", "status", 500, "error", err)
		if item == nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(item.ID), map[string]any{
		"type":   "item_updated",
		"itemID": item.ID,
		"slug":   item.Slug,
		"title":  item.Title,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete")

	id, err := h.Svc.Delete(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		l.Error("delete_item_error", "status", 500, "error", err)
		if id == 0 {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(id), map[string]any{
		"type":   "item_deleted",
		"itemID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	total, items, err := h.Svc.Search(ctx, q, page, size)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]any{"total": total, "items": items})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
