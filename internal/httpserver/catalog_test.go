package httpserver

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvolkov/storefront/internal/service"
)

func newCatalogHTTP(t *testing.T) (*env, *CatalogHTTP) {
	t.Helper()

	e := newEnv(t)
	return e, &CatalogHTTP{Svc: &service.CatalogService{Repo: e.repo}}
}

func TestCatalogHTTP_ListItems(t *testing.T) {
	t.Parallel()

	env, h := newCatalogHTTP(t)
	env.seedItem(t, "blue-shirt", 10)
	env.seedItem(t, "red-shirt", 12)

	c, rec := newCtx(http.MethodGet, "/products", "")
	require.NoError(t, h.ListItems(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blue-shirt")
	assert.Contains(t, rec.Body.String(), `"total":2`)
}

func TestCatalogHTTP_GetItem(t *testing.T) {
	t.Parallel()

	env, h := newCatalogHTTP(t)
	env.seedItem(t, "blue-shirt", 10)

	c, rec := newCtx(http.MethodGet, "/products/blue-shirt", "")
	c.SetParamNames("slug")
	c.SetParamValues("blue-shirt")

	require.NoError(t, h.GetItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"blue-shirt"`)
}

func TestCatalogHTTP_GetItem_NotFound(t *testing.T) {
	t.Parallel()

	_, h := newCatalogHTTP(t)

	c, _ := newCtx(http.MethodGet, "/products/missing", "")
	c.SetParamNames("slug")
	c.SetParamValues("missing")

	err := h.GetItem(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestCatalogHTTP_CreateItem(t *testing.T) {
	t.Parallel()

	_, h := newCatalogHTTP(t)

	c, rec := newCtx(http.MethodPost, "/admin/products",
		`{"title":"Blue Shirt","price":19.99,"category":"S","label":"P","description":"a shirt"}`)
	require.NoError(t, h.CreateItem(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"blue-shirt"`)
}

func TestCatalogHTTP_CreateItem_Invalid(t *testing.T) {
	t.Parallel()

	_, h := newCatalogHTTP(t)

	c, _ := newCtx(http.MethodPost, "/admin/products",
		`{"title":"","price":19.99,"category":"S","label":"P"}`)
	err := h.CreateItem(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCatalogHTTP_DeleteItem(t *testing.T) {
	t.Parallel()

	env, h := newCatalogHTTP(t)
	env.seedItem(t, "blue-shirt", 10)

	c, rec := newCtx(http.MethodDelete, "/admin/products/blue-shirt", "")
	c.SetParamNames("slug")
	c.SetParamValues("blue-shirt")

	require.NoError(t, h.DeleteItem(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := h.Svc.Get(c.Request().Context(), "blue-shirt")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
