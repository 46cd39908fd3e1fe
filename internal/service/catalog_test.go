package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/transport"
)

func validItemReq() transport.ItemRequest {
	return transport.ItemRequest{
		Title:       "Blue Shirt",
		Price:       19.99,
		Category:    models.CategoryShirt,
		Label:       models.LabelPrimary,
		Description: "a blue shirt",
	}
}

func TestCatalogService_List_Pagination(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	for i := 0; i < 25; i++ {
		seedItem(t, r, fmt.Sprintf("item-%02d", i), float64(i+1), nil)
	}
	ctx := context.Background()

	items, meta, err := svc.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, items, 10)
	assert.Equal(t, 1, meta.Page)
	assert.EqualValues(t, 25, meta.Total)
	assert.EqualValues(t, 3, meta.TotalPages)
	assert.False(t, meta.HasPrev)
	assert.True(t, meta.HasNext)

	items, meta, err = svc.List(ctx, 3, 0)
	require.NoError(t, err)
	assert.Len(t, items, 5)
	assert.True(t, meta.HasPrev)
	assert.False(t, meta.HasNext)
}

func TestCatalogService_Get(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	seedItem(t, r, "blue-shirt", 10, nil)
	ctx := context.Background()

	item, err := svc.Get(ctx, "blue-shirt")
	require.NoError(t, err)
	assert.Equal(t, "blue-shirt", item.Slug)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_Create_GeneratesSlug(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	item, err := svc.Create(ctx, validItemReq())
	require.NoError(t, err)
	assert.Equal(t, "blue-shirt", item.Slug)

	// second item with the same title gets a uniquified slug
	other, err := svc.Create(ctx, validItemReq())
	require.NoError(t, err)
	assert.NotEqual(t, item.Slug, other.Slug)
	assert.Contains(t, other.Slug, "blue-shirt-")
}

func TestCatalogService_Create_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*transport.ItemRequest)
	}{
		{name: "empty title", mutate: func(r *transport.ItemRequest) { r.Title = "" }},
		{name: "negative price", mutate: func(r *transport.ItemRequest) { r.Price = -1 }},
		{name: "bad category", mutate: func(r *transport.ItemRequest) { r.Category = "XX" }},
		{name: "bad label", mutate: func(r *transport.ItemRequest) { r.Label = "X" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &CatalogService{Repo: newTestRepo(t)}
			req := validItemReq()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Blue Shirt", "blue-shirt"},
		{"  Sport  Wear 2 ", "sport-wear-2"},
		{"Outwear (Winter)", "outwear-winter"},
		{"UPPER", "upper"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}
