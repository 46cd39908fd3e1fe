package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvolkov/storefront/internal/models"
)

func TestCartService_AddToCart_CreatesOrderOnFirstAdd(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	seedItem(t, r, "blue-shirt", 10, nil)
	ctx := context.Background()

	line, updated, err := svc.AddToCart(ctx, 1, "blue-shirt")
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, uint(1), line.Quantity)

	order, total, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, float64(10), total)
	assert.False(t, order.Ordered)
}

func TestCartService_AddToCart_TwiceBumpsQuantity(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	seedItem(t, r, "blue-shirt", 10, nil)
	ctx := context.Background()

	_, updated, err := svc.AddToCart(ctx, 1, "blue-shirt")
	require.NoError(t, err)
	assert.False(t, updated)

	line, updated, err := svc.AddToCart(ctx, 1, "blue-shirt")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, uint(2), line.Quantity)

	// one line with quantity 2, not two lines
	var n int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Where("user_id = ?", 1).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCartService_AddToCart_UnknownSlug(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	_, _, err := svc.AddToCart(context.Background(), 1, "no-such-item")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartService_SingleOpenOrderInvariant(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	seedItem(t, r, "blue-shirt", 10, nil)
	seedItem(t, r, "red-shirt", 15, nil)
	ctx := context.Background()

	for _, slug := range []string{"blue-shirt", "red-shirt", "blue-shirt", "red-shirt", "blue-shirt"} {
		_, _, err := svc.AddToCart(ctx, 1, slug)
		require.NoError(t, err)
	}
	_, _, err := svc.RemoveSingleFromCart(ctx, 1, "red-shirt")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveFromCart(ctx, 1, "blue-shirt"))

	assert.EqualValues(t, 1, openOrderCount(t, r, 1))
}

func TestCartService_RemoveSingleFromCart_Decrements(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	seedItem(t, r, "blue-shirt", 10, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := svc.AddToCart(ctx, 1, "blue-shirt")
		require.NoError(t, err)
	}

	line, deleted, err := svc.RemoveSingleFromCart(ctx, 1, "blue-shirt")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, uint(2), line.Quantity)
}

func TestCartService_RemoveSingleFromCart_LastUnitDeletesLine(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	seedItem(t, r, "blue-shirt", 10, nil)
	ctx := context.Background()

	_, _, err := svc.AddToCart(ctx, 1, "blue-shirt")
	require.NoError(t, err)

	_, deleted, err := svc.RemoveSingleFromCart(ctx, 1, "blue-shirt")
	require.NoError(t, err)
	assert.True(t, deleted)

	var lines int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Where("user_id = ?", 1).Count(&lines).Error)
	assert.EqualValues(t, 0, lines)

	// the order itself persists, now empty
	order, total, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, order.Items, 0)
	assert.Zero(t, total)
}

func TestCartService_RemoveFromCart_DropsWholeLine(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	seedItem(t, r, "blue-shirt", 10, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := svc.AddToCart(ctx, 1, "blue-shirt")
		require.NoError(t, err)
	}

	require.NoError(t, svc.RemoveFromCart(ctx, 1, "blue-shirt"))

	var lines int64
	require.NoError(t, r.DB.Model(&models.OrderItem{}).Where("user_id = ?", 1).Count(&lines).Error)
	assert.EqualValues(t, 0, lines)
}

func TestCartService_Remove_FailureModes(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	seedItem(t, r, "blue-shirt", 10, nil)
	seedItem(t, r, "red-shirt", 15, nil)
	ctx := context.Background()

	// no open order at all
	_, _, err := svc.RemoveSingleFromCart(ctx, 1, "blue-shirt")
	assert.ErrorIs(t, err, ErrNoOpenOrder)
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, 1, "blue-shirt"), ErrNoOpenOrder)

	// open order exists but does not contain the item
	_, _, err = svc.AddToCart(ctx, 1, "blue-shirt")
	require.NoError(t, err)
	_, _, err = svc.RemoveSingleFromCart(ctx, 1, "red-shirt")
	assert.ErrorIs(t, err, ErrNotInCart)
	assert.ErrorIs(t, svc.RemoveFromCart(ctx, 1, "red-shirt"), ErrNotInCart)

	// nothing changed
	order, _, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, order.Items, 1)
}

func TestOrderTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []models.OrderItem
		want  float64
	}{
		{
			name: "plain and discounted lines",
			items: []models.OrderItem{
				{Quantity: 2, Item: models.Item{Price: 10}},
				{Quantity: 1, Item: models.Item{Price: 20, DiscountPrice: ptr(5)}},
			},
			want: 25,
		},
		{
			name: "explicit zero discount is honored",
			items: []models.OrderItem{
				{Quantity: 3, Item: models.Item{Price: 10, DiscountPrice: ptr(0)}},
			},
			want: 0,
		},
		{
			name:  "empty order",
			items: nil,
			want:  0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := OrderTotal(&models.Order{Items: tt.items})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCartService_GetCart_TotalUsesDiscount(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	seedItem(t, r, "plain", 10, nil)
	seedItem(t, r, "discounted", 20, ptr(5))
	ctx := context.Background()

	_, _, err := svc.AddToCart(ctx, 1, "plain")
	require.NoError(t, err)
	_, _, err = svc.AddToCart(ctx, 1, "plain")
	require.NoError(t, err)
	_, _, err = svc.AddToCart(ctx, 1, "discounted")
	require.NoError(t, err)

	_, total, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(25), total)
}
