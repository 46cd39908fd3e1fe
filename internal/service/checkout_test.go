package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/transport"
)

func validCheckout() transport.CheckoutRequest {
	return transport.CheckoutRequest{
		StreetAddress:    "12 Main St",
		ApartmentAddress: "4b",
		Country:          "us",
		ZipCode:          "10001",
		PaymentOption:    "stripe",
	}
}

func TestCheckoutService_AttachesBillingAddress(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	svc := &CheckoutService{Repo: r}
	seedItem(t, r, "blue-shirt", 10, nil)
	ctx := context.Background()

	_, _, err := cart.AddToCart(ctx, 1, "blue-shirt")
	require.NoError(t, err)

	order, option, err := svc.Checkout(ctx, 1, validCheckout())
	require.NoError(t, err)
	assert.Equal(t, PaymentOptionStripe, option)
	require.NotNil(t, order.BillingAddressID)
	assert.Equal(t, "US", order.BillingAddress.Country)
	assert.Equal(t, "12 Main St", order.BillingAddress.StreetAddress)
}

func TestCheckoutService_NoOpenOrder(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CheckoutService{Repo: r}

	_, _, err := svc.Checkout(context.Background(), 1, validCheckout())
	assert.ErrorIs(t, err, ErrNoOpenOrder)

	var n int64
	require.NoError(t, r.DB.Model(&models.BillingAddress{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestCheckoutService_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*transport.CheckoutRequest)
	}{
		{name: "missing street", mutate: func(r *transport.CheckoutRequest) { r.StreetAddress = " " }},
		{name: "missing zip", mutate: func(r *transport.CheckoutRequest) { r.ZipCode = "" }},
		{name: "bad country", mutate: func(r *transport.CheckoutRequest) { r.Country = "USA" }},
		{name: "numeric country", mutate: func(r *transport.CheckoutRequest) { r.Country = "1x" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRepo(t)
			cart := &CartService{Repo: r}
			svc := &CheckoutService{Repo: r}
			seedItem(t, r, "blue-shirt", 10, nil)
			ctx := context.Background()

			_, _, err := cart.AddToCart(ctx, 1, "blue-shirt")
			require.NoError(t, err)

			req := validCheckout()
			tt.mutate(&req)

			_, _, err = svc.Checkout(ctx, 1, req)
			assert.ErrorIs(t, err, ErrValidation)

			// no partial state persisted
			var n int64
			require.NoError(t, r.DB.Model(&models.BillingAddress{}).Count(&n).Error)
			assert.EqualValues(t, 0, n)
		})
	}
}

func TestCheckoutService_UnknownPaymentOption(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	svc := &CheckoutService{Repo: r}
	seedItem(t, r, "blue-shirt", 10, nil)
	ctx := context.Background()

	_, _, err := cart.AddToCart(ctx, 1, "blue-shirt")
	require.NoError(t, err)

	req := validCheckout()
	req.PaymentOption = "wire-transfer"

	_, _, err = svc.Checkout(ctx, 1, req)
	assert.ErrorIs(t, err, ErrInvalidPaymentOption)

	// the address step already completed: the billing address stays
	// attached and the order has not advanced
	order, err := r.OpenOrder(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, order.BillingAddressID)
	assert.False(t, order.Ordered)
}

func TestCheckoutService_PaypalOption(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	cart := &CartService{Repo: r}
	svc := &CheckoutService{Repo: r}
	seedItem(t, r, "blue-shirt", 10, nil)
	ctx := context.Background()

	_, _, err := cart.AddToCart(ctx, 1, "blue-shirt")
	require.NoError(t, err)

	req := validCheckout()
	req.PaymentOption = "PayPal"

	_, option, err := svc.Checkout(ctx, 1, req)
	require.NoError(t, err)
	assert.Equal(t, PaymentOptionPaypal, option)
}
