package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/repo"
	"github.com/mvolkov/storefront/internal/transport"
)

const (
	PaymentOptionStripe = "stripe"
	PaymentOptionPaypal = "paypal"
)

type CheckoutService struct {
	Repo *repo.GormRepo
}

// Checkout validates the billing form, attaches the address to the open
// order and reports which payment flow to continue with. An unrecognized
// payment option still leaves the address attached, mirroring the fact
// that the address step already completed.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, req transport.CheckoutRequest) (*models.Order, string, error) {
	if err := validateCheckout(req); err != nil {
		return nil, "", err
	}

	addr := &models.BillingAddress{
		StreetAddress:    strings.TrimSpace(req.StreetAddress),
		ApartmentAddress: strings.TrimSpace(req.ApartmentAddress),
		Country:          strings.ToUpper(strings.TrimSpace(req.Country)),
		ZipCode:          strings.TrimSpace(req.ZipCode),
	}

	order, err := s.Repo.AttachBillingAddress(ctx, userID, addr)
	if err != nil {
		if errors.Is(err, repo.ErrNoOpenOrder) {
			return nil, "", ErrNoOpenOrder
		}
		return nil, "", err
	}

	option := strings.ToLower(strings.TrimSpace(req.PaymentOption))
	switch option {
	case PaymentOptionStripe, PaymentOptionPaypal:
		return order, option, nil
	default:
		return order, "", fmt.Errorf("%q: %w", req.PaymentOption, ErrInvalidPaymentOption)
	}
}

func validateCheckout(req transport.CheckoutRequest) error {
	if strings.TrimSpace(req.StreetAddress) == "" {
		return fmt.Errorf("street_address required: %w", ErrValidation)
	}
	if strings.TrimSpace(req.ZipCode) == "" {
		return fmt.Errorf("zip_code required: %w", ErrValidation)
	}

	country := strings.ToUpper(strings.TrimSpace(req.Country))
	if len(country) != 2 || !isAlpha(country) {
		return fmt.Errorf("country must be an ISO 3166-1 alpha-2 code: %w", ErrValidation)
	}
	return nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
