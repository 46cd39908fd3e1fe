package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/repo"
	"github.com/mvolkov/storefront/internal/stripe"
)

// Gateway is the one call the payment flow makes against the processor.
type Gateway interface {
	Charge(ctx context.Context, req stripe.ChargeRequest) (*stripe.Charge, error)
}

type PaymentService struct {
	Repo    *repo.GormRepo
	Gateway Gateway
}

// Pay charges the open order's total through the gateway and, on success,
// finalizes the order. Any charge failure leaves the order untouched.
func (s *PaymentService) Pay(ctx context.Context, userID uint, sourceToken string) (*models.Order, *models.Payment, error) {
	if sourceToken == "" {
		return nil, nil, fmt.Errorf("payment source token required: %w", ErrValidation)
	}

	order, err := s.Repo.OpenOrder(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNoOpenOrder) {
			return nil, nil, ErrNoOpenOrder
		}
		return nil, nil, err
	}

	total := OrderTotal(order)

	charge, err := s.Gateway.Charge(ctx, stripe.ChargeRequest{
		Amount:   MinorUnits(total),
		Currency: "usd",
		Source:   sourceToken,
	})
	if err != nil {
		return nil, nil, classifyChargeErr(err)
	}

	return s.Repo.FinalizeOrder(ctx, userID, charge.ID, total)
}

// MinorUnits converts a dollar total to cents. Rounded rather than
// truncated so float representation noise (19.99*100 = 1998.999...)
// cannot drop a real cent.
func MinorUnits(total float64) int64 {
	return int64(math.Round(total * 100))
}

func classifyChargeErr(err error) error {
	var connErr *stripe.ConnectionError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%v: %w", connErr.Err, ErrGatewayConnection)
	}

	var gwErr *stripe.Error
	if errors.As(err, &gwErr) {
		switch gwErr.Category() {
		case stripe.CategoryCard:
			return fmt.Errorf("%s: %w", gwErr.Message, ErrCardDeclined)
		case stripe.CategoryRateLimit:
			return fmt.Errorf("%s: %w", gwErr.Message, ErrRateLimited)
		case stripe.CategoryInvalidRequest:
			return fmt.Errorf("%s: %w", gwErr.Message, ErrInvalidRequest)
		case stripe.CategoryAuthentication:
			return fmt.Errorf("%s: %w", gwErr.Message, ErrGatewayAuth)
		default:
			return fmt.Errorf("%s: %w", gwErr.Message, ErrGateway)
		}
	}

	return fmt.Errorf("%v: %w", err, ErrPayment)
}
