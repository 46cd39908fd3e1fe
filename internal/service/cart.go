package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

// AddToCart puts one unit of the slug's item into the user's cart.
// Returns the cart line and whether an existing line was bumped.
func (s *CartService) AddToCart(ctx context.Context, userID uint, slug string) (*models.OrderItem, bool, error) {
	if slug == "" {
		return nil, false, fmt.Errorf("slug required: %w", ErrValidation)
	}

	line, updated, err := s.Repo.AddToCart(ctx, userID, slug)
	if err != nil {
		return nil, false, mapCartErr(err, slug)
	}
	return line, updated, nil
}

// RemoveSingleFromCart takes one unit of the item out of the cart,
// dropping the line entirely when the last unit goes. Reports whether
// the line was deleted.
func (s *CartService) RemoveSingleFromCart(ctx context.Context, userID uint, slug string) (*models.OrderItem, bool, error) {
	if slug == "" {
		return nil, false, fmt.Errorf("slug required: %w", ErrValidation)
	}

	line, deleted, err := s.Repo.RemoveSingleFromCart(ctx, userID, slug)
	if err != nil {
		return nil, false, mapCartErr(err, slug)
	}
	return line, deleted, nil
}

// RemoveFromCart drops the item's line from the cart whatever its quantity.
func (s *CartService) RemoveFromCart(ctx context.Context, userID uint, slug string) error {
	if slug == "" {
		return fmt.Errorf("slug required: %w", ErrValidation)
	}

	if err := s.Repo.RemoveFromCart(ctx, userID, slug); err != nil {
		return mapCartErr(err, slug)
	}
	return nil
}

// GetCart returns the open order together with its running total.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*models.Order, float64, error) {
	order, err := s.Repo.OpenOrder(ctx, userID)
	if err != nil {
		return nil, 0, mapCartErr(err, "")
	}
	return order, OrderTotal(order), nil
}

// OrderTotal sums quantity times the effective unit price over the
// order's lines. Lines must be loaded with their items.
func OrderTotal(order *models.Order) float64 {
	var total float64
	for _, line := range order.Items {
		total += line.LineTotal()
	}
	return total
}

func mapCartErr(err error, slug string) error {
	switch {
	case errors.Is(err, repo.ErrItemNotFound):
		return fmt.Errorf("item %q: %w", slug, ErrNotFound)
	case errors.Is(err, repo.ErrNoOpenOrder):
		return ErrNoOpenOrder
	case errors.Is(err, repo.ErrNotInCart):
		return fmt.Errorf("item %q: %w", slug, ErrNotInCart)
	default:
		return err
	}
}
