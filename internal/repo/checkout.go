package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/models"
)

// AttachBillingAddress creates the address and points the user's open
// order at it. Nothing is persisted when there is no open order.
func (r *GormRepo) AttachBillingAddress(ctx context.Context, userID uint, addr *models.BillingAddress) (*models.Order, error) {
	var order *models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = r.lockOpenOrder(tx, userID)
		if err != nil {
			return err
		}

		addr.UserID = userID
		if err := tx.Create(addr).Error; err != nil {
			return err
		}

		order.BillingAddressID = &addr.ID
		return tx.Save(order).Error
	})
	if err != nil {
		return nil, err
	}

	order.BillingAddress = addr
	return order, nil
}
