package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/models"
)

// FinalizeOrder closes the user's open order after a successful charge:
// records the payment, marks the order and its lines ordered and stamps
// the ordered date. Called only once the gateway reported success.
func (r *GormRepo) FinalizeOrder(ctx context.Context, userID uint, chargeID string, amount float64) (*models.Order, *models.Payment, error) {
	var (
		order   *models.Order
		payment models.Payment
	)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = r.lockOpenOrder(tx, userID)
		if err != nil {
			return err
		}

		payment = models.Payment{
			StripeChargeID: chargeID,
			UserID:         userID,
			Amount:         amount,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		var lineIDs []uint
		if err := tx.Table("order_line_items").
			Where("order_id = ?", order.ID).
			Pluck("order_item_id", &lineIDs).Error; err != nil {
			return err
		}
		if len(lineIDs) > 0 {
			if err := tx.Model(&models.OrderItem{}).
				Where("id IN ?", lineIDs).
				Update("ordered", true).Error; err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		order.Ordered = true
		order.OrderedDate = &now
		order.PaymentID = &payment.ID
		return tx.Save(order).Error
	})
	if err != nil {
		return nil, nil, err
	}

	order.Payment = &payment
	return order, &payment, nil
}
