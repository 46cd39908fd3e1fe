package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mvolkov/storefront/internal/models"
)

// OpenOrder returns the user's current cart with its lines and items
// loaded, or ErrNoOpenOrder.
func (r *GormRepo) OpenOrder(ctx context.Context, userID uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items.Item").
		Preload("BillingAddress").
		Where("user_id = ? AND ordered = ?", userID, false).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOpenOrder
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AddToCart resolves the item by slug, finds or creates the unordered line
// for (user, item) and attaches it to the user's single open order,
// creating the order on first add. Returns the line and whether an
// existing line's quantity was bumped rather than a new one attached.
func (r *GormRepo) AddToCart(ctx context.Context, userID uint, slug string) (*models.OrderItem, bool, error) {
	var (
		line    models.OrderItem
		updated bool
	)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.Where("slug = ?", slug).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		err := tx.Where("user_id = ? AND item_id = ? AND ordered = ?", userID, item.ID, false).
			First(&line).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			line = models.OrderItem{UserID: userID, ItemID: item.ID, Quantity: 1}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		order, err := r.lockOpenOrder(tx, userID)
		if errors.Is(err, ErrNoOpenOrder) {
			order = &models.Order{UserID: userID}
			if err := tx.Create(order).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		inOrder, err := lineInOrder(tx, order.ID, line.ID)
		if err != nil {
			return err
		}
		if inOrder {
			line.Quantity++
			updated = true
			return tx.Save(&line).Error
		}
		return tx.Model(order).Association("Items").Append(&line)
	})
	if err != nil {
		return nil, false, err
	}

	line.Item = models.Item{}
	if err := r.DB.WithContext(ctx).Preload("Item").First(&line, line.ID).Error; err != nil {
		return nil, false, err
	}
	return &line, updated, nil
}

// RemoveSingleFromCart decrements the line for the slug by one, detaching
// and deleting it once the last unit is removed. The second return value
// reports whether the line was deleted.
func (r *GormRepo) RemoveSingleFromCart(ctx context.Context, userID uint, slug string) (*models.OrderItem, bool, error) {
	var (
		line    models.OrderItem
		deleted bool
	)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, itemLine, err := r.lockLine(tx, userID, slug)
		if err != nil {
			return err
		}
		line = *itemLine

		if line.Quantity > 1 {
			line.Quantity--
			return tx.Save(&line).Error
		}

		deleted = true
		if err := tx.Model(order).Association("Items").Delete(&line); err != nil {
			return err
		}
		return tx.Delete(&line).Error
	})
	if err != nil {
		return nil, false, err
	}
	if deleted {
		return nil, true, nil
	}
	return &line, false, nil
}

// RemoveFromCart detaches and deletes the line for the slug regardless of
// its quantity.
func (r *GormRepo) RemoveFromCart(ctx context.Context, userID uint, slug string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, line, err := r.lockLine(tx, userID, slug)
		if err != nil {
			return err
		}
		if err := tx.Model(order).Association("Items").Delete(line); err != nil {
			return err
		}
		return tx.Delete(line).Error
	})
}

func (r *GormRepo) lockOpenOrder(tx *gorm.DB, userID uint) (*models.Order, error) {
	var order models.Order
	err := forUpdate(tx).
		Where("user_id = ? AND ordered = ?", userID, false).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoOpenOrder
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// lockLine resolves slug -> item -> open order -> line, holding a row lock
// on the order for the rest of the transaction.
func (r *GormRepo) lockLine(tx *gorm.DB, userID uint, slug string) (*models.Order, *models.OrderItem, error) {
	var item models.Item
	if err := tx.Where("slug = ?", slug).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrItemNotFound
		}
		return nil, nil, err
	}

	order, err := r.lockOpenOrder(tx, userID)
	if err != nil {
		return nil, nil, err
	}

	var line models.OrderItem
	err = tx.Joins("JOIN order_line_items oli ON oli.order_item_id = order_items.id").
		Where("oli.order_id = ? AND order_items.item_id = ?", order.ID, item.ID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrNotInCart
	}
	if err != nil {
		return nil, nil, err
	}
	return order, &line, nil
}

// forUpdate adds a row lock on dialects that support it; the sqlite
// used in tests has no FOR UPDATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func lineInOrder(tx *gorm.DB, orderID, lineID uint) (bool, error) {
	var n int64
	err := tx.Table("order_line_items").
		Where("order_id = ? AND order_item_id = ?", orderID, lineID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
