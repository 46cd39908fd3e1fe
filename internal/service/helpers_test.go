package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Item{},
		&models.OrderItem{},
		&models.Order{},
		&models.BillingAddress{},
		&models.Payment{},
	))

	return repo.New(db)
}

func seedItem(t *testing.T, r *repo.GormRepo, slug string, price float64, discount *float64) models.Item {
	t.Helper()

	item := models.Item{
		Title:         "Test " + slug,
		Price:         price,
		DiscountPrice: discount,
		Category:      models.CategoryShirt,
		Label:         models.LabelPrimary,
		Slug:          slug,
		Description:   "test item",
	}
	require.NoError(t, r.DB.Create(&item).Error)
	return item
}

func ptr(f float64) *float64 { return &f }

func openOrderCount(t *testing.T, r *repo.GormRepo, userID uint) int64 {
	t.Helper()

	var n int64
	require.NoError(t, r.DB.Model(&models.Order{}).
		Where("user_id = ? AND ordered = ?", userID, false).
		Count(&n).Error)
	return n
}
