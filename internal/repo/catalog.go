package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/models"
)

func (r *GormRepo) ListItems(ctx context.Context, offset, limit int) ([]models.Item, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Item{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Item
	if err := r.DB.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) GetItemBySlug(ctx context.Context, slug string) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Item{}).
		Where("slug = ?", slug).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) SaveItem(ctx context.Context, item *models.Item) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

func (r *GormRepo) DeleteItem(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Item{}, id).Error
}
