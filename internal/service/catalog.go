package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/repo"
	"github.com/mvolkov/storefront/internal/search"
	"github.com/mvolkov/storefront/internal/transport"
	"github.com/mvolkov/storefront/internal/util"
)

type CatalogService struct {
	Repo  *repo.GormRepo
	Index *search.Index
}

func (s *CatalogService) List(ctx context.Context, page, size int) ([]models.Item, transport.PageMeta, error) {
	offset, limit := util.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	items, total, err := s.Repo.ListItems(ctx, offset, limit)
	if err != nil {
		return nil, transport.PageMeta{}, err
	}

	meta := transport.PageMeta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
	return items, meta, nil
}

func (s *CatalogService) Get(ctx context.Context, slug string) (*models.Item, error) {
	item, err := s.Repo.GetItemBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repo.ErrItemNotFound) {
			return nil, fmt.Errorf("item %q: %w", slug, ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) Create(ctx context.Context, req transport.ItemRequest) (*models.Item, error) {
	if err := validateItem(req); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		var err error
		slug, err = s.uniqueSlug(ctx, req.Title)
		if err != nil {
			return nil, err
		}
	}

	item := &models.Item{
		Title:         req.Title,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Category:      req.Category,
		Label:         req.Label,
		Slug:          slug,
		Description:   req.Description,
	}
	if err := s.Repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.Index.IndexItem(ctx, *item); err != nil {
		return item, err
	}
	return item, nil
}

func (s *CatalogService) Update(ctx context.Context, slug string, req transport.ItemRequest) (*models.Item, error) {
	if err := validateItem(req); err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	item.Title = req.Title
	item.Price = req.Price
	item.DiscountPrice = req.DiscountPrice
	item.Category = req.Category
	item.Label = req.Label
	item.Description = req.Description

	if err := s.Repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.Index.IndexItem(ctx, *item); err != nil {
		return item, err
	}
	return item, nil
}

func (s *CatalogService) Delete(ctx context.Context, slug string) (uint, error) {
	item, err := s.Get(ctx, slug)
	if err != nil {
		return 0, err
	}
	if err := s.Repo.DeleteItem(ctx, item.ID); err != nil {
		return 0, err
	}

	if err := s.Index.DeleteItem(ctx, item.ID); err != nil {
		return item.ID, err
	}
	return item.ID, nil
}

func (s *CatalogService) Search(ctx context.Context, query string, page, size int) (int64, []models.Item, error) {
	from, limit := util.Calculate(page, size)
	return s.Index.Search(ctx, query, from, limit)
}

func validateItem(req transport.ItemRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("title required: %w", ErrValidation)
	}
	if req.Price < 0 {
		return fmt.Errorf("price must be >= 0: %w", ErrValidation)
	}
	switch req.Category {
	case models.CategoryShirt, models.CategorySportWear, models.CategoryOutwear:
	default:
		return fmt.Errorf("unknown category %q: %w", req.Category, ErrValidation)
	}
	switch req.Label {
	case models.LabelPrimary, models.LabelSecondary, models.LabelDanger:
	default:
		return fmt.Errorf("unknown label %q: %w", req.Label, ErrValidation)
	}
	return nil
}

func (s *CatalogService) uniqueSlug(ctx context.Context, title string) (string, error) {
	slug := Slugify(title)
	taken, err := s.Repo.SlugTaken(ctx, slug)
	if err != nil {
		return "", err
	}
	if taken {
		slug = slug + "-" + uuid.NewString()[:8]
	}
	return slug, nil
}

// Slugify lowercases the title and squeezes every non-alphanumeric run
// into a single dash.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
