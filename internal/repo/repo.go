package repo

import (
	"errors"

	"gorm.io/gorm"
)

// Storage-level outcomes the flows above need to tell apart.
var (
	ErrItemNotFound = errors.New("item not found")
	ErrNoOpenOrder  = errors.New("no open order")
	ErrNotInCart    = errors.New("item not in cart")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
