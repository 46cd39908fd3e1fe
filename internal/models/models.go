package models

import (
	"time"
)

const (
	CategoryShirt     = "S"
	CategorySportWear = "SW"
	CategoryOutwear   = "OW"
)

const (
	LabelPrimary   = "P"
	LabelSecondary = "S"
	LabelDanger    = "D"
)

type Item struct {
	ID            uint     `gorm:"primaryKey;autoIncrement"  json:"id"`
	Title         string   `gorm:"not null"                  json:"title"`
	Price         float64  `gorm:"not null"                  json:"price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	Category      string   `gorm:"size:2;not null"           json:"category"`
	Label         string   `gorm:"size:1;not null"           json:"label"`
	Slug          string   `gorm:"uniqueIndex;not null"      json:"slug"`
	Description   string   `gorm:"not null"                  json:"description"`
}

// FinalPrice is the per-unit price the shopper actually pays. A set
// discount wins even when it is zero; only an absent discount falls back
// to the base price.
func (i Item) FinalPrice() float64 {
	if i.DiscountPrice != nil {
		return *i.DiscountPrice
	}
	return i.Price
}

type OrderItem struct {
	ID       uint `gorm:"primaryKey"                  json:"id"`
	UserID   uint `gorm:"index;not null"              json:"user_id"`
	ItemID   uint `gorm:"not null"                    json:"item_id"`
	Item     Item `json:"item"`
	Quantity uint `gorm:"default:1;check:quantity>0"  json:"quantity"`
	Ordered  bool `gorm:"default:false"               json:"ordered"`
}

func (oi OrderItem) LineTotal() float64 {
	return float64(oi.Quantity) * oi.Item.FinalPrice()
}

// Order is a user's cart while Ordered is false and a finalized purchase
// once payment succeeds. The partial unique index keeps "at most one open
// order per user" true even under concurrent add-to-cart requests.
type Order struct {
	ID               uint            `gorm:"primaryKey"                                                     json:"id"`
	UserID           uint            `gorm:"not null;uniqueIndex:idx_user_open_order,where:ordered = false" json:"user_id"`
	Items            []OrderItem     `gorm:"many2many:order_line_items"                                     json:"items"`
	StartDate        time.Time       `gorm:"autoCreateTime"                                                 json:"start_date"`
	OrderedDate      *time.Time      `json:"ordered_date,omitempty"`
	Ordered          bool            `gorm:"default:false;not null"                                         json:"ordered"`
	BillingAddressID *uint           `json:"billing_address_id,omitempty"`
	BillingAddress   *BillingAddress `json:"billing_address,omitempty"`
	PaymentID        *uint           `json:"payment_id,omitempty"`
	Payment          *Payment        `json:"payment,omitempty"`
}

type BillingAddress struct {
	ID               uint   `gorm:"primaryKey"      json:"id"`
	UserID           uint   `gorm:"index;not null"  json:"user_id"`
	StreetAddress    string `gorm:"not null"        json:"street_address"`
	ApartmentAddress string `json:"apartment_address"`
	Country          string `gorm:"size:2;not null" json:"country"`
	ZipCode          string `gorm:"not null"        json:"zip_code"`
}

type Payment struct {
	ID             uint      `gorm:"primaryKey"     json:"id"`
	StripeChargeID string    `gorm:"not null"       json:"stripe_charge_id"`
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	Amount         float64   `gorm:"not null"       json:"amount"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}
