package transport

import "github.com/mvolkov/storefront/internal/models"

type CheckoutRequest struct {
	StreetAddress    string `json:"street_address"`
	ApartmentAddress string `json:"apartment_address"`
	Country          string `json:"country"`
	ZipCode          string `json:"zip_code"`
	PaymentOption    string `json:"payment_option"`
}

type CheckoutResponse struct {
	Message       string `json:"message"`
	PaymentOption string `json:"payment_option"`
	Next          string `json:"next"`
}

type PaymentRequest struct {
	// Opaque payment source token obtained client-side (Stripe.js).
	StripeToken string `json:"stripe_token"`
}

type PaymentResponse struct {
	Message string        `json:"message"`
	OrderID uint          `json:"order_id"`
	Payment models.Payment `json:"payment"`
}

type ItemRequest struct {
	Title         string   `json:"title"`
	Price         float64  `json:"price"`
	DiscountPrice *float64 `json:"discount_price,omitempty"`
	Category      string   `json:"category"`
	Label         string   `json:"label"`
	Slug          string   `json:"slug,omitempty"`
	Description   string   `json:"description"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ItemListResponse struct {
	Data []models.Item `json:"data"`
	Meta PageMeta      `json:"meta"`
}

type CartResponse struct {
	Message string        `json:"message,omitempty"`
	Order   *models.Order `json:"order"`
	Total   float64       `json:"total"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
