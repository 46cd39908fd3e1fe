package service

import "errors"

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")

	// Cart and checkout preconditions.
	ErrNoOpenOrder          = errors.New("no items in cart")
	ErrNotInCart            = errors.New("item not in cart")
	ErrInvalidPaymentOption = errors.New("invalid payment option")

	// Charge failures, one per gateway outcome the shopper can see.
	ErrCardDeclined      = errors.New("card declined")
	ErrRateLimited       = errors.New("rate limited")
	ErrInvalidRequest    = errors.New("invalid payment parameters")
	ErrGatewayAuth       = errors.New("gateway authentication failed")
	ErrGatewayConnection = errors.New("gateway network error")
	ErrGateway           = errors.New("gateway error")
	ErrPayment           = errors.New("payment failed")
)
