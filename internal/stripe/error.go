package stripe

import (
	"fmt"
	"net/http"
)

// Category buckets every charge failure into the handful of outcomes the
// storefront reports to the shopper.
type Category string

const (
	CategoryCard           Category = "card_declined"
	CategoryRateLimit      Category = "rate_limited"
	CategoryInvalidRequest Category = "invalid_request"
	CategoryAuthentication Category = "authentication"
	CategoryConnection     Category = "connection"
	CategoryGateway        Category = "gateway"
)

// Error is a non-2xx response from the gateway.
type Error struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("stripe: %s (type=%s, code=%s)", e.Message, e.Type, e.Code)
	}
	return fmt.Sprintf("stripe: request failed with status %d", e.StatusCode)
}

func (e *Error) Category() Category {
	switch e.Type {
	case "card_error":
		return CategoryCard
	case "rate_limit_error":
		return CategoryRateLimit
	case "invalid_request_error":
		return CategoryInvalidRequest
	case "authentication_error":
		return CategoryAuthentication
	}
	switch e.StatusCode {
	case http.StatusTooManyRequests:
		return CategoryRateLimit
	case http.StatusUnauthorized:
		return CategoryAuthentication
	}
	return CategoryGateway
}

// ConnectionError wraps a transport-level failure reaching the gateway.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("stripe: connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Category() Category { return CategoryConnection }
