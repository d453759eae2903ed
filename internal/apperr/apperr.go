// Package apperr holds the storefront error taxonomy and its HTTP mapping.
package apperr

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrSettlementFailure  = errors.New("settlement failed")

	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("invalid product")
	ErrUnauthorized    = errors.New("unauthorized")
)

// SettlementError is returned when a paid order could not be allocated.
// The order stays pending and needs an operator.
type SettlementError struct {
	ExternalOrderID string
	Err             error
}

func (e *SettlementError) Error() string {
	return "settle order " + e.ExternalOrderID + ": " + e.Err.Error()
}

func (e *SettlementError) Unwrap() []error {
	return []error{ErrSettlementFailure, e.Err}
}

func Kind(err error) string {
	switch {
	case err == nil:
		return ""

	// stock exhaustion after payment is distinct from stock exhaustion at placement
	case errors.Is(err, ErrSettlementFailure) && errors.Is(err, ErrInsufficientStock):
		return "settlement_stock_exhausted"

	case errors.Is(err, ErrSettlementFailure):
		return "settlement_failure"

	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"

	case errors.Is(err, ErrGatewayUnavailable):
		return "gateway_unavailable"

	case errors.Is(err, ErrOrderNotFound):
		return "order_not_found"

	case errors.Is(err, ErrProductNotFound):
		return "product_not_found"

	case errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidProduct):
		return "bad_request"

	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"

	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"

	case errors.Is(err, context.Canceled):
		return "canceled"

	default:
		return "internal"
	}
}

func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrSettlementFailure):
		return http.StatusInternalServerError

	case errors.Is(err, ErrInsufficientStock):
		return http.StatusConflict

	case errors.Is(err, ErrGatewayUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrProductNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidProduct):
		return http.StatusBadRequest

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout

	default:
		return http.StatusInternalServerError
	}
}

// FromKind maps a kind reported by the storefront API back onto its sentinel.
func FromKind(kind string) error {
	switch kind {
	case "settlement_stock_exhausted":
		return errors.Join(ErrSettlementFailure, ErrInsufficientStock)
	case "settlement_failure":
		return ErrSettlementFailure
	case "insufficient_stock":
		return ErrInsufficientStock
	case "gateway_unavailable":
		return ErrGatewayUnavailable
	case "order_not_found":
		return ErrOrderNotFound
	case "product_not_found":
		return ErrProductNotFound
	case "bad_request":
		return ErrInvalidQuantity
	case "unauthorized":
		return ErrUnauthorized
	case "timeout":
		return context.DeadlineExceeded
	default:
		return nil
	}
}
