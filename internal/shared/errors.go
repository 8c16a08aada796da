package shared

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates resource not found or soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("conflict")
	// ErrValidation indicates malformed or missing required input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// BusinessRuleError signals a transition between defined states that a
// business rule disallows.
type BusinessRuleError struct {
	Rule string
}

func (e *BusinessRuleError) Error() string {
	return e.Rule
}

// NewBusinessRuleError builds a BusinessRuleError with a formatted message.
func NewBusinessRuleError(format string, args ...any) *BusinessRuleError {
	return &BusinessRuleError{Rule: fmt.Sprintf(format, args...)}
}

// StockShortfall describes one product whose stock cannot cover a request.
type StockShortfall struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Available   int64  `json:"available"`
	Requested   int64  `json:"requested"`
}

// InsufficientStockError carries the shortfall for every offending product,
// not just the first.
type InsufficientStockError struct {
	Items []StockShortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		parts = append(parts, fmt.Sprintf("%s: requested %d, available %d", item.ProductName, item.Requested, item.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}
