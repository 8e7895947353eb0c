package card

import (
	"errors"

	"github.com/bbct/bbct/internal/models"
)

// Card-related errors
var (
	// Validation errors
	ErrInvalidCardID     = errors.New("invalid card ID")
	ErrInvalidYear       = errors.New("year out of range")
	ErrNegativeValue     = errors.New("value cannot be negative")
	ErrNegativeQuantity  = errors.New("quantity cannot be negative")
	ErrUnknownCondition  = errors.New("unknown condition")
	ErrUnknownPosition   = errors.New("unknown position")
	ErrFieldTooLong      = errors.New("field too long")
	ErrNoCardsSelected   = errors.New("no cards selected")
	ErrInvalidDraftField = errors.New("invalid number in draft")

	// Business logic errors
	ErrCardNotFound = models.ErrNotFound
)

var validationErrors = []error{
	ErrInvalidCardID,
	ErrInvalidYear,
	ErrNegativeValue,
	ErrNegativeQuantity,
	ErrUnknownCondition,
	ErrUnknownPosition,
	ErrFieldTooLong,
	ErrNoCardsSelected,
	ErrInvalidDraftField,
}

// IsValidationError reports whether err was caused by invalid input
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
