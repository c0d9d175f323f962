package service

import (
	"errors"

	"github.com/minhtri-dev/coffeeshop/internal/pricing"
)

// Domain errors, wrapped with context via fmt.Errorf("%w: ...") and mapped to
// HTTP codes in the handlers.
var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")

	ErrInvalidQuantity    = pricing.ErrInvalidQuantity
	ErrProductUnavailable = errors.New("product unavailable")

	ErrVoucherNotFound     = errors.New("voucher not found")
	ErrVoucherExpired      = errors.New("voucher expired")
	ErrVoucherNotYetActive = errors.New("voucher not yet active")
	ErrMinimumNotMet       = errors.New("minimum order amount not met")
	ErrNotApplicable       = errors.New("voucher not applicable to cart")
	ErrUsageLimitReached   = errors.New("voucher usage limit reached")
	ErrPerUserLimitReached = errors.New("voucher per-user limit reached")

	ErrInsufficientPoints = errors.New("insufficient points")

	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrConcurrentModification surfaces after the internal single retry of a
	// conflicting commit; the caller may retry the whole call once.
	ErrConcurrentModification = errors.New("concurrent modification")
)
