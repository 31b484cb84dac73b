package domain

import "errors"

// Validation and conflict errors: the caller must change its input before retrying.
var (
	ErrInvalidMember       = errors.New("member is missing or inactive")
	ErrProductUnavailable  = errors.New("product is not available")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateCardNumber = errors.New("card number already exists")
	ErrInvalidTransition   = errors.New("order is not in a transitionable state")
	ErrCurrencyMismatch    = errors.New("currency mismatch")

	// ErrDuplicateOrderNumber is the losing side of an order-number
	// collision, settlement retries once with a fresh suffix.
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// Not-found errors.
var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrReceiptNotFound = errors.New("receipt not found")
)

// ErrBalanceNotFound signals a provisioning bug: a member without a balance
// row should be impossible because the pair is created in one transaction.
var ErrBalanceNotFound = errors.New("member balance not found")
