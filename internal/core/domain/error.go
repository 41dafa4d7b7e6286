package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest         = errors.New("error parsing request")
	ErrCatalogUnavailable = errors.New("catalog is unavailable")

	// * Validation errors.
	ErrInvalidCustomerID   = errors.New("customer id is required")
	ErrInvalidCustomerName = errors.New("customer name is empty or too long")
	ErrInvalidPhone        = errors.New("phone number is not valid")
	ErrInvalidLines        = errors.New("order must contain from 1 to 50 lines")

	// * Lookup errors.
	ErrUnknownProduct = errors.New("product not found in catalog")
	ErrPickupNotFound = errors.New("pickup point not found")
	ErrOrderNotFound  = errors.New("order not found")

	// * Webhook errors.
	ErrForbidden        = errors.New("webhook secret mismatch")
	ErrInvalidSignature = errors.New("webhook signature is invalid")
	ErrMalformedPayload = errors.New("webhook payload is malformed")
	ErrMissingOrderID   = errors.New("webhook metadata has no order id")
	ErrAmountMismatch   = errors.New("paid amount does not match order total")

	// ErrOrderAlreadyPaid is returned from an update function to leave a paid order untouched.
	ErrOrderAlreadyPaid = errors.New("order already paid")

	// * Token errors.
	ErrTokenCreation = errors.New("error creating token")
	ErrInvalidToken  = errors.New("token is invalid")
)
