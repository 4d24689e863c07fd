package rental

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the book, order item, or license could not be
	// located for the caller.
	ErrNotFound = errors.New("rental: not found")
	// ErrNoDigitalVersion is returned when issuing a digital license for a
	// book without a digital asset.
	ErrNoDigitalVersion = errors.New("rental: book has no digital version")
	// ErrUnpaidRental is returned when the backing order has not been paid.
	ErrUnpaidRental = errors.New("rental: order not paid")
	// ErrInsufficientInventory is returned when no physical copy is left to
	// rent out.
	ErrInsufficientInventory = errors.New("rental: insufficient inventory")
	// ErrLicenseInactive is returned when verifying against a closed license.
	ErrLicenseInactive = errors.New("rental: license not active")
	// ErrInvalidToken is returned when the presented token does not match.
	ErrInvalidToken = errors.New("rental: invalid access token")
	// ErrLicenseExpired is returned when the license end date has passed.
	// Expiry is terminal regardless of the stored active flag.
	ErrLicenseExpired = errors.New("rental: license expired")
)

// DuplicateActiveRentalError reports an existing active license for the same
// user and book. The existing license id is surfaced so clients can resume it.
type DuplicateActiveRentalError struct {
	ExistingLicenseID string
}

func (e *DuplicateActiveRentalError) Error() string {
	return fmt.Sprintf("rental: active license %s already exists for this book", e.ExistingLicenseID)
}
