package rental

import (
	"strings"
	"time"
)

// Digital rental classes.
const (
	ClassSingleRead     = "SINGLE_READ"
	ClassTimeLimited    = "TIME_LIMITED"
	ClassUnlimitedReads = "UNLIMITED_READS"
)

// Hardcopy rental classes.
const (
	ClassShortTerm    = "SHORT_TERM"
	ClassMediumTerm   = "MEDIUM_TERM"
	ClassLongTerm     = "LONG_TERM"
	ClassExtendedTerm = "EXTENDED_TERM"
)

// DefaultGuaranteeBps is the guarantee deposit as basis points of the list
// price when no override is configured.
const DefaultGuaranteeBps = 8000

// InitialCondition is recorded on every hardcopy license at issue time.
const InitialCondition = "EXCELLENT"

// DigitalDuration maps a digital rental class to its license duration.
// Unknown classes fall back to the single-read window.
func DigitalDuration(class string) (string, time.Duration) {
	switch strings.ToUpper(strings.TrimSpace(class)) {
	case ClassTimeLimited:
		return ClassTimeLimited, 7 * 24 * time.Hour
	case ClassUnlimitedReads:
		return ClassUnlimitedReads, 30 * 24 * time.Hour
	case ClassSingleRead:
		return ClassSingleRead, 24 * time.Hour
	default:
		return ClassSingleRead, 24 * time.Hour
	}
}

// HardcopyTerms maps a hardcopy rental class to its duration and rental fee
// as basis points of the list price. Unknown classes fall back to short term.
func HardcopyTerms(class string) (string, time.Duration, int64) {
	switch strings.ToUpper(strings.TrimSpace(class)) {
	case ClassMediumTerm:
		return ClassMediumTerm, 14 * 24 * time.Hour, 2500
	case ClassLongTerm:
		return ClassLongTerm, 30 * 24 * time.Hour, 4000
	case ClassExtendedTerm:
		return ClassExtendedTerm, 60 * 24 * time.Hour, 6000
	case ClassShortTerm:
		return ClassShortTerm, 7 * 24 * time.Hour, 1500
	default:
		return ClassShortTerm, 7 * 24 * time.Hour, 1500
	}
}

// GuaranteeAmount computes the deposit charged for a hardcopy rental.
func GuaranteeAmount(listPrice int64, bps int) int64 {
	if bps <= 0 {
		bps = DefaultGuaranteeBps
	}
	if listPrice <= 0 {
		return 0
	}
	return (listPrice * int64(bps)) / 10000
}

// RentalFee computes the hardcopy rental fee from the list price and the
// class fee basis points.
func RentalFee(listPrice, feeBps int64) int64 {
	if listPrice <= 0 || feeBps <= 0 {
		return 0
	}
	return (listPrice * feeBps) / 10000
}
