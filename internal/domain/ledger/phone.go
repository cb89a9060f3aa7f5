package ledger

import (
	"strings"

	"github.com/khata/backend/internal/domain/shared"
)

// ErrInvalidPhone is returned when a phone number cannot be reduced to a
// 10-digit identity key.
var ErrInvalidPhone = shared.NewDomainError("INVALID_PHONE", "Invalid phone number: expected a 10-digit mobile number")

// PhoneKey is the canonical 10-digit identity of a customer. A customer is
// the same person across every shop that has registered this key.
type PhoneKey string

// String returns the phone key as a plain string
func (p PhoneKey) String() string {
	return string(p)
}

// IsIndianMobile reports whether the key is in the strict Indian mobile
// class (first digit 6-9). Acceptance does not depend on this; it exists
// for display and analytics.
func (p PhoneKey) IsIndianMobile() bool {
	if len(p) != 10 {
		return false
	}
	return p[0] >= '6' && p[0] <= '9'
}

// NormalizePhone canonicalizes heterogeneous phone input into a PhoneKey.
// It strips all non-digit characters, then removes a 0091 / 91 / 0 prefix
// only when doing so still leaves at least 10 digits. The result is
// accepted when exactly 10 digits remain. If prefix stripping does not
// yield 10 digits but the raw digit string is exactly 10 digits, that raw
// string is accepted; the fallback is part of the contract, every caller
// gets it.
func NormalizePhone(raw string) (PhoneKey, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	stripped := digits
	switch {
	case strings.HasPrefix(stripped, "0091") && len(stripped)-4 >= 10:
		stripped = stripped[4:]
	case strings.HasPrefix(stripped, "91") && len(stripped)-2 >= 10:
		stripped = stripped[2:]
	case strings.HasPrefix(stripped, "0") && len(stripped)-1 >= 10:
		stripped = stripped[1:]
	}

	if len(stripped) == 10 {
		return PhoneKey(stripped), nil
	}
	// Fallback for malformed prefixed numbers: the raw digit string itself
	// is a usable 10-digit key.
	if len(digits) == 10 {
		return PhoneKey(digits), nil
	}
	return "", ErrInvalidPhone
}
