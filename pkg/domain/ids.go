// Package domain defines the typed identifiers shared across the service.
//
// The identifiers are deliberately distinct types so a registration id can
// never be passed where an oracle request id is expected. Cross-type
// assignment is a compile error, which is the whole point.
package domain

import (
	"fmt"
	"strconv"
)

// RegistrationID identifies an encrypted registration record. Identifiers are
// allocated sequentially starting at 1 and are never reused.
type RegistrationID uint64

// IsZero reports whether the id is unset. Zero is never a valid id.
func (id RegistrationID) IsZero() bool { return id == 0 }

func (id RegistrationID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseRegistrationID parses a decimal registration id. Zero is rejected
// because ids start at 1.
func ParseRegistrationID(s string) (RegistrationID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse registration id %q: %w", s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("registration id must be positive")
	}
	return RegistrationID(v), nil
}

// RequestID is an oracle-assigned request identifier. It is opaque: the only
// property the service relies on is uniqueness.
type RequestID string

func (id RequestID) IsZero() bool   { return id == "" }
func (id RequestID) String() string { return string(id) }

// Commitment is an opaque, unlinkable value representing a not-yet-spent
// anonymous credential. Its uniqueness in the commitment registry is the
// anti-double-issuance and anti-double-voting mechanism.
type Commitment string

func (c Commitment) IsZero() bool   { return c == "" }
func (c Commitment) String() string { return string(c) }

// Ciphertext is an opaque homomorphic-ciphertext handle. The service carries
// these between the registration store and the oracle without ever
// inspecting the content.
type Ciphertext []byte
