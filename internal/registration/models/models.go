package models

import (
	"time"

	id "civicred/pkg/domain"
)

// Status tracks where a registration sits in the verification state machine.
type Status string

const (
	// StatusPending: submitted, eligibility not yet established.
	StatusPending Status = "pending"
	// StatusVerified: the oracle proved the registrant eligible.
	StatusVerified Status = "verified"
	// StatusIneligible: terminal. No further verification or issuance may
	// proceed; a registrant must submit a new registration.
	StatusIneligible Status = "ineligible"
)

// CiphertextBundle carries the four opaque handles submitted at registration
// time. The service never inspects their content.
type CiphertextBundle struct {
	NationalID       id.Ciphertext
	DateOfBirth      id.Ciphertext
	AddressHash      id.Ciphertext
	EligibilityFlags id.Ciphertext
}

// EncryptedRegistration is one registrant's encrypted record. Immutable once
// created, except for the verification status transition.
type EncryptedRegistration struct {
	ID          id.RegistrationID
	Ciphertexts CiphertextBundle
	Status      Status
	CreatedAt   time.Time
}

// CredentialRecord holds the anonymous credential slot for a registration.
// Created empty atomically with the registration; the issuance callback is
// the only writer and the Issued transition happens exactly once.
type CredentialRecord struct {
	RegistrationID id.RegistrationID
	Value          string
	Issued         bool
}
