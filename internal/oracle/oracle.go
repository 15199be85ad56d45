// Package oracle defines the contract with the external decryption and
// proof-generation service. The core never performs homomorphic operations
// itself: it dispatches opaque ciphertext handles, records the pending
// request, and later verifies the callback's proof before trusting anything
// in it.
package oracle

import (
	"context"
	"time"

	id "civicred/pkg/domain"
)

// Kind tags a request by the coordinator it belongs to. Callbacks are only
// matched against pending entries of the same kind, so a verification
// callback can never resolve an issuance request.
type Kind string

const (
	KindVerification Kind = "verification"
	KindIssuance     Kind = "issuance"
)

// Request is an outbound decryption/verification job.
type Request struct {
	Kind           Kind
	RegistrationID id.RegistrationID
	Ciphertexts    []id.Ciphertext
}

// Client dispatches requests to the oracle. The returned request id is
// oracle-assigned; the core treats it as unguessable and relies on nothing
// but its uniqueness.
type Client interface {
	Dispatch(ctx context.Context, req Request) (id.RequestID, error)
}

// PendingRequest maps an oracle request id to the domain entity it concerns.
// Created at dispatch time, consumed exactly once when its callback is
// processed.
type PendingRequest struct {
	RequestID      id.RequestID
	Kind           Kind
	RegistrationID id.RegistrationID
	CreatedAt      time.Time
}

// PendingStore is the request ledger. Get does not consume the entry (proof
// verification must be able to fail without losing it); Take removes it and
// is the idempotency point: a second Take for the same id returns
// ErrNotFound.
type PendingStore interface {
	Create(ctx context.Context, pending PendingRequest) error
	Get(ctx context.Context, requestID id.RequestID, kind Kind) (*PendingRequest, error)
	Take(ctx context.Context, requestID id.RequestID, kind Kind) error
}
