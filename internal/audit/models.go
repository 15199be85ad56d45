package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	id "civicred/pkg/domain"
)

// Event is emitted from domain logic to capture key state transitions. It
// carries identifiers and timestamps only, never ciphertexts or plaintext
// personal data; the trail is meant to be publicly observable.
type Event struct {
	Timestamp      time.Time         `json:"timestamp"`
	Action         Action            `json:"action"`
	RegistrationID id.RegistrationID `json:"registration_id,omitempty"`
	OracleRequest  id.RequestID      `json:"oracle_request_id,omitempty"`
	// CommitmentHash is a SHA-256 hash of the commitment involved, so the
	// trail links issuance to consumption without republishing the value.
	CommitmentHash string `json:"commitment_hash,omitempty"`
	// Actor is the registrar subject for registrar-gated actions.
	Actor string `json:"actor,omitempty"`
	// RequestID is the HTTP correlation id, when the transition originated
	// from an API call.
	RequestID string `json:"request_id,omitempty"`
}

// Action enumerates the auditable state transitions.
type Action string

const (
	ActionRegistrationSubmitted Action = "registration_submitted"
	ActionVerificationRequested Action = "verification_requested"
	ActionEligibilityVerified   Action = "eligibility_verified"
	ActionEligibilityRejected   Action = "eligibility_rejected"
	ActionIssuanceRequested     Action = "issuance_requested"
	ActionCredentialIssued      Action = "credential_issued"
	ActionCredentialConsumed    Action = "credential_consumed"
)

// HashCommitment produces the audit-safe form of a commitment.
func HashCommitment(c id.Commitment) string {
	sum := sha256.Sum256([]byte(c))
	return hex.EncodeToString(sum[:])
}

// Store persists audit events. Append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByRegistration(ctx context.Context, registrationID id.RegistrationID) ([]Event, error)
}

// Sink receives events for delivery to an external system (e.g. kafka).
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
