package oracle

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	id "civicred/pkg/domain"
)

// ErrInvalidProof is returned when a callback's proof does not verify against
// the oracle's published key material. The callback must not be trusted and
// the pending request stays open for out-of-band resubmission.
var ErrInvalidProof = errors.New("invalid proof")

// ProofVerifier checks an oracle callback before its clear result is trusted.
type ProofVerifier interface {
	Verify(requestID id.RequestID, clearResult, proof []byte) error
}

// Ed25519Verifier verifies detached Ed25519 signatures over the canonical
// callback payload. The oracle publishes its verification key; how the oracle
// produces the signature (and the multi-party computation behind the result)
// is its own business.
type Ed25519Verifier struct {
	key ed25519.PublicKey
}

// NewEd25519Verifier parses a hex-encoded verification key.
func NewEd25519Verifier(hexKey string) (*Ed25519Verifier, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode oracle verification key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("oracle verification key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return &Ed25519Verifier{key: ed25519.PublicKey(raw)}, nil
}

func (v *Ed25519Verifier) Verify(requestID id.RequestID, clearResult, proof []byte) error {
	if !ed25519.Verify(v.key, proofPayload(requestID, clearResult), proof) {
		return ErrInvalidProof
	}
	return nil
}

// SignResult produces the proof the verifier expects. Used by the oracle
// simulator and by tests.
func SignResult(key ed25519.PrivateKey, requestID id.RequestID, clearResult []byte) []byte {
	return ed25519.Sign(key, proofPayload(requestID, clearResult))
}

// proofPayload binds the signature to both the request id and the result so
// a valid proof for one request cannot be replayed against another.
func proofPayload(requestID id.RequestID, clearResult []byte) []byte {
	payload := make([]byte, 0, len(requestID)+1+len(clearResult))
	payload = append(payload, []byte(requestID)...)
	payload = append(payload, 0x00)
	payload = append(payload, clearResult...)
	return payload
}
