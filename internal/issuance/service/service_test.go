package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"civicred/internal/audit"
	commitstore "civicred/internal/commitment/store"
	"civicred/internal/oracle"
	"civicred/internal/registration/models"
	regstore "civicred/internal/registration/store"
	id "civicred/pkg/domain"
	dErrors "civicred/pkg/domain-errors"
)

type fakeOracle struct {
	requests []oracle.Request
	next     int
	err      error
}

func (f *fakeOracle) Dispatch(_ context.Context, req oracle.Request) (id.RequestID, error) {
	if f.err != nil {
		return "", f.err
	}
	f.requests = append(f.requests, req)
	f.next++
	return id.RequestID(fmt.Sprintf("req-%d", f.next)), nil
}

type fixture struct {
	svc           *Service
	registrations *regstore.InMemory
	commitments   *commitstore.InMemory
	pending       *oracle.InMemoryPendingStore
	client        *fakeOracle
	priv          ed25519.PrivateKey
	auditStore    *audit.InMemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	verifier, err := oracle.NewEd25519Verifier(hex.EncodeToString(pub))
	require.NoError(t, err)

	registrations := regstore.NewInMemory()
	commitments := commitstore.NewInMemory()
	pending := oracle.NewInMemoryPendingStore()
	client := &fakeOracle{}
	auditStore := audit.NewInMemoryStore()

	svc := New(registrations, commitments, pending, client, verifier,
		WithAuditPublisher(audit.NewPublisher(auditStore)),
	)
	return &fixture{
		svc:           svc,
		registrations: registrations,
		commitments:   commitments,
		pending:       pending,
		client:        client,
		priv:          priv,
		auditStore:    auditStore,
	}
}

// submitVerified creates a registration already moved to verified status.
func (f *fixture) submitVerified(t *testing.T) id.RegistrationID {
	t.Helper()
	ctx := context.Background()
	regID, err := f.registrations.Create(ctx, models.CiphertextBundle{
		NationalID:       id.Ciphertext("ct-nid"),
		DateOfBirth:      id.Ciphertext("ct-dob"),
		AddressHash:      id.Ciphertext("ct-addr"),
		EligibilityFlags: id.Ciphertext("ct-flags"),
	})
	require.NoError(t, err)
	require.NoError(t, f.registrations.SetStatus(ctx, regID, models.StatusPending, models.StatusVerified))
	return regID
}

func TestRequestIssuanceDispatchesIdentityCiphertexts(t *testing.T) {
	f := newFixture(t)
	regID := f.submitVerified(t)

	requestID, err := f.svc.RequestIssuance(context.Background(), regID, "commitment-a")
	require.NoError(t, err)
	require.Equal(t, id.RequestID("req-1"), requestID)

	require.Len(t, f.client.requests, 1)
	require.Equal(t, oracle.KindIssuance, f.client.requests[0].Kind)
	require.Len(t, f.client.requests[0].Ciphertexts, 2)

	used, err := f.commitments.Used(context.Background(), "commitment-a")
	require.NoError(t, err)
	require.True(t, used)
}

func TestRequestIssuanceRequiresCommitment(t *testing.T) {
	f := newFixture(t)
	regID := f.submitVerified(t)

	_, err := f.svc.RequestIssuance(context.Background(), regID, "")
	require.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestRequestIssuanceUnknownRegistration(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RequestIssuance(context.Background(), id.RegistrationID(42), "commitment-a")
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestRequestIssuanceRequiresVerifiedStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regID, err := f.registrations.Create(ctx, models.CiphertextBundle{
		NationalID:       id.Ciphertext("ct-nid"),
		DateOfBirth:      id.Ciphertext("ct-dob"),
		AddressHash:      id.Ciphertext("ct-addr"),
		EligibilityFlags: id.Ciphertext("ct-flags"),
	})
	require.NoError(t, err)

	_, err = f.svc.RequestIssuance(ctx, regID, "commitment-a")
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotEligible))

	// An unverified rejection must not burn the commitment.
	used, err := f.commitments.Used(ctx, "commitment-a")
	require.NoError(t, err)
	require.False(t, used)
}

func TestRequestIssuanceCommitmentReuseAcrossRegistrations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.submitVerified(t)
	second := f.submitVerified(t)

	_, err := f.svc.RequestIssuance(ctx, first, "commitment-shared")
	require.NoError(t, err)

	_, err = f.svc.RequestIssuance(ctx, second, "commitment-shared")
	require.True(t, dErrors.HasCode(err, dErrors.CodeCommitmentReused))
}

func TestRequestIssuanceCommitmentAlreadyConsumedAtBallot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regID := f.submitVerified(t)

	// Ballot consumption and issuance reservation share the registry.
	require.NoError(t, f.commitments.MarkUsed(ctx, "commitment-spent"))

	_, err := f.svc.RequestIssuance(ctx, regID, "commitment-spent")
	require.True(t, dErrors.HasCode(err, dErrors.CodeCommitmentReused))
}

func TestRequestIssuanceDispatchFailureReleasesCommitment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regID := f.submitVerified(t)
	f.client.err = errors.New("oracle unreachable")

	_, err := f.svc.RequestIssuance(ctx, regID, "commitment-a")
	require.True(t, dErrors.HasCode(err, dErrors.CodeInternal))

	// The synchronous failure rolls the reservation back.
	used, err := f.commitments.Used(ctx, "commitment-a")
	require.NoError(t, err)
	require.False(t, used)

	f.client.err = nil
	_, err = f.svc.RequestIssuance(ctx, regID, "commitment-a")
	require.NoError(t, err)
}

func (f *fixture) issue(t *testing.T, regID id.RegistrationID, commitment id.Commitment, value string) id.RequestID {
	t.Helper()
	ctx := context.Background()
	requestID, err := f.svc.RequestIssuance(ctx, regID, commitment)
	require.NoError(t, err)
	result := oracle.EncodeCredentials([]string{value})
	proof := oracle.SignResult(f.priv, requestID, result)
	require.NoError(t, f.svc.HandleResult(ctx, requestID, result, proof))
	return requestID
}

func TestHandleResultStoresCredential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regID := f.submitVerified(t)

	f.issue(t, regID, "commitment-a", "cred-value-1")

	value, issued, err := f.svc.GetCredential(ctx, regID)
	require.NoError(t, err)
	require.True(t, issued)
	require.Equal(t, "cred-value-1", value)
}

func TestHandleResultDuplicateCallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regID := f.submitVerified(t)

	requestID := f.issue(t, regID, "commitment-a", "cred-value-1")

	result := oracle.EncodeCredentials([]string{"cred-value-1"})
	proof := oracle.SignResult(f.priv, requestID, result)
	err := f.svc.HandleResult(ctx, requestID, result, proof)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnknownRequest))

	// The stored value is untouched.
	value, issued, err := f.svc.GetCredential(ctx, regID)
	require.NoError(t, err)
	require.True(t, issued)
	require.Equal(t, "cred-value-1", value)
}

func TestHandleResultSpoofedRequestID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regID := f.submitVerified(t)

	result := oracle.EncodeCredentials([]string{"cred-forged"})
	proof := oracle.SignResult(f.priv, "req-forged", result)
	err := f.svc.HandleResult(ctx, "req-forged", result, proof)
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnknownRequest))

	_, issued, err := f.svc.GetCredential(ctx, regID)
	require.NoError(t, err)
	require.False(t, issued)
}

func TestHandleResultInvalidProofLeavesRequestPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regID := f.submitVerified(t)

	requestID, err := f.svc.RequestIssuance(ctx, regID, "commitment-a")
	require.NoError(t, err)

	result := oracle.EncodeCredentials([]string{"cred-value-1"})
	err = f.svc.HandleResult(ctx, requestID, result, []byte("bogus"))
	require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidProof))

	// Nothing was written and the entry stays pending; a later valid
	// callback completes issuance.
	_, issued, err := f.svc.GetCredential(ctx, regID)
	require.NoError(t, err)
	require.False(t, issued)

	proof := oracle.SignResult(f.priv, requestID, result)
	require.NoError(t, f.svc.HandleResult(ctx, requestID, result, proof))
}

func TestHandleResultEmptyCredentialList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regID := f.submitVerified(t)

	requestID, err := f.svc.RequestIssuance(ctx, regID, "commitment-a")
	require.NoError(t, err)

	result := oracle.EncodeCredentials(nil)
	proof := oracle.SignResult(f.priv, requestID, result)
	err = f.svc.HandleResult(ctx, requestID, result, proof)
	require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidProof))
}

func TestHandleResultExtraValuesKeepFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regID := f.submitVerified(t)

	requestID, err := f.svc.RequestIssuance(ctx, regID, "commitment-a")
	require.NoError(t, err)

	result := oracle.EncodeCredentials([]string{"cred-primary", "cred-reserved"})
	proof := oracle.SignResult(f.priv, requestID, result)
	require.NoError(t, f.svc.HandleResult(ctx, requestID, result, proof))

	value, issued, err := f.svc.GetCredential(ctx, regID)
	require.NoError(t, err)
	require.True(t, issued)
	require.Equal(t, "cred-primary", value)
}

func TestIssuedCredentialBlocksSecondRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	regID := f.submitVerified(t)

	f.issue(t, regID, "commitment-a", "cred-value-1")

	_, err := f.svc.RequestIssuance(ctx, regID, "commitment-b")
	require.True(t, dErrors.HasCode(err, dErrors.CodeAlreadyIssued))

	// The second commitment was not burned by the rejected request.
	used, err := f.commitments.Used(ctx, "commitment-b")
	require.NoError(t, err)
	require.False(t, used)
}

func TestGetCredentialBeforeIssuance(t *testing.T) {
	f := newFixture(t)
	regID := f.submitVerified(t)

	value, issued, err := f.svc.GetCredential(context.Background(), regID)
	require.NoError(t, err)
	require.False(t, issued)
	require.Empty(t, value)

	_, _, err = f.svc.GetCredential(context.Background(), id.RegistrationID(404))
	require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestAuditTrail(t *testing.T) {
	f := newFixture(t)
	regID := f.submitVerified(t)

	f.issue(t, regID, "commitment-a", "cred-value-1")

	events, err := f.auditStore.ListByRegistration(context.Background(), regID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, audit.ActionIssuanceRequested, events[0].Action)
	require.NotEmpty(t, events[0].CommitmentHash)
	require.Equal(t, audit.ActionCredentialIssued, events[1].Action)
}
