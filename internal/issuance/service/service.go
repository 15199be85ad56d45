// Package service implements the credential issuance coordinator: it gates
// issuance on the verification outcome and the commitment registry,
// dispatches the issuance request, and processes the oracle callback that
// mints the anonymous credential.
package service

import (
	"context"
	"errors"
	"log/slog"

	"civicred/internal/audit"
	"civicred/internal/oracle"
	"civicred/internal/platform/metrics"
	"civicred/internal/platform/middleware"
	"civicred/internal/registration/models"
	id "civicred/pkg/domain"
	dErrors "civicred/pkg/domain-errors"
	"civicred/pkg/platform/sentinel"
)

// RegistrationStore is the registration/credential surface this coordinator
// needs.
type RegistrationStore interface {
	Get(ctx context.Context, regID id.RegistrationID) (*models.EncryptedRegistration, error)
	GetCredential(ctx context.Context, regID id.RegistrationID) (*models.CredentialRecord, error)
	MarkIssued(ctx context.Context, regID id.RegistrationID, value string) error
}

// CommitmentRegistry is the used-commitment set shared with the ballot gate.
type CommitmentRegistry interface {
	MarkUsed(ctx context.Context, c id.Commitment) error
	Release(ctx context.Context, c id.Commitment) error
}

// AuditPublisher records state transitions on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service coordinates issuance requests and their callbacks.
type Service struct {
	registrations RegistrationStore
	commitments   CommitmentRegistry
	pending       oracle.PendingStore
	client        oracle.Client
	verifier      oracle.ProofVerifier
	logger        *slog.Logger
	audits        AuditPublisher
	metrics       *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.audits = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(registrations RegistrationStore, commitments CommitmentRegistry, pending oracle.PendingStore, client oracle.Client, verifier oracle.ProofVerifier, opts ...Option) *Service {
	s := &Service{
		registrations: registrations,
		commitments:   commitments,
		pending:       pending,
		client:        client,
		verifier:      verifier,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestIssuance dispatches a credential issuance request for a verified
// registration.
//
// Policy: the commitment is marked used at REQUEST time, not at callback
// time. Two concurrent requests for the same commitment can otherwise both
// be in flight before either completes; reserving up front closes that
// window. The cost is that a dispatched request whose callback never arrives
// or fails its proof permanently burns the commitment. That trade-off favors
// double-issuance safety over retry-friendliness and is deliberate. The one
// exception: if the synchronous dispatch itself fails, the reservation is
// rolled back before this call returns, so a failed call leaves no trace.
func (s *Service) RequestIssuance(ctx context.Context, regID id.RegistrationID, commitment id.Commitment) (id.RequestID, error) {
	if commitment.IsZero() {
		return "", dErrors.New(dErrors.CodeValidation, "commitment is required")
	}

	reg, err := s.registrations.Get(ctx, regID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}

	cred, err := s.registrations.GetCredential(ctx, regID)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential record")
	}
	if cred.Issued {
		return "", dErrors.New(dErrors.CodeAlreadyIssued, "credential already issued")
	}
	if reg.Status != models.StatusVerified {
		return "", dErrors.New(dErrors.CodeNotEligible, "registration is not verified eligible")
	}

	if err := s.commitments.MarkUsed(ctx, commitment); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return "", dErrors.New(dErrors.CodeCommitmentReused, "commitment already used")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to reserve commitment")
	}

	requestID, err := s.client.Dispatch(ctx, oracle.Request{
		Kind:           oracle.KindIssuance,
		RegistrationID: regID,
		Ciphertexts: []id.Ciphertext{
			reg.Ciphertexts.NationalID,
			reg.Ciphertexts.EligibilityFlags,
		},
	})
	if err != nil {
		if releaseErr := s.commitments.Release(ctx, commitment); releaseErr != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to release commitment after dispatch failure",
				"error", releaseErr,
			)
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to dispatch issuance request")
	}

	if err := s.pending.Create(ctx, oracle.PendingRequest{
		RequestID:      requestID,
		Kind:           oracle.KindIssuance,
		RegistrationID: regID,
	}); err != nil {
		// The request is already with the oracle; the commitment stays
		// burned per the request-time policy.
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to record pending issuance")
	}

	s.logAudit(ctx, audit.Event{
		Action:         audit.ActionIssuanceRequested,
		RegistrationID: regID,
		OracleRequest:  requestID,
		CommitmentHash: audit.HashCommitment(commitment),
		Actor:          middleware.GetRegistrar(ctx),
	})
	if s.metrics != nil {
		s.metrics.IssuancesRequested.Inc()
		s.metrics.PendingRequests.Inc()
	}
	return requestID, nil
}

// HandleResult is the single verified entry point for issuance callbacks and
// the only writer of credential values. The written value is the first
// element of the decoded sequence; additional elements are reserved and are
// surfaced in the log rather than silently dropped.
func (s *Service) HandleResult(ctx context.Context, requestID id.RequestID, clearResult, proof []byte) error {
	pending, err := s.pending.Get(ctx, requestID, oracle.KindIssuance)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordCallbackFailure(ctx, requestID, "unknown_request")
			return dErrors.New(dErrors.CodeUnknownRequest, "no pending issuance for request id")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pending issuance")
	}

	if err := s.verifier.Verify(requestID, clearResult, proof); err != nil {
		s.recordCallbackFailure(ctx, requestID, "invalid_proof")
		return dErrors.Wrap(err, dErrors.CodeInvalidProof, "issuance callback proof rejected")
	}

	credentials, err := oracle.DecodeCredentials(clearResult)
	if err != nil {
		s.recordCallbackFailure(ctx, requestID, "malformed_result")
		return dErrors.Wrap(err, dErrors.CodeInvalidProof, "issuance result undecodable")
	}

	// Duplicate-callback defense in depth: the pending entry is the primary
	// guard, the issued flag the second. Checked before any mutation so a
	// losing callback leaves everything as it found it.
	cred, err := s.registrations.GetCredential(ctx, pending.RegistrationID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential record")
	}
	if cred.Issued {
		s.recordCallbackFailure(ctx, requestID, "already_issued")
		return dErrors.New(dErrors.CodeAlreadyIssued, "credential already issued")
	}

	if err := s.pending.Take(ctx, requestID, oracle.KindIssuance); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordCallbackFailure(ctx, requestID, "unknown_request")
			return dErrors.New(dErrors.CodeUnknownRequest, "issuance callback already processed")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume pending issuance")
	}
	if s.metrics != nil {
		s.metrics.PendingRequests.Dec()
	}

	if err := s.registrations.MarkIssued(ctx, pending.RegistrationID, credentials[0]); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return dErrors.New(dErrors.CodeAlreadyIssued, "credential already issued")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store issued credential")
	}

	if len(credentials) > 1 && s.logger != nil {
		s.logger.InfoContext(ctx, "issuance result carried reserved extra values",
			"registration_id", pending.RegistrationID,
			"extra_values", len(credentials)-1,
		)
	}

	s.logAudit(ctx, audit.Event{
		Action:         audit.ActionCredentialIssued,
		RegistrationID: pending.RegistrationID,
		OracleRequest:  requestID,
	})
	if s.metrics != nil {
		s.metrics.CredentialsIssued.Inc()
	}
	return nil
}

// GetCredential returns the credential value and issued flag for a
// registration. Read-only: before issuance it reports the empty value and
// issued=false.
func (s *Service) GetCredential(ctx context.Context, regID id.RegistrationID) (string, bool, error) {
	cred, err := s.registrations.GetCredential(ctx, regID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", false, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return "", false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load credential record")
	}
	return cred.Value, cred.Issued, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if event.RequestID == "" {
		event.RequestID = middleware.GetRequestID(ctx)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event.Action),
			"registration_id", event.RegistrationID,
			"oracle_request_id", event.OracleRequest,
			"request_id", event.RequestID,
		)
	}
	if s.audits != nil {
		_ = s.audits.Emit(ctx, event)
	}
}

func (s *Service) recordCallbackFailure(ctx context.Context, requestID id.RequestID, reason string) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, "issuance callback rejected",
			"oracle_request_id", requestID,
			"reason", reason,
		)
	}
	if s.metrics != nil {
		s.metrics.CallbackFailures.WithLabelValues(reason).Inc()
	}
}
