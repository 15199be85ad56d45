// Package service implements the eligibility verification coordinator: it
// dispatches asynchronous decryption/verification requests against stored
// registrations and processes the oracle's callbacks.
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

// RegistrationStore is the registration surface this coordinator needs.
type RegistrationStore interface {
	Get(ctx context.Context, regID id.RegistrationID) (*models.EncryptedRegistration, error)
	SetStatus(ctx context.Context, regID id.RegistrationID, from, to models.Status) error
}

// AuditPublisher records state transitions on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service coordinates verification requests and their callbacks.
type Service struct {
	registrations RegistrationStore
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

func New(registrations RegistrationStore, pending oracle.PendingStore, client oracle.Client, verifier oracle.ProofVerifier, opts ...Option) *Service {
	s := &Service{
		registrations: registrations,
		pending:       pending,
		client:        client,
		verifier:      verifier,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestVerification packages the registration's ciphertexts into an oracle
// request and records the pending entry. The call returns as soon as the
// request is dispatched; the eligibility outcome arrives via HandleResult.
// Registrar authorization is enforced at the transport boundary.
func (s *Service) RequestVerification(ctx context.Context, regID id.RegistrationID) (id.RequestID, error) {
	reg, err := s.registrations.Get(ctx, regID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	switch reg.Status {
	case models.StatusIneligible:
		return "", dErrors.New(dErrors.CodeNotEligible, "registration is terminally ineligible")
	case models.StatusVerified:
		return "", dErrors.New(dErrors.CodeValidation, "registration already verified")
	}

	requestID, err := s.client.Dispatch(ctx, oracle.Request{
		Kind:           oracle.KindVerification,
		RegistrationID: regID,
		Ciphertexts: []id.Ciphertext{
			reg.Ciphertexts.NationalID,
			reg.Ciphertexts.DateOfBirth,
			reg.Ciphertexts.AddressHash,
			reg.Ciphertexts.EligibilityFlags,
		},
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to dispatch verification request")
	}

	if err := s.pending.Create(ctx, oracle.PendingRequest{
		RequestID:      requestID,
		Kind:           oracle.KindVerification,
		RegistrationID: regID,
	}); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to record pending verification")
	}

	s.logAudit(ctx, audit.Event{
		Action:         audit.ActionVerificationRequested,
		RegistrationID: regID,
		OracleRequest:  requestID,
		Actor:          middleware.GetRegistrar(ctx),
	})
	if s.metrics != nil {
		s.metrics.VerificationsRequested.Inc()
		s.metrics.PendingRequests.Inc()
	}
	return requestID, nil
}

// HandleResult is the single verified entry point for verification callbacks.
// The proof is checked before the clear result is trusted; a failed check
// leaves the pending entry intact for out-of-band resubmission. A consumed
// request id can never be processed again, and the first outcome recorded
// for a registration wins; a result that loses that race is rejected.
func (s *Service) HandleResult(ctx context.Context, requestID id.RequestID, clearResult, proof []byte) error {
	pending, err := s.pending.Get(ctx, requestID, oracle.KindVerification)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordCallbackFailure(ctx, requestID, "unknown_request")
			return dErrors.New(dErrors.CodeUnknownRequest, "no pending verification for request id")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pending verification")
	}

	if err := s.verifier.Verify(requestID, clearResult, proof); err != nil {
		s.recordCallbackFailure(ctx, requestID, "invalid_proof")
		return dErrors.Wrap(err, dErrors.CodeInvalidProof, "verification callback proof rejected")
	}

	eligible, err := oracle.DecodeEligibility(clearResult)
	if err != nil {
		s.recordCallbackFailure(ctx, requestID, "malformed_result")
		return dErrors.Wrap(err, dErrors.CodeInvalidProof, "verification result undecodable")
	}

	// Consuming the entry before the status write keeps duplicate callbacks
	// on the UnknownRequest path even when they race each other.
	if err := s.pending.Take(ctx, requestID, oracle.KindVerification); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordCallbackFailure(ctx, requestID, "unknown_request")
			return dErrors.New(dErrors.CodeUnknownRequest, "verification callback already processed")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume pending verification")
	}
	if s.metrics != nil {
		s.metrics.PendingRequests.Dec()
	}

	if !eligible {
		if err := s.registrations.SetStatus(ctx, pending.RegistrationID, models.StatusPending, models.StatusIneligible); err != nil {
			if errors.Is(err, sentinel.ErrInvalidState) {
				s.recordCallbackFailure(ctx, requestID, "stale_result")
				return dErrors.New(dErrors.CodeUnknownRequest, "verification outcome already recorded")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark registration ineligible")
		}
		s.logAudit(ctx, audit.Event{
			Action:         audit.ActionEligibilityRejected,
			RegistrationID: pending.RegistrationID,
			OracleRequest:  requestID,
		})
		if s.metrics != nil {
			s.metrics.EligibilityRejected.Inc()
		}
		return dErrors.New(dErrors.CodeNotEligible, "registrant is not eligible")
	}

	if err := s.registrations.SetStatus(ctx, pending.RegistrationID, models.StatusPending, models.StatusVerified); err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			s.recordCallbackFailure(ctx, requestID, "stale_result")
			return dErrors.New(dErrors.CodeUnknownRequest, "verification outcome already recorded")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark registration verified")
	}
	s.logAudit(ctx, audit.Event{
		Action:         audit.ActionEligibilityVerified,
		RegistrationID: pending.RegistrationID,
		OracleRequest:  requestID,
	})
	if s.metrics != nil {
		s.metrics.EligibilityVerified.Inc()
	}
	return nil
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
	// Unknown and unverifiable callbacks are security signals, not noise.
	if s.logger != nil {
		s.logger.WarnContext(ctx, "verification callback rejected",
			"oracle_request_id", requestID,
			"reason", reason,
		)
	}
	if s.metrics != nil {
		s.metrics.CallbackFailures.WithLabelValues(reason).Inc()
	}
}
