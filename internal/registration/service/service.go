package service

import (
	"context"
	"log/slog"

	"civicred/internal/audit"
	"civicred/internal/platform/metrics"
	"civicred/internal/platform/middleware"
	"civicred/internal/registration/models"
	id "civicred/pkg/domain"
	dErrors "civicred/pkg/domain-errors"
)

// Store is the registration store surface this service needs.
type Store interface {
	Create(ctx context.Context, ciphertexts models.CiphertextBundle) (id.RegistrationID, error)
}

// AuditPublisher records state transitions on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service accepts encrypted registrations. No validation of ciphertext
// content happens here; correctness is established later via verification.
type Service struct {
	store   Store
	logger  *slog.Logger
	audits  AuditPublisher
	metrics *metrics.Metrics
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

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stores the four opaque ciphertext handles and returns the allocated
// registration id. The empty credential record is created atomically by the
// store.
func (s *Service) Submit(ctx context.Context, ciphertexts models.CiphertextBundle) (id.RegistrationID, error) {
	if len(ciphertexts.NationalID) == 0 || len(ciphertexts.DateOfBirth) == 0 ||
		len(ciphertexts.AddressHash) == 0 || len(ciphertexts.EligibilityFlags) == 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "all four ciphertext handles are required")
	}

	regID, err := s.store.Create(ctx, ciphertexts)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "registration submitted",
			"registration_id", regID,
			"request_id", middleware.GetRequestID(ctx),
		)
	}
	if s.audits != nil {
		_ = s.audits.Emit(ctx, audit.Event{
			Action:         audit.ActionRegistrationSubmitted,
			RegistrationID: regID,
			RequestID:      middleware.GetRequestID(ctx),
		})
	}
	if s.metrics != nil {
		s.metrics.RegistrationsSubmitted.Inc()
	}
	return regID, nil
}
