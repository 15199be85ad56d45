// Package service implements the credential consumption gate invoked by the
// external ballot-casting system at vote time. It checks-and-sets against
// the same commitment registry issuance reserves from, so the ballot system
// never needs to trust the issuance coordinator's internal state.
package service

import (
	"context"
	"errors"
	"log/slog"

	"civicred/internal/audit"
	"civicred/internal/platform/metrics"
	"civicred/internal/platform/middleware"
	id "civicred/pkg/domain"
	dErrors "civicred/pkg/domain-errors"
	"civicred/pkg/platform/sentinel"
)

// CommitmentRegistry is the consumption surface of the shared registry.
type CommitmentRegistry interface {
	MarkUsed(ctx context.Context, c id.Commitment) error
}

// AuditPublisher records state transitions on the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the consumption gate.
type Service struct {
	commitments CommitmentRegistry
	logger      *slog.Logger
	audits      AuditPublisher
	metrics     *metrics.Metrics
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

func New(commitments CommitmentRegistry, opts ...Option) *Service {
	s := &Service{commitments: commitments}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Consume marks a commitment spent, exactly once. There is no reverse
// operation: the "this vote credential has now been spent" event is final.
func (s *Service) Consume(ctx context.Context, commitment id.Commitment) error {
	if commitment.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "commitment is required")
	}

	if err := s.commitments.MarkUsed(ctx, commitment); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return dErrors.New(dErrors.CodeAlreadyConsumed, "commitment already consumed")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to consume commitment")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "credential consumed",
			"commitment_hash", audit.HashCommitment(commitment),
			"request_id", middleware.GetRequestID(ctx),
		)
	}
	if s.audits != nil {
		_ = s.audits.Emit(ctx, audit.Event{
			Action:         audit.ActionCredentialConsumed,
			CommitmentHash: audit.HashCommitment(commitment),
			RequestID:      middleware.GetRequestID(ctx),
		})
	}
	if s.metrics != nil {
		s.metrics.CredentialsConsumed.Inc()
	}
	return nil
}
