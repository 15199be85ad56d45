// Package httptransport is the thin HTTP layer. Handlers decode, delegate to
// the domain services and encode; no business logic lives here.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"civicred/internal/platform/middleware"
	"civicred/internal/platform/ratelimit"
	"civicred/internal/registration/models"
	id "civicred/pkg/domain"
)

// RegistrationService accepts encrypted registrations.
type RegistrationService interface {
	Submit(ctx context.Context, ciphertexts models.CiphertextBundle) (id.RegistrationID, error)
}

// VerificationService coordinates eligibility checks.
type VerificationService interface {
	RequestVerification(ctx context.Context, regID id.RegistrationID) (id.RequestID, error)
	HandleResult(ctx context.Context, requestID id.RequestID, clearResult, proof []byte) error
}

// IssuanceService coordinates credential issuance.
type IssuanceService interface {
	RequestIssuance(ctx context.Context, regID id.RegistrationID, commitment id.Commitment) (id.RequestID, error)
	HandleResult(ctx context.Context, requestID id.RequestID, clearResult, proof []byte) error
	GetCredential(ctx context.Context, regID id.RegistrationID) (string, bool, error)
}

// BallotService is the vote-time consumption gate.
type BallotService interface {
	Consume(ctx context.Context, commitment id.Commitment) error
}

// Handler wires the API surface to the domain services.
type Handler struct {
	registrations RegistrationService
	verification  VerificationService
	issuance      IssuanceService
	ballot        BallotService
	tokens        middleware.TokenValidator
	logger        *slog.Logger
	limiter       *ratelimit.Limiter
}

type HandlerOption func(*Handler)

// WithRateLimiter throttles the public, unauthenticated endpoints.
func WithRateLimiter(limiter *ratelimit.Limiter) HandlerOption {
	return func(h *Handler) { h.limiter = limiter }
}

func NewHandler(
	registrations RegistrationService,
	verification VerificationService,
	issuance IssuanceService,
	ballot BallotService,
	tokens middleware.TokenValidator,
	logger *slog.Logger,
	opts ...HandlerOption,
) *Handler {
	h := &Handler{
		registrations: registrations,
		verification:  verification,
		issuance:      issuance,
		ballot:        ballot,
		tokens:        tokens,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter mounts all endpoints. Verification and issuance requests are
// registrar-gated; callbacks authenticate with their proof instead of a
// bearer token, and the ballot gate is reached over the election system's
// private network.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)

		r.Group(func(r chi.Router) {
			if h.limiter != nil {
				r.Use(ratelimit.Middleware(h.limiter, h.logger))
			}
			r.Post("/registrations", h.handleSubmitRegistration)
			r.Get("/registrations/{registrationID}/credential", h.handleGetCredential)
			r.Post("/ballot/consume", h.handleConsume)
		})

		r.Post("/oracle/callbacks/verification", h.handleVerificationCallback)
		r.Post("/oracle/callbacks/issuance", h.handleIssuanceCallback)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRegistrar(h.tokens, h.logger))
			r.Post("/registrations/{registrationID}/verification", h.handleRequestVerification)
			r.Post("/registrations/{registrationID}/issuance", h.handleRequestIssuance)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
