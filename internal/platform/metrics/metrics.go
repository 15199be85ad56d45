package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RegistrationsSubmitted prometheus.Counter
	VerificationsRequested prometheus.Counter
	EligibilityVerified    prometheus.Counter
	EligibilityRejected    prometheus.Counter
	IssuancesRequested     prometheus.Counter
	CredentialsIssued      prometheus.Counter
	CredentialsConsumed    prometheus.Counter

	// PendingRequests tracks in-flight oracle requests. The core enforces no
	// timeout, so a stuck entry shows up here forever; that is the operator's
	// signal, not a bug.
	PendingRequests prometheus.Gauge

	CallbackFailures *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers metrics against a specific registerer so tests can use
// isolated registries.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RegistrationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "civicred_registrations_submitted_total",
			Help: "Total encrypted registrations accepted.",
		}),
		VerificationsRequested: factory.NewCounter(prometheus.CounterOpts{
			Name: "civicred_verifications_requested_total",
			Help: "Total eligibility verification requests dispatched to the oracle.",
		}),
		EligibilityVerified: factory.NewCounter(prometheus.CounterOpts{
			Name: "civicred_eligibility_verified_total",
			Help: "Total registrations verified eligible.",
		}),
		EligibilityRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "civicred_eligibility_rejected_total",
			Help: "Total registrations found ineligible (terminal).",
		}),
		IssuancesRequested: factory.NewCounter(prometheus.CounterOpts{
			Name: "civicred_issuances_requested_total",
			Help: "Total credential issuance requests dispatched to the oracle.",
		}),
		CredentialsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "civicred_credentials_issued_total",
			Help: "Total anonymous credentials issued.",
		}),
		CredentialsConsumed: factory.NewCounter(prometheus.CounterOpts{
			Name: "civicred_credentials_consumed_total",
			Help: "Total credential commitments consumed by the ballot system.",
		}),
		PendingRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "civicred_pending_oracle_requests",
			Help: "Oracle requests dispatched but not yet resolved by a callback.",
		}),
		CallbackFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "civicred_callback_failures_total",
			Help: "Oracle callbacks rejected, by reason.",
		}, []string{"reason"}),
	}
}
