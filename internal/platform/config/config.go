package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// PostgresDSN selects the postgres-backed stores when set; empty means
	// in-memory stores (useful for development and tests).
	PostgresDSN string

	// RedisURL selects the redis-backed commitment registry when set.
	RedisURL string

	// Kafka audit sink. Events are always persisted to the audit store; the
	// kafka pipeline is additive and disabled when no brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string

	// NATSURL is the oracle transport. Required for dispatching requests;
	// callbacks also arrive over HTTP so the consumer is optional.
	NATSURL string

	// OracleVerifyKey is the oracle's published Ed25519 verification key,
	// hex encoded. Callback proofs are checked against it before any result
	// is trusted.
	OracleVerifyKey string

	// OracleTimeout bounds the synchronous dispatch round trip only; pending
	// requests themselves never time out.
	OracleTimeout time.Duration

	// RegistrarSigningKey signs the HS256 capability tokens gating the
	// verification and issuance request endpoints.
	RegistrarSigningKey string

	// RateLimit caps requests per client IP on the public endpoints within
	// RateLimitWindow. Zero disables throttling.
	RateLimit       int
	RateLimitWindow time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CIVICRED_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("CIVICRED_KAFKA_TOPIC")
	if topic == "" {
		topic = "civicred.audit"
	}

	var brokers []string
	if raw := os.Getenv("CIVICRED_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	timeout := 10 * time.Second
	if raw := os.Getenv("CIVICRED_ORACLE_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}

	rateLimit := 120
	if raw := os.Getenv("CIVICRED_RATE_LIMIT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			rateLimit = n
		}
	}
	rateWindow := time.Minute
	if raw := os.Getenv("CIVICRED_RATE_LIMIT_WINDOW"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			rateWindow = d
		}
	}

	signingKey := os.Getenv("CIVICRED_REGISTRAR_SIGNING_KEY")
	if signingKey == "" {
		// Development default; must be overridden in any real deployment.
		signingKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:                addr,
		PostgresDSN:         os.Getenv("CIVICRED_POSTGRES_DSN"),
		RedisURL:            os.Getenv("CIVICRED_REDIS_URL"),
		KafkaBrokers:        brokers,
		KafkaTopic:          topic,
		NATSURL:             os.Getenv("CIVICRED_NATS_URL"),
		OracleVerifyKey:     os.Getenv("CIVICRED_ORACLE_VERIFY_KEY"),
		OracleTimeout:       timeout,
		RegistrarSigningKey: signingKey,
		RateLimit:           rateLimit,
		RateLimitWindow:     rateWindow,
	}
}
