package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	"civicred/internal/audit"
	ballotsvc "civicred/internal/ballot/service"
	commitstore "civicred/internal/commitment/store"
	issuancesvc "civicred/internal/issuance/service"
	"civicred/internal/oracle"
	"civicred/internal/platform/config"
	"civicred/internal/platform/httpserver"
	"civicred/internal/platform/kafka"
	"civicred/internal/platform/logger"
	"civicred/internal/platform/metrics"
	"civicred/internal/platform/ratelimit"
	platformredis "civicred/internal/platform/redis"
	"civicred/internal/registrar"
	"civicred/internal/registration/models"
	regsvc "civicred/internal/registration/service"
	regstore "civicred/internal/registration/store"
	httptransport "civicred/internal/transport/http"
	verificationsvc "civicred/internal/verification/service"
	id "civicred/pkg/domain"
)

// registrationStore is the union of the per-service store surfaces, so main
// can hold either backend in one variable.
type registrationStore interface {
	Create(ctx context.Context, ciphertexts models.CiphertextBundle) (id.RegistrationID, error)
	Get(ctx context.Context, regID id.RegistrationID) (*models.EncryptedRegistration, error)
	SetStatus(ctx context.Context, regID id.RegistrationID, from, to models.Status) error
	GetCredential(ctx context.Context, regID id.RegistrationID) (*models.CredentialRecord, error)
	MarkIssued(ctx context.Context, regID id.RegistrationID, value string) error
}

type commitmentRegistry interface {
	MarkUsed(ctx context.Context, c id.Commitment) error
	Release(ctx context.Context, c id.Commitment) error
}

// main wires dependencies and keeps the lifecycle small. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Oracle transport and callback verification key are mandatory; the
	// service cannot make progress without them.
	verifier, err := oracle.NewEd25519Verifier(cfg.OracleVerifyKey)
	if err != nil {
		log.Error("invalid oracle verification key", "error", err)
		os.Exit(1)
	}
	if cfg.NATSURL == "" {
		log.Error("CIVICRED_NATS_URL is required")
		os.Exit(1)
	}
	conn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer conn.Close()
	oracleClient := oracle.NewNATSClient(conn, cfg.OracleTimeout)

	// Stores: postgres/redis when configured, in-memory otherwise.
	var registrations registrationStore
	var pending oracle.PendingStore
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("failed to ping postgres", "error", err)
			os.Exit(1)
		}

		pgRegistrations := regstore.NewPostgres(db)
		if err := pgRegistrations.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure registration schema", "error", err)
			os.Exit(1)
		}
		pgPending := oracle.NewPostgresPendingStore(db)
		if err := pgPending.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure pending-request schema", "error", err)
			os.Exit(1)
		}
		registrations = pgRegistrations
		pending = pgPending
	} else {
		log.Warn("no postgres DSN configured, using in-memory stores")
		registrations = regstore.NewInMemory()
		pending = oracle.NewInMemoryPendingStore()
	}

	var commitments commitmentRegistry
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		commitments = commitstore.NewRedis(redisClient)
	} else {
		log.Warn("no redis URL configured, using in-memory commitment registry")
		commitments = commitstore.NewInMemory()
	}

	// Audit pipeline: store persistence is synchronous and fail-closed, the
	// kafka sink drains asynchronously.
	auditStore := audit.NewInMemoryStore()
	publisherOpts := []audit.PublisherOption{}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Error("failed to create kafka producer", "error", err)
		os.Exit(1)
	}
	var worker *audit.Worker
	if producer != nil {
		defer producer.Close()
		if err := producer.EnsureTopic(ctx); err != nil {
			log.Error("failed to ensure audit topic", "error", err)
			os.Exit(1)
		}
		inbox := make(chan audit.Event, 256)
		publisherOpts = append(publisherOpts, audit.WithInbox(inbox))
		worker = audit.NewWorker(audit.NewKafkaSink(producer), inbox, log)
	}
	audits := audit.NewPublisher(auditStore, publisherOpts...)

	tokens := registrar.NewService(cfg.RegistrarSigningKey, "civicred", "civicred-api")

	registrationSvc := regsvc.New(registrations,
		regsvc.WithLogger(log), regsvc.WithAuditPublisher(audits), regsvc.WithMetrics(m))
	verificationSvc := verificationsvc.New(registrations, pending, oracleClient, verifier,
		verificationsvc.WithLogger(log), verificationsvc.WithAuditPublisher(audits), verificationsvc.WithMetrics(m))
	issuanceSvc := issuancesvc.New(registrations, commitments, pending, oracleClient, verifier,
		issuancesvc.WithLogger(log), issuancesvc.WithAuditPublisher(audits), issuancesvc.WithMetrics(m))
	ballotSvc := ballotsvc.New(commitments,
		ballotsvc.WithLogger(log), ballotsvc.WithAuditPublisher(audits), ballotsvc.WithMetrics(m))

	consumer := oracle.NewConsumer(conn, verificationSvc, issuanceSvc, log)
	if err := consumer.Start(ctx); err != nil {
		log.Error("failed to start oracle consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Stop()

	var handlerOpts []httptransport.HandlerOption
	if cfg.RateLimit > 0 {
		handlerOpts = append(handlerOpts,
			httptransport.WithRateLimiter(ratelimit.NewLimiter(cfg.RateLimit, cfg.RateLimitWindow)))
	}
	handler := httptransport.NewHandler(registrationSvc, verificationSvc, issuanceSvc, ballotSvc, tokens, log, handlerOpts...)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting civicred", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if worker != nil {
		g.Go(func() error {
			if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("civicred stopped")
}
