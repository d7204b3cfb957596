// Command server runs the botilleria compliance service: age verification,
// delivery compliance checks, and checkout gating for online liquor sales
// under Chilean Law 19.925.
//
// All backing services are optional. Without Redis the verification records
// live in process memory; without Postgres the catalog is the seeded demo
// set and the compliance log is in-memory; without Kafka the audit stream
// stays local. That makes a bare `go run ./cmd/server` a fully working dev
// environment.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminapi "botilleria/internal/admin"
	"botilleria/internal/ageverify"
	ageverifyhandler "botilleria/internal/ageverify/handler"
	agemetrics "botilleria/internal/ageverify/metrics"
	agestore "botilleria/internal/ageverify/store"
	"botilleria/internal/catalog"
	"botilleria/internal/checkout"
	checkouthandler "botilleria/internal/checkout/handler"
	checkoutmetrics "botilleria/internal/checkout/metrics"
	"botilleria/internal/compliance"
	compliancehandler "botilleria/internal/compliance/handler"
	compliancemetrics "botilleria/internal/compliance/metrics"
	jwttoken "botilleria/internal/jwt_token"
	"botilleria/internal/platform/config"
	"botilleria/internal/platform/httpserver"
	"botilleria/internal/platform/kafka"
	"botilleria/internal/platform/logger"
	"botilleria/internal/platform/postgres"
	"botilleria/internal/platform/redis"
	httptransport "botilleria/internal/transport/http"
	"botilleria/pkg/platform/audit"
	"botilleria/pkg/platform/audit/publisher"
	"botilleria/pkg/platform/audit/store/kafkasink"
	auditmemory "botilleria/pkg/platform/audit/store/memory"
	auditpostgres "botilleria/pkg/platform/audit/store/postgres"
)

const (
	auditTopicPartitions = 3
	shutdownTimeout      = 10 * time.Second
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Verification record store: Redis when configured, memory otherwise.
	var kv agestore.KV = agestore.NewInMemoryKV()
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		kv = agestore.NewRedisKV(redisClient.Client)
		log.Info("verification store: redis")
	} else {
		log.Info("verification store: in-memory")
	}

	// Catalog and compliance-log persistence.
	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		return err
	}
	var catalogStore catalog.Store
	var auditStore audit.Store
	if db != nil {
		defer func() { _ = db.Close() }()

		catalogPG := catalog.NewPostgres(db)
		if err := catalogPG.EnsureSchema(ctx); err != nil {
			return err
		}
		catalogStore = catalogPG

		auditPG := auditpostgres.New(db)
		if err := auditPG.EnsureSchema(ctx); err != nil {
			return err
		}
		auditStore = auditPG
		log.Info("catalog and compliance log: postgres")
	} else {
		catalogStore = catalog.NewInMemoryStoreWithProducts(catalog.SeedProducts()...)
		auditStore = auditmemory.NewInMemoryStore()
		log.Info("catalog and compliance log: in-memory")
	}

	// Kafka sits in front of the local store when brokers are configured;
	// listings still read from the local store.
	producer, err := kafka.NewProducer(cfg.Kafka, log)
	if err != nil {
		return err
	}
	if producer != nil {
		if err := producer.EnsureTopic(ctx, auditTopicPartitions); err != nil {
			return err
		}
		auditStore = kafkasink.New(producer, auditStore)
		log.Info("audit stream: kafka", "topic", cfg.Kafka.AuditTopic)
	}

	auditor := publisher.New(auditStore, log, publisher.WithMetrics(publisher.NewMetrics()))
	publisherCtx, stopPublisher := context.WithCancel(context.Background())
	publisherDone := make(chan struct{})
	go func() {
		auditor.Run(publisherCtx)
		close(publisherDone)
	}()

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, "botilleria", "botilleria-storefront")

	ageService := ageverify.NewService(kv, auditor, log, agemetrics.New(), cfg.MinimumAge, cfg.VerificationTTL)
	complianceService := compliance.NewService(catalogStore, auditor, log, compliancemetrics.New())
	checkoutService := checkout.NewService(
		checkout.NewInMemoryStore(),
		complianceService,
		ageService,
		auditor,
		log,
		checkoutmetrics.New(),
	)

	router := httptransport.NewRouter(httptransport.Config{
		Logger:            log,
		AgeVerify:         ageverifyhandler.New(ageService, tokens, log, cfg.VerificationTTL),
		Compliance:        compliancehandler.New(complianceService, log),
		Checkout:          checkouthandler.New(checkoutService, log),
		Admin:             adminapi.New(auditStore, log),
		AdminUser:         cfg.AdminUser,
		AdminPasswordHash: cfg.AdminPasswordHash,
	})

	srv := httpserver.New(cfg.Addr, router)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting botilleria server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		stopPublisher()
		<-publisherDone
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("graceful shutdown incomplete", "error", err.Error())
	}

	// Let the publisher flush its inbox before the sinks go away.
	stopPublisher()
	<-publisherDone
	if producer != nil {
		if err := producer.Flush(shutdownCtx); err != nil {
			log.Warn("audit flush incomplete", "error", err.Error())
		}
		producer.Close()
	}
	return nil
}
