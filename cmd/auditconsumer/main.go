// Command auditconsumer archives the compliance audit stream into PostgreSQL.
// The serving process produces every age-verification and checkout event to
// the audit topic; this process is the downstream owner of long-term
// retention, so Law 19.925 records survive restarts and redeployments of the
// storefront.
//
// Unlike cmd/server, both Kafka and Postgres are required here: an archiver
// without either has nothing to do.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"botilleria/internal/platform/config"
	"botilleria/internal/platform/kafka"
	"botilleria/internal/platform/logger"
	"botilleria/internal/platform/postgres"
	auditconsumer "botilleria/pkg/platform/audit/consumer"
	auditpostgres "botilleria/pkg/platform/audit/store/postgres"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("audit consumer exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}

	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		return err
	}
	if db == nil {
		return errors.New("DATABASE_URL is required")
	}
	defer func() { _ = db.Close() }()

	store := auditpostgres.New(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	consumer, err := kafka.NewConsumer(cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer consumer.Close()

	log.Info("audit consumer started",
		"topic", cfg.Kafka.AuditTopic,
		"group", cfg.Kafka.ConsumerGroup,
	)

	handler := auditconsumer.NewComplianceHandler(store, log)
	if err := consumer.Run(ctx, handler); err != nil {
		return err
	}

	log.Info("audit consumer stopped")
	return nil
}
