package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/jwalitptl/patient-records/internal/config"
	"github.com/jwalitptl/patient-records/internal/email"
	"github.com/jwalitptl/patient-records/internal/repository/postgres"
	"github.com/jwalitptl/patient-records/pkg/logger"
	"github.com/jwalitptl/patient-records/pkg/messaging/redis"
	"github.com/jwalitptl/patient-records/pkg/metrics"
	"github.com/jwalitptl/patient-records/pkg/worker"
)

func main() {
	log := logger.NewLogger(nil).WithComponent("worker").
		WithFields(map[string]interface{}{"worker_id": workerID()})

	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		log.Fatal(err, "failed to load worker config")
	}

	db, err := postgres.NewDB(cfg.Database())
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.RedisURL, log)
	if err != nil {
		log.Fatal(err, "failed to create redis broker")
	}
	defer broker.Close()

	mailer := email.NewNopService()
	if cfg.SMTPHost != "" {
		mailer = email.NewSMTPService(email.SMTPConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			User:       cfg.SMTPUser,
			Password:   cfg.SMTPPassword,
			From:       cfg.SMTPFrom,
			Recipients: cfg.AlertRecipients,
		})
	} else {
		log.Warn("SMTP not configured, deletion alerts disabled")
	}

	processor, err := worker.NewOutboxProcessor(
		postgres.NewOutboxRepository(db),
		broker,
		mailer,
		worker.OutboxProcessorConfig{
			Channel:         cfg.EventChannel,
			BatchSize:       cfg.BatchSize,
			PollInterval:    cfg.PollInterval,
			RetentionPeriod: cfg.RetentionPeriod,
		},
		log,
		metrics.NewMetrics("patient_records", "worker"),
	)
	if err != nil {
		log.Fatal(err, "failed to create outbox processor")
	}

	startHealthServer(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutdown signal received")
		cancel()
	}()

	processor.Start(ctx)
}

func workerID() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-%d", hostname, time.Now().UnixNano())
}

func startHealthServer(log *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			log.Error(err, "health server stopped")
		}
	}()
}
