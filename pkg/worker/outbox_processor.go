package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/patient-records/internal/email"
	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/internal/repository"
	"github.com/jwalitptl/patient-records/pkg/logger"
	"github.com/jwalitptl/patient-records/pkg/messaging"
	"github.com/jwalitptl/patient-records/pkg/metrics"
)

type OutboxProcessorConfig struct {
	Channel         string
	BatchSize       int
	PollInterval    time.Duration
	RetentionPeriod time.Duration
}

// OutboxProcessor drains pending patient change events to the broker.
// It runs beside the API, not inside it: a mutation's request cycle
// ends at the outbox row.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	mailer  email.Service
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	mailer email.Service,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) (*OutboxProcessor, error) {
	if config.Channel == "" {
		return nil, fmt.Errorf("channel is required")
	}
	if config.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be greater than 0")
	}
	if config.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be greater than 0")
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		mailer:  mailer,
		config:  config,
		logger:  logger.WithComponent("outbox-processor"),
		metrics: metrics,
	}, nil
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("starting outbox processor", "channel", p.config.Channel)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox batch")
			}
			p.prune(ctx)
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	events, err := p.repo.GetPending(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}

	for _, event := range events {
		if err := p.processEvent(ctx, event); err != nil {
			p.logger.Error(err, "failed to process event",
				"event_id", event.ID.String(),
				"event_type", event.EventType)
		}
	}
	return nil
}

func (p *OutboxProcessor) processEvent(ctx context.Context, event *model.OutboxEvent) error {
	msg := &messaging.Message{Type: event.EventType, Payload: event.Payload}
	if err := p.broker.Publish(ctx, p.config.Channel, msg); err != nil {
		p.metrics.OutboxEventsFailed.Inc()
		if markErr := p.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
			p.logger.Error(markErr, "failed to mark event failed", "event_id", event.ID.String())
		}
		return err
	}

	p.metrics.OutboxEventsProcessed.Inc()
	if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}

	if event.EventType == model.EventPatientDelete {
		p.alertDeletion(ctx, event)
	}
	return nil
}

func (p *OutboxProcessor) alertDeletion(ctx context.Context, event *model.OutboxEvent) {
	var patient model.Patient
	if err := json.Unmarshal(event.Payload, &patient); err != nil {
		p.logger.Error(err, "failed to decode delete event payload", "event_id", event.ID.String())
		return
	}
	if err := p.mailer.SendDeletionAlert(ctx, &patient); err != nil {
		p.metrics.AlertsSent.WithLabelValues("error").Inc()
		p.logger.Error(err, "failed to send deletion alert", "patient_id", patient.ID)
		return
	}
	p.metrics.AlertsSent.WithLabelValues("success").Inc()
}

// prune drops processed events older than the retention period.
func (p *OutboxProcessor) prune(ctx context.Context) {
	if p.config.RetentionPeriod <= 0 {
		return
	}
	n, err := p.repo.DeleteProcessedBefore(ctx, time.Now().Add(-p.config.RetentionPeriod))
	if err != nil {
		p.logger.Error(err, "failed to prune processed events")
		return
	}
	if n > 0 {
		p.metrics.OutboxEventsPruned.Add(float64(n))
		p.logger.Debug("pruned processed events", "count", n)
	}
}
