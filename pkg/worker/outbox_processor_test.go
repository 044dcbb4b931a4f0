package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/pkg/logger"
	"github.com/jwalitptl/patient-records/pkg/messaging"
	"github.com/jwalitptl/patient-records/pkg/metrics"
)

// Prometheus collectors register globally, so the package shares one set.
var testMetrics = metrics.NewMetrics("test", "worker")

type fakeOutboxRepo struct {
	pending   []*model.OutboxEvent
	processed []uuid.UUID
	failed    map[uuid.UUID]string
	pruned    int64
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{failed: map[uuid.UUID]string{}}
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.pending = append(r.pending, event)
	return nil
}

func (r *fakeOutboxRepo) GetPending(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	if len(r.pending) > limit {
		return r.pending[:limit], nil
	}
	return r.pending, nil
}

func (r *fakeOutboxRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	r.processed = append(r.processed, id)
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(_ context.Context, id uuid.UUID, errMsg string) error {
	r.failed[id] = errMsg
	return nil
}

func (r *fakeOutboxRepo) DeleteProcessedBefore(_ context.Context, _ time.Time) (int64, error) {
	return r.pruned, nil
}

type fakeBroker struct {
	published  []*messaging.Message
	channels   []string
	publishErr error
}

func (b *fakeBroker) Publish(_ context.Context, channel string, message *messaging.Message) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, message)
	b.channels = append(b.channels, channel)
	return nil
}

func (b *fakeBroker) Close() error { return nil }

type fakeMailer struct {
	alerts []*model.Patient
}

func (m *fakeMailer) SendDeletionAlert(_ context.Context, patient *model.Patient) error {
	m.alerts = append(m.alerts, patient)
	return nil
}

func testConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		Channel:      "patient-events",
		BatchSize:    10,
		PollInterval: time.Second,
	}
}

func newTestProcessor(t *testing.T, repo *fakeOutboxRepo, broker *fakeBroker, mailer *fakeMailer) *OutboxProcessor {
	t.Helper()
	lg := logger.NewLogger(&logger.Config{Level: logger.FatalLevel, Output: io.Discard})
	p, err := NewOutboxProcessor(repo, broker, mailer, testConfig(), lg, testMetrics)
	require.NoError(t, err)
	return p
}

func event(t *testing.T, eventType string, patient *model.Patient) *model.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(patient)
	require.NoError(t, err)
	return &model.OutboxEvent{ID: uuid.New(), EventType: eventType, Payload: payload}
}

func TestNewOutboxProcessorConfigValidation(t *testing.T) {
	lg := logger.NewLogger(&logger.Config{Level: logger.FatalLevel, Output: io.Discard})

	for name, mutate := range map[string]func(*OutboxProcessorConfig){
		"empty channel":      func(c *OutboxProcessorConfig) { c.Channel = "" },
		"zero batch size":    func(c *OutboxProcessorConfig) { c.BatchSize = 0 },
		"zero poll interval": func(c *OutboxProcessorConfig) { c.PollInterval = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(&cfg)
			_, err := NewOutboxProcessor(newFakeOutboxRepo(), &fakeBroker{}, &fakeMailer{}, cfg, lg, testMetrics)
			assert.Error(t, err)
		})
	}
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	repo := newFakeOutboxRepo()
	broker := &fakeBroker{}
	mailer := &fakeMailer{}
	p := newTestProcessor(t, repo, broker, mailer)

	created := event(t, model.EventPatientCreate, &model.Patient{ID: 1, Email: "john.doe@example.com"})
	updated := event(t, model.EventPatientUpdate, &model.Patient{ID: 1, Email: "john.doe@example.com"})
	repo.pending = []*model.OutboxEvent{created, updated}

	require.NoError(t, p.processBatch(context.Background()))

	require.Len(t, broker.published, 2)
	assert.Equal(t, model.EventPatientCreate, broker.published[0].Type)
	assert.Equal(t, "patient-events", broker.channels[0])
	assert.JSONEq(t, string(created.Payload), string(broker.published[0].Payload))

	assert.ElementsMatch(t, []uuid.UUID{created.ID, updated.ID}, repo.processed)
	assert.Empty(t, repo.failed)
	assert.Empty(t, mailer.alerts, "only deletions alert")
}

func TestProcessBatchMarksFailedOnPublishError(t *testing.T) {
	repo := newFakeOutboxRepo()
	broker := &fakeBroker{publishErr: fmt.Errorf("connection refused")}
	p := newTestProcessor(t, repo, broker, &fakeMailer{})

	evt := event(t, model.EventPatientCreate, &model.Patient{ID: 1})
	repo.pending = []*model.OutboxEvent{evt}

	// A publish failure is recorded per event, not surfaced as a batch
	// failure; the next poll retries.
	require.NoError(t, p.processBatch(context.Background()))

	assert.Empty(t, repo.processed)
	assert.Contains(t, repo.failed[evt.ID], "connection refused")
}

func TestDeletionEventSendsAlert(t *testing.T) {
	repo := newFakeOutboxRepo()
	mailer := &fakeMailer{}
	p := newTestProcessor(t, repo, &fakeBroker{}, mailer)

	patient := &model.Patient{ID: 7, FirstName: "Jane", Email: "jane.smith@example.com"}
	repo.pending = []*model.OutboxEvent{event(t, model.EventPatientDelete, patient)}

	require.NoError(t, p.processBatch(context.Background()))

	require.Len(t, mailer.alerts, 1)
	assert.Equal(t, patient.Email, mailer.alerts[0].Email)
}

func TestProcessBatchRespectsBatchSize(t *testing.T) {
	repo := newFakeOutboxRepo()
	broker := &fakeBroker{}
	p := newTestProcessor(t, repo, broker, &fakeMailer{})

	for i := 0; i < 15; i++ {
		repo.pending = append(repo.pending,
			event(t, model.EventPatientCreate, &model.Patient{ID: int64(i)}))
	}

	require.NoError(t, p.processBatch(context.Background()))
	assert.Len(t, broker.published, 10)
}
