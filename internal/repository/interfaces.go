package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/internal/query"
)

// Store failure signals. Adapters classify their native errors into
// these sentinels by constraint or lookup signal, never by matching
// message text; the procedure layer maps them onto the caller-facing
// error taxonomy.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("unique constraint violation")
)

// All repository interfaces in one file
type (
	// PatientRepository is the durable store for patient records.
	// Count and List accept the same filter; callers issue them as two
	// independent queries with no snapshot guarantee between them.
	PatientRepository interface {
		Count(ctx context.Context, filter *query.Filter) (int64, error)
		List(ctx context.Context, filter *query.Filter, sort query.Sort, offset, limit int) ([]*model.Patient, error)
		Get(ctx context.Context, id int64) (*model.Patient, error)
		Create(ctx context.Context, patient *model.Patient) error
		Update(ctx context.Context, id int64, upd *model.PatientUpdate) (*model.Patient, error)
		Delete(ctx context.Context, id int64) (*model.Patient, error)
	}

	// UserRepository holds operator accounts for session issuance.
	UserRepository interface {
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Upsert(ctx context.Context, user *model.User) error
	}

	// OutboxRepository persists patient change events for the worker.
	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
