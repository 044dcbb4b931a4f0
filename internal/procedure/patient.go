package procedure

import (
	"context"
	"errors"

	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/internal/query"
	"github.com/jwalitptl/patient-records/internal/repository"
	apperrors "github.com/jwalitptl/patient-records/pkg/errors"
	"github.com/jwalitptl/patient-records/pkg/logger"
	"github.com/jwalitptl/patient-records/pkg/validator"
)

// Patients is the procedure set over the patient collection:
//
//	GetAll   session   paginated, searchable, sortable list
//	GetByID  session   point lookup
//	Create   admin     insert with store-assigned id and timestamps
//	Update   admin     partial field replacement
//	Delete   admin     permanent removal
type Patients struct {
	store    repository.PatientRepository
	validate *validator.Validator
	logger   *logger.Logger
}

func NewPatients(store repository.PatientRepository, logger *logger.Logger) *Patients {
	return &Patients{
		store:    store,
		validate: validator.New(),
		logger:   logger.WithComponent("procedure.patients"),
	}
}

func (p *Patients) GetAll(ctx context.Context, ident *model.Identity, req model.ListPatientsRequest) (*model.PatientList, error) {
	if err := runGuards(sessionGuards, ident); err != nil {
		return nil, err
	}

	req.ApplyDefaults()
	if err := p.validate.Validate(&req); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}
	page, limit := *req.Page, *req.Limit

	filter := query.Search(req.Search)

	// Count and page fetch share the filter but run as two
	// independent queries; under concurrent writes total and the
	// slice may momentarily disagree.
	total, err := p.store.Count(ctx, filter)
	if err != nil {
		return nil, p.storeError("failed to fetch patients", err)
	}

	patients, err := p.store.List(ctx, filter,
		query.SortFrom(req.SortBy, req.SortOrder),
		query.Offset(page, limit),
		limit,
	)
	if err != nil {
		return nil, p.storeError("failed to fetch patients", err)
	}

	return &model.PatientList{
		Patients:   patients,
		Pagination: query.Paginate(page, limit, total),
	}, nil
}

func (p *Patients) GetByID(ctx context.Context, ident *model.Identity, id int64) (*model.Patient, error) {
	if err := runGuards(sessionGuards, ident); err != nil {
		return nil, err
	}

	patient, err := p.store.Get(ctx, id)
	if err != nil {
		return nil, p.storeError("failed to fetch patient", err)
	}
	return patient, nil
}

func (p *Patients) Create(ctx context.Context, ident *model.Identity, req model.CreatePatientRequest) (*model.Patient, error) {
	if err := runGuards(adminGuards, ident); err != nil {
		return nil, err
	}

	if err := p.validate.Validate(&req); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}
	patient, err := req.Patient()
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}

	if err := p.store.Create(ctx, patient); err != nil {
		return nil, p.storeError("failed to create patient", err)
	}
	return patient, nil
}

func (p *Patients) Update(ctx context.Context, ident *model.Identity, id int64, req model.UpdatePatientRequest) (*model.Patient, error) {
	if err := runGuards(adminGuards, ident); err != nil {
		return nil, err
	}

	if err := p.validate.Validate(&req); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}
	upd, err := req.Update()
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}

	patient, err := p.store.Update(ctx, id, upd)
	if err != nil {
		return nil, p.storeError("failed to update patient", err)
	}
	return patient, nil
}

func (p *Patients) Delete(ctx context.Context, ident *model.Identity, id int64) (*model.Patient, error) {
	if err := runGuards(adminGuards, ident); err != nil {
		return nil, err
	}

	patient, err := p.store.Delete(ctx, id)
	if err != nil {
		return nil, p.storeError("failed to delete patient", err)
	}
	return patient, nil
}

// storeError resolves every store failure to exactly one taxonomy
// kind; nothing propagates unmapped.
func (p *Patients) storeError(msg string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound("patient")
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.Conflict("a patient with this email already exists", err)
	default:
		p.logger.Error(err, msg)
		return apperrors.Internal(msg, err)
	}
}
