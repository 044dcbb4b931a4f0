package procedure

import (
	"context"
	"time"

	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/internal/query"
	"github.com/jwalitptl/patient-records/internal/repository"
)

// fakeStore is an in-memory PatientRepository that counts every call,
// so tests can assert the store was never contacted on guard or
// validation failures. Injected errors simulate store failures.
type fakeStore struct {
	patients []*model.Patient
	nextID   int64
	calls    int

	countErr  error
	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) Count(_ context.Context, filter *query.Filter) (int64, error) {
	f.calls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	var total int64
	for _, p := range f.patients {
		if filter.Match(p) {
			total++
		}
	}
	return total, nil
}

func (f *fakeStore) List(_ context.Context, filter *query.Filter, _ query.Sort, offset, limit int) ([]*model.Patient, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	matched := []*model.Patient{}
	for _, p := range f.patients {
		if filter.Match(p) {
			matched = append(matched, p)
		}
	}
	if offset >= len(matched) {
		return []*model.Patient{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (*model.Patient, error) {
	f.calls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, p := range f.patients {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) Create(_ context.Context, patient *model.Patient) error {
	f.calls++
	if f.createErr != nil {
		return f.createErr
	}
	for _, p := range f.patients {
		if p.Email == patient.Email {
			return repository.ErrDuplicate
		}
	}
	patient.ID = f.nextID
	f.nextID++
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt
	cp := *patient
	f.patients = append(f.patients, &cp)
	return nil
}

func (f *fakeStore) Update(_ context.Context, id int64, upd *model.PatientUpdate) (*model.Patient, error) {
	f.calls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for _, p := range f.patients {
		if p.ID != id {
			continue
		}
		if upd.FirstName != nil {
			p.FirstName = *upd.FirstName
		}
		if upd.LastName != nil {
			p.LastName = *upd.LastName
		}
		if upd.Email != nil {
			p.Email = *upd.Email
		}
		if upd.PhoneNumber != nil {
			p.PhoneNumber = *upd.PhoneNumber
		}
		if upd.DOB != nil {
			p.DOB = *upd.DOB
		}
		p.UpdatedAt = time.Now()
		cp := *p
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, id int64) (*model.Patient, error) {
	f.calls++
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	for i, p := range f.patients {
		if p.ID == id {
			f.patients = append(f.patients[:i], f.patients[i+1:]...)
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}
