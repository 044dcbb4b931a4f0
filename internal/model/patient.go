package model

import (
	"fmt"
	"time"
)

// Patient is the sole domain entity: a demographic record owned by the
// store. The id is store-assigned and never reused after deletion.
type Patient struct {
	ID          int64     `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"firstName"`
	LastName    string    `db:"last_name" json:"lastName"`
	Email       string    `db:"email" json:"email"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber"`
	DOB         time.Time `db:"dob" json:"dob"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

type CreatePatientRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	DOB         string `json:"dob" validate:"required"`
}

// Patient converts the validated request into a Patient value,
// parsing the date of birth. Store-assigned fields stay zero.
func (r *CreatePatientRequest) Patient() (*Patient, error) {
	dob, err := ParseDate(r.DOB)
	if err != nil {
		return nil, err
	}
	return &Patient{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		DOB:         dob,
	}, nil
}

// UpdatePatientRequest carries a partial field replacement: nil fields
// are left untouched by the store.
type UpdatePatientRequest struct {
	FirstName   *string `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName    *string `json:"lastName,omitempty" validate:"omitempty,min=1"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,min=1"`
	DOB         *string `json:"dob,omitempty" validate:"omitempty,min=1"`
}

// PatientUpdate is the parsed form handed to the store.
type PatientUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	DOB         *time.Time
}

func (r *UpdatePatientRequest) Update() (*PatientUpdate, error) {
	upd := &PatientUpdate{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
	}
	if r.DOB != nil {
		dob, err := ParseDate(*r.DOB)
		if err != nil {
			return nil, err
		}
		upd.DOB = &dob
	}
	return upd, nil
}

// IsEmpty reports whether the update carries no fields at all.
func (u *PatientUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil &&
		u.PhoneNumber == nil && u.DOB == nil
}

// ParseDate accepts a calendar date as YYYY-MM-DD or RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC3339", s)
}
