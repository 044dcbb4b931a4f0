package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/internal/query"
	"github.com/jwalitptl/patient-records/internal/repository"
)

// patientColumns whitelists the filterable/sortable fields and maps
// them to their columns. Requests are validated against the same set,
// so an unknown field here is a programming error.
var patientColumns = map[string]string{
	"firstName":   "first_name",
	"lastName":    "last_name",
	"email":       "email",
	"phoneNumber": "phone_number",
	"dob":         "dob",
	"createdAt":   "created_at",
}

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Count(ctx context.Context, filter *query.Filter) (int64, error) {
	q := `SELECT COUNT(*) FROM patients`
	where, args := compileFilter(filter)
	if where != "" {
		q += " WHERE " + where
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, q, args...); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", classify(err))
	}
	return total, nil
}

func (r *patientRepository) List(ctx context.Context, filter *query.Filter, sort query.Sort, offset, limit int) ([]*model.Patient, error) {
	q := `SELECT id, first_name, last_name, email, phone_number, dob, created_at, updated_at FROM patients`
	where, args := compileFilter(filter)
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY " + compileSort(sort)
	q += fmt.Sprintf(" OFFSET %d LIMIT %d", offset, limit)

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, q, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", classify(err))
	}
	return patients, nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	q := `SELECT id, first_name, last_name, email, phone_number, dob, created_at, updated_at FROM patients WHERE id = $1`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, q, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", classify(err))
	}
	return &patient, nil
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	q := `
		INSERT INTO patients (first_name, last_name, email, phone_number, dob)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, q,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.PhoneNumber,
		patient.DOB,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", classify(err))
	}
	return nil
}

func (r *patientRepository) Update(ctx context.Context, id int64, upd *model.PatientUpdate) (*model.Patient, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.PhoneNumber != nil {
		add("phone_number", *upd.PhoneNumber)
	}
	if upd.DOB != nil {
		add("dob", *upd.DOB)
	}

	args = append(args, id)
	q := fmt.Sprintf(`
		UPDATE patients SET %s WHERE id = $%d
		RETURNING id, first_name, last_name, email, phone_number, dob, created_at, updated_at
	`, strings.Join(set, ", "), len(args))

	var patient model.Patient
	if err := r.db.QueryRowxContext(ctx, q, args...).StructScan(&patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", classify(err))
	}
	return &patient, nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) (*model.Patient, error) {
	q := `
		DELETE FROM patients WHERE id = $1
		RETURNING id, first_name, last_name, email, phone_number, dob, created_at, updated_at
	`
	var patient model.Patient
	if err := r.db.QueryRowxContext(ctx, q, id).StructScan(&patient); err != nil {
		return nil, fmt.Errorf("failed to delete patient: %w", classify(err))
	}
	return &patient, nil
}

// likeEscaper neutralizes LIKE metacharacters so a search term
// containing % or _ matches those characters literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// compileFilter renders the filter IR into a SQL disjunction with
// positional parameters.
func compileFilter(f *query.Filter) (string, []interface{}) {
	if f == nil || len(f.Any) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(f.Any))
	args := make([]interface{}, 0, len(f.Any))
	for _, c := range f.Any {
		column, ok := patientColumns[c.Field]
		if !ok {
			continue
		}
		op := "LIKE"
		if c.Op == query.OpContainsFold {
			op = "ILIKE"
		}
		args = append(args, "%"+likeEscaper.Replace(c.Value)+"%")
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", column, op, len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

// compileSort renders the single-key sort, adding id as a secondary
// key so equal sort values page deterministically across requests.
func compileSort(s query.Sort) string {
	column, ok := patientColumns[s.Field]
	if !ok {
		column = "created_at"
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id ASC", column, dir)
}
