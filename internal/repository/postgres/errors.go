package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/jwalitptl/patient-records/internal/repository"
)

// SQLSTATE class 23: integrity constraint violation.
const uniqueViolationCode = "23505"

// classify maps driver failures onto the repository sentinels using
// the reported SQLSTATE or lookup signal, never the message text.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return repository.ErrDuplicate
	}
	return err
}
