package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	q := `SELECT id, email, name, password_hash, role, created_at, updated_at FROM users WHERE email = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, q, email); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", classify(err))
	}
	return &user, nil
}

// Upsert inserts the user or leaves an existing row untouched, so
// seeding is idempotent.
func (r *userRepository) Upsert(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()

	q := `
		INSERT INTO users (id, email, name, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (email) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q, user.ID, user.Email, user.Name, user.PasswordHash, user.Role, now)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", classify(err))
	}
	return nil
}
