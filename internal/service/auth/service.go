// Package auth implements the session-issuance collaborator: it checks
// operator credentials against the user store and mints the tokens the
// session resolver later turns back into identities. The procedure
// core never calls into this package.
package auth

import (
	"context"
	"errors"

	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/internal/repository"
	pkgauth "github.com/jwalitptl/patient-records/pkg/auth"
	apperrors "github.com/jwalitptl/patient-records/pkg/errors"
	"github.com/jwalitptl/patient-records/pkg/security"
	"github.com/jwalitptl/patient-records/pkg/validator"
)

type Service interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
}

type service struct {
	users    repository.UserRepository
	tokens   *pkgauth.TokenManager
	hasher   security.PasswordHasher
	validate *validator.Validator
}

func NewService(users repository.UserRepository, tokens *pkgauth.TokenManager, hasher security.PasswordHasher) Service {
	return &service{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		validate: validator.New(),
	}
}

func (s *service) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := s.validate.Validate(&req); err != nil {
		return nil, apperrors.InvalidInput(err.Error(), err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperrors.Internal("failed to look up user", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, invalidCredentials()
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}

	return &model.LoginResponse{
		Token: token,
		Identity: model.Identity{
			ID:    user.ID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// invalidCredentials deliberately does not distinguish an unknown
// email from a wrong password.
func invalidCredentials() error {
	return &apperrors.AppError{
		Kind:    apperrors.KindUnauthenticated,
		Message: "invalid email or password",
	}
}
