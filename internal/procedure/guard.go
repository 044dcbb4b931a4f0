// Package procedure exposes the typed operations of the service. Each
// operation is bound to an ordered guard chain and an input schema;
// guards run before validation, validation before any store access,
// and every failure leaving the package carries a taxonomy kind.
package procedure

import (
	"fmt"

	"github.com/jwalitptl/patient-records/internal/model"
	apperrors "github.com/jwalitptl/patient-records/pkg/errors"
)

// Guard is a pure predicate over the resolved call identity. It either
// lets the call continue or fails it with a taxonomy error.
type Guard func(ident *model.Identity) error

// RequireSession fails anonymous calls before any handler logic runs.
func RequireSession(ident *model.Identity) error {
	if ident == nil {
		return apperrors.Unauthenticated()
	}
	return nil
}

// RequireRole fails calls whose identity lacks the given role. It is
// always composed after RequireSession; an anonymous call must observe
// the authentication failure, never the role failure.
func RequireRole(role model.Role) Guard {
	return func(ident *model.Identity) error {
		if ident == nil {
			return apperrors.Unauthenticated()
		}
		if ident.Role != role {
			return apperrors.Forbidden(fmt.Sprintf("%s access required", roleLabel(role)))
		}
		return nil
	}
}

func roleLabel(role model.Role) string {
	if role == model.RoleAdmin {
		return "Admin"
	}
	return string(role)
}

// Guard chains for the two access levels. Order is fixed:
// authentication always precedes authorization.
var (
	sessionGuards = []Guard{RequireSession}
	adminGuards   = []Guard{RequireSession, RequireRole(model.RoleAdmin)}
)

func runGuards(guards []Guard, ident *model.Identity) error {
	for _, guard := range guards {
		if err := guard(ident); err != nil {
			return err
		}
	}
	return nil
}
