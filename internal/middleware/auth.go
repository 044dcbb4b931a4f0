package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/pkg/auth"
)

const contextIdentity = "identity"

// SessionResolver turns an inbound bearer token into the per-call
// identity. It never rejects a request: a missing or invalid token
// resolves to an anonymous call, and the procedure guards decide what
// anonymity means for each operation.
type SessionResolver struct {
	tokens *auth.TokenManager
}

func NewSessionResolver(tokens *auth.TokenManager) *SessionResolver {
	return &SessionResolver{tokens: tokens}
}

func (m *SessionResolver) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		ident, err := m.tokens.Validate(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set(contextIdentity, ident)
		c.Next()
	}
}

// IdentityFrom returns the call's resolved identity, or nil for an
// anonymous call.
func IdentityFrom(c *gin.Context) *model.Identity {
	v, exists := c.Get(contextIdentity)
	if !exists {
		return nil
	}
	ident, ok := v.(*model.Identity)
	if !ok {
		return nil
	}
	return ident
}
