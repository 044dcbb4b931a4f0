package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-records/internal/model"
	"github.com/jwalitptl/patient-records/pkg/auth"
)

func resolveRequest(t *testing.T, tokens *auth.TokenManager, authHeader string) *model.Identity {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var got *model.Identity
	router := gin.New()
	router.Use(NewSessionResolver(tokens).Resolve())
	router.GET("/probe", func(c *gin.Context) {
		got = IdentityFrom(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "the resolver must never reject a request")
	return got
}

func TestResolveValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	user := &model.User{ID: uuid.New(), Email: "admin@example.com", Role: model.RoleAdmin}
	token, err := tokens.Generate(user)
	require.NoError(t, err)

	ident := resolveRequest(t, tokens, "Bearer "+token)
	require.NotNil(t, ident)
	assert.Equal(t, user.ID, ident.ID)
	assert.Equal(t, model.RoleAdmin, ident.Role)
}

func TestResolveAnonymous(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"malformed header", "Token abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, resolveRequest(t, tokens, tt.header))
		})
	}
}
