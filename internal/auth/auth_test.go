package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikiforge/wiki-api/pkg/apperr"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID, "margaret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, "margaret", principal.Username)
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, err := svc.Issue(uuid.New(), "margaret")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredential))
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Issue(uuid.New(), "margaret")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b", time.Hour).Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredential))
}

func TestTokenGarbage(t *testing.T) {
	_, err := NewTokenService("test-secret", time.Hour).Verify("not-a-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidCredential))
}

func TestGateAttachesPrincipal(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	gate := NewGate(svc, hclog.NewNullLogger())
	userID := uuid.New()

	token, err := svc.Issue(userID, "margaret")
	require.NoError(t, err)

	var got *Principal
	handler := gate.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, userID, got.UserID)
}

func TestGateRejectsMissingToken(t *testing.T) {
	gate := NewGate(NewTokenService("test-secret", time.Hour), hclog.NewNullLogger())

	called := false
	handler := gate.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestGateRejectsInvalidToken(t *testing.T) {
	gate := NewGate(NewTokenService("test-secret", time.Hour), hclog.NewNullLogger())

	called := false
	handler := gate.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}
