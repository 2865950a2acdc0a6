package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("s3cret", "alcohol-tracker")
	require.NotNil(t, tm)

	token, err := tm.GenerateToken(7, "sofia", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "sofia", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestTokenManager_RejectsWrongSecretAndExpired(t *testing.T) {
	issuer := NewTokenManager("one", "alcohol-tracker")
	other := NewTokenManager("two", "alcohol-tracker")

	token, err := issuer.GenerateToken(1, "a", RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := issuer.GenerateToken(1, "a", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	_, err = issuer.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManager_EmptySecretDisables(t *testing.T) {
	assert.Nil(t, NewTokenManager("", "x"))
}

func TestAdminMiddleware(t *testing.T) {
	tm := NewTokenManager("s3cret", "alcohol-tracker")
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }
	h := AdminMiddleware(tm)(ok)

	adminToken, err := tm.GenerateToken(1, "root", RoleAdmin, time.Hour)
	require.NoError(t, err)
	userToken, err := tm.GenerateToken(2, "bob", "user", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad scheme", "Token " + adminToken, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"non admin", "Bearer " + userToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestAdminMiddleware_DisabledPassesThrough(t *testing.T) {
	h := AdminMiddleware(nil)(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) })
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
