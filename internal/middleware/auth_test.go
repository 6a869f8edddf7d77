package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-planner/voyage/internal/auth"
	"github.com/voyage-planner/voyage/internal/middleware"
)

type stubVerifier struct {
	claims auth.Claims
	err    error
	got    string
}

func (s *stubVerifier) Verify(raw string) (auth.Claims, error) {
	s.got = raw
	return s.claims, s.err
}

func echoUserID(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.UserID(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(id.String()))
	})
}

func TestAuthenticate_ValidToken(t *testing.T) {
	id := uuid.New()
	v := &stubVerifier{claims: auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()}}}
	h := middleware.Authenticate(v)(echoUserID(t))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String(), rec.Body.String())
	assert.Equal(t, "abc.def.ghi", v.got)
}

func TestAuthenticate_WithRealTokenManager(t *testing.T) {
	tm := auth.NewTokenManager("secret", time.Hour, nil)
	id := uuid.New()
	tok, err := tm.Issue(id, "ada@example.com", "Ada")
	require.NoError(t, err)

	h := middleware.Authenticate(tm)(echoUserID(t))
	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "bearer "+tok.Value)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String(), rec.Body.String())
}

func TestAuthenticate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		v      *stubVerifier
	}{
		{"missing header", "", &stubVerifier{}},
		{"wrong scheme", "Basic dXNlcjpwYXNz", &stubVerifier{}},
		{"empty token", "Bearer  ", &stubVerifier{}},
		{"verify fails", "Bearer x", &stubVerifier{err: errors.New("expired")}},
		{"bad subject", "Bearer x", &stubVerifier{claims: auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "nope"}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			h := middleware.Authenticate(tc.v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			req := httptest.NewRequest(http.MethodGet, "/trips", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
		})
	}
}

func TestUserID_AbsentOrNil(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.UserID(req.Context())
	assert.False(t, ok)

	_, ok = middleware.UserID(middleware.WithUserID(req.Context(), uuid.Nil))
	assert.False(t, ok)
}
