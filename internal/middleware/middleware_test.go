package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carclub/paddock/internal/auth"
	"carclub/paddock/internal/db/repositories"
	"carclub/paddock/internal/db/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code, "loopback is exempt")
}

func TestAuthMiddleware(t *testing.T) {
	gdb := testutil.OpenSQLite(t)
	users := repositories.NewUserRepository(gdb)
	tokens := auth.NewTokenProvider("s3cret", "paddock")

	var got *auth.Principal
	h := AuthMiddleware(tokens, users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.GetPrincipal(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := tokens.GenerateToken("discord:7", "Jim", time.Hour)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	require.NotNil(t, got)
	assert.Equal(t, "discord:7", got.ExternalID)
	assert.Equal(t, "USER", string(got.SiteRole))

	u, err := users.GetByExternalID(t.Context(), "discord:7")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID, "provisioned once and reused")
}

func TestRequestIDAndNormalize(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))

	assert.Equal(t,
		"/api/v1/clubs/{id}/members/{id}",
		NormalizeEndpoint("/api/v1/clubs/3f2504e0-4f89-11d3-9a0c-0305e82c3301/members/42"),
	)
}
