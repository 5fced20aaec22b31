package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carclub/paddock/internal/models/dtos"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckHandler(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name   string
		checks map[string]Pinger
		code   int
		status string
	}{
		{"all up", map[string]Pinger{"postgres": up, "redis": up}, http.StatusOK, "ok"},
		{"one down", map[string]Pinger{"postgres": up, "redis": down}, http.StatusServiceUnavailable, "down"},
		{"nothing to check", nil, http.StatusOK, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthCheckHandler(tt.checks, time.Now().Add(-time.Minute))(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

			assert.Equal(t, tt.code, rec.Code)

			var body struct {
				Data dtos.HealthCheckResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Data.Status)
			assert.Len(t, body.Data.Services, len(tt.checks))
		})
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	var dst dtos.CreateClubReq

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
	assert.True(t, decode(rec, req, time.Now(), &dst), "empty body is allowed")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	assert.False(t, decode(rec, req, time.Now(), &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
