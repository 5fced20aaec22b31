package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"carclub/paddock/internal/logging"
	"carclub/paddock/internal/workers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logging.SetLogger(zap.NewNop().Sugar())
	os.Exit(m.Run())
}

func instruction() workers.PayoutInstruction {
	return workers.PayoutInstruction{
		ChallengeID:    "ch-1",
		UserID:         "u-1",
		Place:          1,
		AmountUSD:      decimal.RequireFromString("125.5"),
		IdempotencyKey: workers.PayoutKey("ch-1", 1),
		ReleasedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPaymentGateway_Send_Success(t *testing.T) {
	var got payoutRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payouts", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "ch-1:1", r.Header.Get("Idempotency-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	gw := NewPaymentGateway(server.URL, "test-key")
	require.NoError(t, gw.Send(context.Background(), instruction()))
	assert.Equal(t, payoutRequest{Reference: "ch-1", UserID: "u-1", AmountUSD: "125.50", Place: 1}, got)
}

func TestPaymentGateway_Send_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   bool
		code      string
		temporary bool
	}{
		{"duplicate is delivered", http.StatusConflict, false, "", false},
		{"bad credentials", http.StatusUnauthorized, true, ErrCodeInvalidAPIKey, false},
		{"rejected", http.StatusUnprocessableEntity, true, ErrCodeRejected, false},
		{"throttled", http.StatusTooManyRequests, true, ErrCodeRateLimited, true},
		{"outage", http.StatusBadGateway, true, ErrCodeUpstream, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			err := NewPaymentGateway(server.URL, "test-key").Send(context.Background(), instruction())
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			var perr *ProviderError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.code, perr.Code)
			assert.Equal(t, tt.temporary, perr.Temporary())
			assert.Contains(t, perr.Details, "nope")
		})
	}
}

func TestPaymentGateway_Send_MissingKey(t *testing.T) {
	err := NewPaymentGateway("http://127.0.0.1:1", "").Send(context.Background(), instruction())

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrCodeInvalidAPIKey, perr.Code)
	assert.False(t, perr.Temporary())
}
