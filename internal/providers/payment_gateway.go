package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"carclub/paddock/internal/logging"
	"carclub/paddock/internal/workers"
)

// PaymentGateway sends payout instructions to an HTTP payment provider.
type PaymentGateway struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewPaymentGateway(baseURL, apiKey string) *PaymentGateway {
	return &PaymentGateway{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type payoutRequest struct {
	Reference string `json:"reference"`
	UserID    string `json:"user_id"`
	AmountUSD string `json:"amount_usd"`
	Place     int    `json:"place"`
}

// Send posts one payout. The idempotency key travels as a header so a
// redelivered instruction is deduplicated by the provider; a 409 means it
// already was and counts as delivered.
func (p *PaymentGateway) Send(ctx context.Context, item workers.PayoutInstruction) error {
	if p.APIKey == "" {
		return &ProviderError{
			Code:    ErrCodeInvalidAPIKey,
			Message: "PADDOCK_PAYMENT_API_KEY is not set",
		}
	}

	body, err := json.Marshal(payoutRequest{
		Reference: item.ChallengeID,
		UserID:    item.UserID,
		AmountUSD: item.AmountUSD.StringFixed(2),
		Place:     item.Place,
	})
	if err != nil {
		return &ProviderError{Code: ErrCodeInvalidDataFormat, Message: "Failed to marshal payout", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/payouts", bytes.NewReader(body))
	if err != nil {
		return &ProviderError{Code: ErrCodeNetworkError, Message: "Failed to create request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", item.IdempotencyKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return &ProviderError{Code: ErrCodeNetworkError, Message: "Payment provider unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		logging.Info("payout already accepted by provider", "idempotency_key", item.IdempotencyKey)
		return nil
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return buildHTTPError(resp.StatusCode, string(respBody))
}

// buildHTTPError maps a provider status code to a ProviderError
func buildHTTPError(statusCode int, body string) error {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return &ProviderError{
			Code:    ErrCodeInvalidAPIKey,
			Message: "Payment provider rejected credentials",
			Details: body,
		}
	case statusCode == http.StatusTooManyRequests:
		return &ProviderError{
			Code:    ErrCodeRateLimited,
			Message: "Payment provider rate limit exceeded",
			Details: body,
		}
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		return &ProviderError{
			Code:    ErrCodeRejected,
			Message: fmt.Sprintf("Payment provider rejected payout (HTTP %d)", statusCode),
			Details: body,
		}
	default:
		return &ProviderError{
			Code:    ErrCodeUpstream,
			Message: fmt.Sprintf("HTTP %d from payment provider", statusCode),
			Details: body,
		}
	}
}
