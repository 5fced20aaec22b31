package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PayoutInstruction asks the payment collaborator to pay one winner.
// IdempotencyKey is stable per challenge and place so a redelivered
// instruction can be deduplicated downstream.
type PayoutInstruction struct {
	ChallengeID    string          `json:"challenge_id"`
	UserID         string          `json:"user_id"`
	Place          int             `json:"place"`
	AmountUSD      decimal.Decimal `json:"amount_usd"`
	IdempotencyKey string          `json:"idempotency_key"`
	ReleasedAt     time.Time       `json:"released_at"`
}

func PayoutKey(challengeID string, place int) string {
	return fmt.Sprintf("%s:%d", challengeID, place)
}

// PayoutQueue buffers instructions between settlement and delivery.
type PayoutQueue interface {
	Enqueue(ctx context.Context, items []PayoutInstruction) error
	// Dequeue waits up to block for one instruction. A nil item with a nil
	// error means nothing arrived in time.
	Dequeue(ctx context.Context, block time.Duration) (*PayoutInstruction, string, error)
	Ack(ctx context.Context, messageID string) error
	// ClaimStale takes over instructions another consumer dequeued but
	// never acked within minIdle, returning them with their message ids.
	ClaimStale(ctx context.Context, minIdle time.Duration) ([]PayoutInstruction, []string, error)
	Len(ctx context.Context) (int64, error)
}

// PayoutSender hands one instruction to the external payment system.
type PayoutSender interface {
	Send(ctx context.Context, item PayoutInstruction) error
}
