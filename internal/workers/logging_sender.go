package workers

import (
	"context"

	"carclub/paddock/internal/logging"
)

// LoggingSender stands in for the payment provider: it records each
// instruction and reports success.
type LoggingSender struct{}

func (LoggingSender) Send(ctx context.Context, item PayoutInstruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logging.Info("payout instruction sent",
		"challenge_id", item.ChallengeID,
		"user_id", item.UserID,
		"place", item.Place,
		"amount_usd", item.AmountUSD.StringFixed(2),
		"idempotency_key", item.IdempotencyKey,
	)
	return nil
}
