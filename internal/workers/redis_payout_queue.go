package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"carclub/paddock/internal/logging"

	"github.com/redis/go-redis/v9"
)

const (
	payoutGroup = "payout-workers"
	claimBatch  = 100
)

// RedisPayoutQueue stores instructions in a Redis Stream read through a
// consumer group. Messages a dead consumer left unacked stay in the
// group's pending list until ClaimStale hands them to a live one.
type RedisPayoutQueue struct {
	client   *redis.Client
	stream   string
	consumer string
}

func NewRedisPayoutQueue(client *redis.Client, stream, consumer string) *RedisPayoutQueue {
	return &RedisPayoutQueue{client: client, stream: stream, consumer: consumer}
}

// EnsureGroup creates the consumer group if it doesn't exist
func (q *RedisPayoutQueue) EnsureGroup(ctx context.Context) error {
	// XGROUP CREATE stream group 0 MKSTREAM
	err := q.client.XGroupCreateMkStream(ctx, q.stream, payoutGroup, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

func (q *RedisPayoutQueue) Enqueue(ctx context.Context, items []PayoutInstruction) error {
	if len(items) == 0 {
		return nil
	}

	pipe := q.client.Pipeline()
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal payout %s: %w", item.IdempotencyKey, err)
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: q.stream,
			Values: map[string]interface{}{"data": string(data)},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute batch: %w", err)
	}
	return nil
}

func (q *RedisPayoutQueue) Dequeue(ctx context.Context, block time.Duration) (*PayoutInstruction, string, error) {
	// XREADGROUP GROUP group consumer BLOCK ms COUNT 1 STREAMS stream >
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    payoutGroup,
		Consumer: q.consumer,
		Streams:  []string{q.stream, ">"},
		Count:    1,
		Block:    block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to read from stream: %w", err)
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return nil, "", nil
	}

	item := q.decode(ctx, streams[0].Messages[0])
	if item == nil {
		return nil, "", nil
	}
	return item, streams[0].Messages[0].ID, nil
}

// ClaimStale moves messages idle for at least minIdle to this consumer.
func (q *RedisPayoutQueue) ClaimStale(ctx context.Context, minIdle time.Duration) ([]PayoutInstruction, []string, error) {
	// Get pending messages
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.stream,
		Group:  payoutGroup,
		Start:  "-",
		End:    "+",
		Count:  claimBatch,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get pending messages: %w", err)
	}

	var staleIDs []string
	for _, p := range pending {
		if p.Idle >= minIdle {
			staleIDs = append(staleIDs, p.ID)
		}
	}
	if len(staleIDs) == 0 {
		return nil, nil, nil
	}

	// XCLAIM re-checks idle time, so a message another consumer claimed
	// first is skipped.
	messages, err := q.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   q.stream,
		Group:    payoutGroup,
		Consumer: q.consumer,
		MinIdle:  minIdle,
		Messages: staleIDs,
	}).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to claim stale messages: %w", err)
	}

	items := make([]PayoutInstruction, 0, len(messages))
	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		if item := q.decode(ctx, msg); item != nil {
			items = append(items, *item)
			ids = append(ids, msg.ID)
		}
	}
	return items, ids, nil
}

// decode parses one stream message. Unreadable messages are acked and
// dropped, otherwise they would be redelivered forever.
func (q *RedisPayoutQueue) decode(ctx context.Context, msg redis.XMessage) *PayoutInstruction {
	raw, ok := msg.Values["data"].(string)
	if !ok {
		logging.Warn("dropping malformed payout message", "message_id", msg.ID)
		_ = q.Ack(ctx, msg.ID)
		return nil
	}

	var item PayoutInstruction
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		logging.Warn("dropping undecodable payout message", "message_id", msg.ID, "error", err)
		_ = q.Ack(ctx, msg.ID)
		return nil
	}
	return &item
}

func (q *RedisPayoutQueue) Ack(ctx context.Context, messageID string) error {
	return q.client.XAck(ctx, q.stream, payoutGroup, messageID).Err()
}

func (q *RedisPayoutQueue) Len(ctx context.Context) (int64, error) {
	return q.client.XLen(ctx, q.stream).Result()
}
