package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu       sync.Mutex
	sent     []PayoutInstruction
	failures int
}

func (s *recordingSender) Send(_ context.Context, item PayoutInstruction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("provider unavailable")
	}
	s.sent = append(s.sent, item)
	return nil
}

func (s *recordingSender) snapshot() []PayoutInstruction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PayoutInstruction(nil), s.sent...)
}

type countingRecorder struct {
	mu      sync.Mutex
	results map[string]int
}

func (r *countingRecorder) RecordPayout(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = map[string]int{}
	}
	r.results[result]++
}

func (r *countingRecorder) SetPayoutQueueDepth(int) {}

func (r *countingRecorder) count(result string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[result]
}

func instructions(challengeID string) []PayoutInstruction {
	amounts := []string{"125.00", "75.00", "50.00"}
	items := make([]PayoutInstruction, 0, 3)
	for i, a := range amounts {
		items = append(items, PayoutInstruction{
			ChallengeID:    challengeID,
			UserID:         "user-" + a,
			Place:          i + 1,
			AmountUSD:      decimal.RequireFromString(a),
			IdempotencyKey: PayoutKey(challengeID, i+1),
		})
	}
	return items
}

func TestPayoutWorkerDeliversAll(t *testing.T) {
	queue := NewChannelPayoutQueue(16)
	sender := &recordingSender{}
	rec := &countingRecorder{}
	w := NewPayoutWorker(queue, sender, rec, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, 2) }()

	w.PublishPayouts(context.Background(), instructions("ch-1"))

	require.Eventually(t, func() bool { return len(sender.snapshot()) == 3 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	keys := map[string]bool{}
	for _, item := range sender.snapshot() {
		keys[item.IdempotencyKey] = true
	}
	assert.Equal(t, map[string]bool{"ch-1:1": true, "ch-1:2": true, "ch-1:3": true}, keys)
	assert.Equal(t, 3, rec.count("sent"))
}

func TestPayoutWorkerRetriesTransientFailure(t *testing.T) {
	queue := NewChannelPayoutQueue(4)
	sender := &recordingSender{failures: 1}
	w := NewPayoutWorker(queue, sender, nil, 0)
	w.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx, 1) }()

	w.PublishPayouts(context.Background(), instructions("ch-2")[:1])

	require.Eventually(t, func() bool { return len(sender.snapshot()) == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "ch-2:1", sender.snapshot()[0].IdempotencyKey)
}

func TestChannelQueueFullDoesNotBlock(t *testing.T) {
	queue := NewChannelPayoutQueue(2)
	rec := &countingRecorder{}
	w := NewPayoutWorker(queue, &recordingSender{}, rec, 0)

	finished := make(chan struct{})
	go func() {
		w.PublishPayouts(context.Background(), instructions("ch-3"))
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("PublishPayouts blocked on a full queue")
	}
	assert.Equal(t, 1, rec.count("enqueue_failed"))
}

func TestChannelQueueRejectsOversizedBatchWhole(t *testing.T) {
	queue := NewChannelPayoutQueue(2)
	ctx := context.Background()

	err := queue.Enqueue(ctx, instructions("ch-5"))
	require.ErrorIs(t, err, ErrQueueFull)
	n, err := queue.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing from a rejected batch is queued")

	require.NoError(t, queue.Enqueue(ctx, instructions("ch-5")[:2]))
	require.ErrorIs(t, queue.Enqueue(ctx, instructions("ch-6")[:1]), ErrQueueFull)
	n, err = queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

// pendingQueue holds instructions a previous consumer dequeued but never
// acked.
type pendingQueue struct {
	*ChannelPayoutQueue

	mu      sync.Mutex
	pending map[string]PayoutInstruction
	acked   []string
}

func (q *pendingQueue) ClaimStale(context.Context, time.Duration) ([]PayoutInstruction, []string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var items []PayoutInstruction
	var ids []string
	for id, item := range q.pending {
		items = append(items, item)
		ids = append(ids, id)
	}
	q.pending = nil
	return items, ids, nil
}

func (q *pendingQueue) Ack(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked = append(q.acked, id)
	return nil
}

func (q *pendingQueue) ackedIDs() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.acked...)
}

func TestPayoutWorkerRedeliversUnackedPayouts(t *testing.T) {
	queue := &pendingQueue{
		ChannelPayoutQueue: NewChannelPayoutQueue(4),
		pending:            map[string]PayoutInstruction{"1700000000000-0": instructions("ch-7")[0]},
	}
	sender := &recordingSender{}
	w := NewPayoutWorker(queue, sender, nil, 0)
	w.claimEvery = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, 1) }()

	require.Eventually(t, func() bool { return len(queue.ackedIDs()) == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	sent := sender.snapshot()
	require.Len(t, sent, 1)
	assert.Equal(t, "ch-7:1", sent[0].IdempotencyKey)
	assert.Equal(t, []string{"1700000000000-0"}, queue.ackedIDs())
}

func TestChannelQueueDequeueTimesOut(t *testing.T) {
	queue := NewChannelPayoutQueue(1)

	item, id, err := queue.Dequeue(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Empty(t, id)
}

type permanentErr struct{}

func (permanentErr) Error() string   { return "rejected" }
func (permanentErr) Temporary() bool { return false }

type rejectingSender struct {
	mu    sync.Mutex
	calls int
}

func (s *rejectingSender) Send(context.Context, PayoutInstruction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return permanentErr{}
}

func (s *rejectingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestPayoutWorkerStopsOnPermanentFailure(t *testing.T) {
	queue := NewChannelPayoutQueue(4)
	sender := &rejectingSender{}
	rec := &countingRecorder{}
	w := NewPayoutWorker(queue, sender, rec, 0)
	w.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx, 1) }()

	w.PublishPayouts(context.Background(), instructions("ch-4")[:1])

	require.Eventually(t, func() bool { return rec.count("failed") == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, sender.count())
}
