package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carclub/paddock/internal/logging"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	dequeueBlock   = 2 * time.Second
	maxSendRetries = 3
	publishTimeout = 3 * time.Second

	// A consumer that has not acked within claimMinIdle is presumed dead.
	claimInterval = 2 * time.Minute
	claimMinIdle  = 5 * time.Minute
)

// PayoutRecorder receives delivery metrics. *metrics.MetricsRegistry
// satisfies it.
type PayoutRecorder interface {
	RecordPayout(result string)
	SetPayoutQueueDepth(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordPayout(string) {}
func (nopRecorder) SetPayoutQueueDepth(int) {}

// PayoutWorker drains the payout queue and hands instructions to the
// sender. Settlement never waits on it.
type PayoutWorker struct {
	queue    PayoutQueue
	sender   PayoutSender
	recorder PayoutRecorder
	limiter  *rate.Limiter
	backoff  time.Duration

	claimEvery time.Duration
	claimIdle  time.Duration
}

func NewPayoutWorker(queue PayoutQueue, sender PayoutSender, recorder PayoutRecorder, perSecond float64) *PayoutWorker {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &PayoutWorker{
		queue:    queue,
		sender:   sender,
		recorder: recorder,
		limiter:  rate.NewLimiter(limit, 1),
		backoff:  500 * time.Millisecond,

		claimEvery: claimInterval,
		claimIdle:  claimMinIdle,
	}
}

// PublishPayouts enqueues instructions after a settlement commits. Errors
// are logged, not returned: the settlement is already recorded and the
// instructions can be rebuilt from it.
func (w *PayoutWorker) PublishPayouts(ctx context.Context, items []PayoutInstruction) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := w.queue.Enqueue(ctx, items); err != nil {
		for _, item := range items {
			logging.Error("failed to enqueue payout",
				"idempotency_key", item.IdempotencyKey,
				"user_id", item.UserID,
				"amount_usd", item.AmountUSD.StringFixed(2),
				"error", err,
			)
		}
		w.recorder.RecordPayout("enqueue_failed")
		return
	}
	w.refreshDepth(ctx)
}

// Start runs n consumers plus the stale-message claimer until ctx is
// cancelled.
func (w *PayoutWorker) Start(ctx context.Context, n int) error {
	if n <= 0 {
		n = 1
	}
	logging.Info("starting payout workers", "workers", n)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		id := i
		g.Go(func() error {
			return w.consume(ctx, id)
		})
	}
	g.Go(func() error {
		return w.reclaim(ctx, n)
	})

	err := g.Wait()
	logging.Info("payout workers stopped")
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (w *PayoutWorker) consume(ctx context.Context, id int) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		item, msgID, err := w.queue.Dequeue(ctx, dequeueBlock)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logging.Warn("payout dequeue failed", "worker", id, "error", err)
			if !sleep(ctx, w.backoff) {
				return nil
			}
			continue
		}
		if item == nil {
			continue
		}

		w.deliver(ctx, id, *item)
		if err := w.queue.Ack(ctx, msgID); err != nil {
			logging.Warn("payout ack failed", "worker", id, "message_id", msgID, "error", err)
		}
		w.refreshDepth(ctx)
	}
}

// reclaim periodically takes over instructions that a crashed consumer
// dequeued but never acked. The first pass runs at startup.
func (w *PayoutWorker) reclaim(ctx context.Context, id int) error {
	ticker := time.NewTicker(w.claimEvery)
	defer ticker.Stop()

	for {
		w.claimStale(ctx, id)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *PayoutWorker) claimStale(ctx context.Context, id int) {
	items, msgIDs, err := w.queue.ClaimStale(ctx, w.claimIdle)
	if err != nil {
		if ctx.Err() == nil {
			logging.Warn("claiming stale payouts failed", "error", err)
		}
		return
	}
	if len(items) == 0 {
		return
	}
	logging.Info("claimed stale payouts", "count", len(items))

	for i, item := range items {
		w.deliver(ctx, id, item)
		// Left pending on shutdown; the next claimer picks it up.
		if ctx.Err() != nil {
			return
		}
		if err := w.queue.Ack(ctx, msgIDs[i]); err != nil {
			logging.Warn("payout ack failed", "worker", id, "message_id", msgIDs[i], "error", err)
		}
	}
	w.refreshDepth(ctx)
}

func (w *PayoutWorker) deliver(ctx context.Context, id int, item PayoutInstruction) {
	var lastErr error
	for attempt := 1; attempt <= maxSendRetries; attempt++ {
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
		lastErr = w.sender.Send(ctx, item)
		if lastErr == nil {
			w.recorder.RecordPayout("sent")
			return
		}
		logging.Warn("payout send failed",
			"worker", id,
			"attempt", attempt,
			"idempotency_key", item.IdempotencyKey,
			"error", lastErr,
		)
		if !retryable(lastErr) {
			break
		}
		if !sleep(ctx, w.backoff*time.Duration(attempt)) {
			return
		}
	}

	w.recorder.RecordPayout("failed")
	logging.Error("payout abandoned",
		"idempotency_key", item.IdempotencyKey,
		"user_id", item.UserID,
		"amount_usd", item.AmountUSD.StringFixed(2),
		"error", fmt.Errorf("giving up: %w", lastErr),
	)
}

// retryable reports whether a send error is worth another attempt.
// Senders mark permanent failures with Temporary() == false.
func retryable(err error) bool {
	var t interface{ Temporary() bool }
	if errors.As(err, &t) {
		return t.Temporary()
	}
	return true
}

func (w *PayoutWorker) refreshDepth(ctx context.Context) {
	n, err := w.queue.Len(ctx)
	if err != nil {
		return
	}
	w.recorder.SetPayoutQueueDepth(int(n))
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
