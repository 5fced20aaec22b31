package workers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

var ErrQueueFull = errors.New("payout queue full")

// ChannelPayoutQueue is the in-process queue used when Redis is not
// configured. Instructions are lost on restart.
type ChannelPayoutQueue struct {
	mu  sync.Mutex // serializes producers so a batch lands whole
	ch  chan PayoutInstruction
	seq atomic.Int64
}

func NewChannelPayoutQueue(size int) *ChannelPayoutQueue {
	if size <= 0 {
		size = 1
	}
	return &ChannelPayoutQueue{ch: make(chan PayoutInstruction, size)}
}

// Enqueue never blocks. A batch is queued whole or not at all: when the
// free space is smaller than the batch it fails with ErrQueueFull and
// queues nothing.
func (q *ChannelPayoutQueue) Enqueue(ctx context.Context, items []PayoutInstruction) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if free := cap(q.ch) - len(q.ch); free < len(items) {
		return fmt.Errorf("%w: %d free, %d requested", ErrQueueFull, free, len(items))
	}
	// Consumers only drain, so the checked space cannot shrink.
	for _, item := range items {
		q.ch <- item
	}
	return nil
}

func (q *ChannelPayoutQueue) Dequeue(ctx context.Context, block time.Duration) (*PayoutInstruction, string, error) {
	timer := time.NewTimer(block)
	defer timer.Stop()

	select {
	case item := <-q.ch:
		return &item, strconv.FormatInt(q.seq.Add(1), 10), nil
	case <-timer.C:
		return nil, "", nil
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
}

func (q *ChannelPayoutQueue) Ack(context.Context, string) error { return nil }

// ClaimStale finds nothing: a dequeued item never stays pending here.
func (q *ChannelPayoutQueue) ClaimStale(context.Context, time.Duration) ([]PayoutInstruction, []string, error) {
	return nil, nil, nil
}

func (q *ChannelPayoutQueue) Len(context.Context) (int64, error) {
	return int64(len(q.ch)), nil
}
