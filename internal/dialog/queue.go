package dialog

import (
	"context"
	"sync"

	"github.com/stagehand-io/stagehand/internal/policy"
)

// Queued wraps a Decider so that at most one prompt is open system-wide.
// A Present call arriving while another prompt is open waits its turn in
// FIFO order — deferred, never dropped. Cancelling the waiting context
// abandons the slot and resolves to Declined.
type Queued struct {
	inner Decider

	mu      sync.Mutex
	busy    bool
	waiters []chan struct{}
}

// NewQueued creates a serializing wrapper around inner.
func NewQueued(inner Decider) *Queued {
	return &Queued{inner: inner}
}

// Present waits for the prompt slot, then delegates to the wrapped
// decider.
func (q *Queued) Present(ctx context.Context, v *policy.Verdict) (Decision, error) {
	if err := q.acquire(ctx); err != nil {
		return Declined, err
	}
	defer q.release()
	return q.inner.Present(ctx, v)
}

func (q *Queued) acquire(ctx context.Context) error {
	q.mu.Lock()
	if !q.busy {
		q.busy = true
		q.mu.Unlock()
		return nil
	}
	grant := make(chan struct{})
	q.waiters = append(q.waiters, grant)
	q.mu.Unlock()

	select {
	case <-grant:
		return nil
	case <-ctx.Done():
		q.abandon(grant)
		return ctx.Err()
	}
}

// abandon removes a waiter that gave up. If the grant already fired the
// slot is ours and must be passed along.
func (q *Queued) abandon(grant chan struct{}) {
	q.mu.Lock()
	for i, w := range q.waiters {
		if w == grant {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			q.mu.Unlock()
			return
		}
	}
	q.mu.Unlock()
	// Not in the queue: the slot was granted concurrently with
	// cancellation. Hand it to the next waiter.
	q.release()
}

func (q *Queued) release() {
	q.mu.Lock()
	if len(q.waiters) > 0 {
		next := q.waiters[0]
		q.waiters = q.waiters[1:]
		q.mu.Unlock()
		close(next)
		return
	}
	q.busy = false
	q.mu.Unlock()
}
