package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/mohammadpnp/math-server/internal/domain/calculation"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = calculation.ErrQueueClosed
)

// MemoryQueue is a bounded in-process queue. Enqueue never blocks; a full
// queue is reported as an error so the caller can reject the submission.
type MemoryQueue struct {
	ch chan calculation.Dispatch

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 128
	}
	return &MemoryQueue{
		ch:   make(chan calculation.Dispatch, size),
		done: make(chan struct{}),
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, d calculation.Dispatch) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- d:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue returns queued dispatches even after Close until the buffer is
// drained, then ErrQueueClosed. Workers use that to finish queued work on
// shutdown.
func (q *MemoryQueue) Dequeue(ctx context.Context) (calculation.Dispatch, error) {
	select {
	case d := <-q.ch:
		return d, nil
	default:
	}

	select {
	case <-ctx.Done():
		return calculation.Dispatch{}, ctx.Err()
	case d := <-q.ch:
		return d, nil
	case <-q.done:
		select {
		case d := <-q.ch:
			return d, nil
		default:
			return calculation.Dispatch{}, ErrQueueClosed
		}
	}
}

func (q *MemoryQueue) Len() int {
	return len(q.ch)
}

func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
