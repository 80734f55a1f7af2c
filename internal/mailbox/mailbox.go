// Package mailbox provides a single-slot buffer where the latest value
// always wins. It is NOT a queue: it holds at most one pending value, so
// overlapping rotation triggers collapse into one.
package mailbox

import (
	"context"
	"sync"
)

type Mailbox[T any] struct {
	mu  sync.Mutex
	val *T
	sig chan struct{}
}

func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{sig: make(chan struct{}, 1)}
}

// Put stores a value, replacing any pending one. It never blocks.
func (m *Mailbox[T]) Put(v T) {
	m.mu.Lock()
	m.val = &v
	m.mu.Unlock()

	select {
	case m.sig <- struct{}{}:
	default:
	}
}

// Take blocks until a value is available or ctx ends. The second return is
// false when ctx ended first.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	for {
		m.mu.Lock()
		if m.val != nil {
			v := *m.val
			m.val = nil
			m.mu.Unlock()
			return v, true
		}
		m.mu.Unlock()

		select {
		case <-m.sig:
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// TryTake returns the pending value, if any, without blocking.
func (m *Mailbox[T]) TryTake() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.val == nil {
		var zero T
		return zero, false
	}
	v := *m.val
	m.val = nil
	return v, true
}
