// Package live provides observable values: a holder for the latest snapshot of
// some state that pushes every new snapshot to its observers.
//
// Observers run synchronously on the goroutine that calls Set, one emission at
// a time, so a value returned by Set is already visible to every observer.
// An observer must not call Set on the value it observes.
package live

import (
	"context"
	"sync"
)

// Value holds the latest emitted snapshot of T.
type Value[T any] struct {
	emitMu sync.Mutex // serialises emissions and registrations

	mu        sync.RWMutex
	cur       T
	version   uint64
	observers map[uint64]func(T)
	nextID    uint64
}

// NewValue creates a value holding initial at version 0.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		cur:       initial,
		observers: make(map[uint64]func(T)),
	}
}

// Get returns the latest snapshot.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cur
}

// Snapshot returns the latest snapshot together with its version. The version
// grows by one on every Set.
func (v *Value[T]) Snapshot() (T, uint64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cur, v.version
}

// Set stores x and notifies every observer before returning.
func (v *Value[T]) Set(x T) {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	v.cur = x
	v.version++
	fns := make([]func(T), 0, len(v.observers))
	for _, fn := range v.observers {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(x)
	}
}

// Observe registers fn, calls it immediately with the current snapshot, then
// on every Set until the returned cancel func is called.
func (v *Value[T]) Observe(fn func(T)) (cancel func()) {
	v.emitMu.Lock()
	defer v.emitMu.Unlock()

	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.observers[id] = fn
	cur := v.cur
	v.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.observers, id)
			v.mu.Unlock()
		})
	}
}

// Subscribe returns a channel that receives the current snapshot and then every
// later one. Slow readers only ever see the newest pending snapshot. The channel
// is closed once ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	out := make(chan T, 1)
	var mu sync.Mutex
	closed := false

	cancel := v.Observe(func(x T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case out <- x:
		default:
			// drop the stale pending snapshot, keep the newest
			select {
			case <-out:
			default:
			}
			out <- x
		}
	})

	go func() {
		<-ctx.Done()
		cancel()
		mu.Lock()
		closed = true
		close(out)
		mu.Unlock()
	}()

	return out
}
