package live

import "sync"

// View is a value derived from one or more sources. Close detaches it from its
// sources; the last snapshot stays readable.
type View[T any] struct {
	*Value[T]
	once  sync.Once
	stops []func()
}

// Close stops recomputing the view. It is safe to call more than once.
func (w *View[T]) Close() {
	w.once.Do(func() {
		for _, stop := range w.stops {
			stop()
		}
	})
}

// Map derives a view whose snapshot is fn applied to every snapshot of src.
func Map[S, T any](src *Value[S], fn func(S) T) *View[T] {
	var zero T
	w := &View[T]{Value: NewValue(zero)}
	w.stops = append(w.stops, src.Observe(func(s S) {
		w.Set(fn(s))
	}))
	return w
}

// Combine derives a view recomputed whenever a or b emits. fn always sees the
// latest snapshot of both sources.
func Combine[A, B, T any](a *Value[A], b *Value[B], fn func(A, B) T) *View[T] {
	var zero T
	w := &View[T]{Value: NewValue(zero)}
	var mu sync.Mutex
	recompute := func() {
		mu.Lock()
		defer mu.Unlock()
		w.Set(fn(a.Get(), b.Get()))
	}
	w.stops = append(w.stops,
		a.Observe(func(A) { recompute() }),
		b.Observe(func(B) { recompute() }),
	)
	return w
}

// Query derives a view by re-running run every time trigger emits, typically a
// table change counter. A failed run keeps the previous snapshot and reports
// the error to onErr.
func Query[T any](trigger *Value[uint64], run func() (T, error), onErr func(error)) *View[T] {
	var zero T
	w := &View[T]{Value: NewValue(zero)}
	w.stops = append(w.stops, trigger.Observe(func(uint64) {
		res, err := run()
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		w.Set(res)
	}))
	return w
}
