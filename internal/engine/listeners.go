package engine

import "sync"

// registry is an ordered set of callbacks. Callbacks run outside the lock, so
// they may register or unregister listeners themselves.
type registry[T any] struct {
	mu      sync.Mutex
	nextID  uint64
	entries []listener[T]
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// add registers fn and returns its unsubscribe func, which is idempotent.
func (r *registry[T]) add(fn func(T)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.entries = append(r.entries, listener[T]{id: id, fn: fn})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *registry[T]) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.entries {
		if l.id == id {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return
		}
	}
}

func (r *registry[T]) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// emit calls every listener with v. A panicking listener is reported to
// onPanic and does not stop the others.
func (r *registry[T]) emit(v T, onPanic func(any)) {
	r.mu.Lock()
	fns := make([]func(T), len(r.entries))
	for i, l := range r.entries {
		fns[i] = l.fn
	}
	r.mu.Unlock()

	for _, fn := range fns {
		callSafely(fn, v, onPanic)
	}
}

func callSafely[T any](fn func(T), v T, onPanic func(any)) {
	defer func() {
		if p := recover(); p != nil {
			onPanic(p)
		}
	}()
	fn(v)
}
