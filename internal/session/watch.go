package session

import "sync"

// Watchable holds a value and notifies subscribers of every change.
//
// Notifications are delivered one value at a time in the order Set was called,
// so every subscriber sees the same sequence of transitions. A subscriber may
// call Set on the same Watchable; the new value is queued behind the one being
// delivered.
type Watchable[T any] struct {
	mu         sync.Mutex
	value      T
	subs       []subscriber[T]
	nextID     int
	pending    []T
	delivering bool
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// NewWatchable creates a Watchable holding initial.
func NewWatchable[T any](initial T) *Watchable[T] {
	return &Watchable[T]{value: initial}
}

// Get returns the current value.
func (w *Watchable[T]) Get() T {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

// Set stores v and delivers it to subscribers. If a subscriber panics, values
// still queued are dropped and later calls to Set deliver normally.
func (w *Watchable[T]) Set(v T) {
	w.mu.Lock()
	w.value = v
	w.pending = append(w.pending, v)
	if w.delivering {
		w.mu.Unlock()
		return
	}
	w.delivering = true
	w.mu.Unlock()

	finished := false
	defer func() {
		if finished {
			return
		}
		w.mu.Lock()
		w.delivering = false
		w.pending = nil
		w.mu.Unlock()
	}()

	for {
		w.mu.Lock()
		if len(w.pending) == 0 {
			w.delivering = false
			finished = true
			w.mu.Unlock()
			return
		}
		next := w.pending[0]
		w.pending = w.pending[1:]
		subs := make([]subscriber[T], len(w.subs))
		copy(subs, w.subs)
		w.mu.Unlock()

		for _, s := range subs {
			s.fn(next)
		}
	}
}

// Subscribe registers fn for future changes. The returned function removes it.
func (w *Watchable[T]) Subscribe(fn func(T)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.subs = append(w.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		for i, s := range w.subs {
			if s.id == id {
				w.subs = append(w.subs[:i:i], w.subs[i+1:]...)
				return
			}
		}
	}
}
