package history

import "sync"

// Log is an append-only record list bounded to a maximum size.
// When full, appending drops the oldest record.
type Log[T any] struct {
	mu    sync.RWMutex
	items []T
	limit int
}

// NewLog creates a log keeping at most limit records.
// A non-positive limit means unbounded.
func NewLog[T any](limit int) *Log[T] {
	return &Log[T]{limit: limit}
}

// Append records v, evicting the oldest record when the log is full.
func (l *Log[T]) Append(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, v)
	if l.limit > 0 && len(l.items) > l.limit {
		overflow := len(l.items) - l.limit
		var zero T
		for i := range overflow {
			l.items[i] = zero
		}
		l.items = l.items[overflow:]
	}
}

// Len returns the number of records kept.
func (l *Log[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Items returns a copy of all records, oldest first.
func (l *Log[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}
