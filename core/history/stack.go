package history

import "sync"

// Stack is a bounded LIFO stack. Pushing onto a full stack evicts the oldest
// (bottom) element, which is then gone for good.
type Stack[T any] struct {
	mu    sync.Mutex
	items []T
	limit int
}

// NewStack creates a stack holding at most limit elements.
// A non-positive limit means unbounded.
func NewStack[T any](limit int) *Stack[T] {
	return &Stack[T]{limit: limit}
}

// Push adds v on top of the stack. It reports the evicted element, if any.
func (s *Stack[T]) Push(v T) (evicted T, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, v)
	if s.limit > 0 && len(s.items) > s.limit {
		evicted, ok = s.items[0], true
		var zero T
		s.items[0] = zero
		s.items = s.items[1:]
	}
	return evicted, ok
}

// Pop removes and returns the top element.
func (s *Stack[T]) Pop() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	last := len(s.items) - 1
	v := s.items[last]
	s.items[last] = zero
	s.items = s.items[:last]
	return v, true
}

// Peek returns the top element without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of elements on the stack.
func (s *Stack[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Limit returns the configured capacity (0 when unbounded).
func (s *Stack[T]) Limit() int {
	return s.limit
}

// Clear drops every element.
func (s *Stack[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the stack contents, bottom first.
func (s *Stack[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
