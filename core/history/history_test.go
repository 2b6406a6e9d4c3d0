package history_test

import (
	"sync"
	"testing"

	"github.com/dmitrymomot/graphedit/core/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	t.Parallel()

	t.Run("pops in LIFO order", func(t *testing.T) {
		t.Parallel()

		s := history.NewStack[int](10)
		for i := 1; i <= 3; i++ {
			s.Push(i)
		}

		for _, want := range []int{3, 2, 1} {
			got, ok := s.Pop()
			require.True(t, ok)
			assert.Equal(t, want, got)
		}

		_, ok := s.Pop()
		assert.False(t, ok)
	})

	t.Run("evicts oldest when full", func(t *testing.T) {
		t.Parallel()

		s := history.NewStack[int](3)
		for i := 1; i <= 3; i++ {
			_, evicted := s.Push(i)
			assert.False(t, evicted)
		}

		old, evicted := s.Push(4)
		require.True(t, evicted)
		assert.Equal(t, 1, old)
		assert.Equal(t, 3, s.Len())
		assert.Equal(t, []int{2, 3, 4}, s.Items())
	})

	t.Run("peek does not remove", func(t *testing.T) {
		t.Parallel()

		s := history.NewStack[string](0)
		_, ok := s.Peek()
		assert.False(t, ok)

		s.Push("a")
		top, ok := s.Peek()
		require.True(t, ok)
		assert.Equal(t, "a", top)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("clear empties stack", func(t *testing.T) {
		t.Parallel()

		s := history.NewStack[int](5)
		s.Push(1)
		s.Push(2)
		s.Clear()
		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.Items())
	})

	t.Run("never exceeds limit under concurrent pushes", func(t *testing.T) {
		t.Parallel()

		s := history.NewStack[int](50)
		var wg sync.WaitGroup
		for i := range 200 {
			wg.Add(1)
			go func(v int) {
				defer wg.Done()
				s.Push(v)
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 50, s.Len())
	})
}

func TestLog(t *testing.T) {
	t.Parallel()

	t.Run("keeps the N most recent records", func(t *testing.T) {
		t.Parallel()

		l := history.NewLog[int](5)
		for i := 1; i <= 6; i++ {
			l.Append(i)
		}

		assert.Equal(t, 5, l.Len())
		assert.Equal(t, []int{2, 3, 4, 5, 6}, l.Items())
	})

	t.Run("items returns a copy", func(t *testing.T) {
		t.Parallel()

		l := history.NewLog[int](0)
		l.Append(1)
		items := l.Items()
		items[0] = 42
		assert.Equal(t, []int{1}, l.Items())
	})
}
