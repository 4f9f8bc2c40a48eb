package vocab

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDMap(t *testing.T) {
	t.Run("InsertionOrder", func(t *testing.T) {
		m := NewIDMap()
		assert.Equal(t, 0, m.Add("b"))
		assert.Equal(t, 1, m.Add("a"))
		assert.Equal(t, 2, m.Add("c"))
		assert.Equal(t, []string{"b", "a", "c"}, m.IDs())
		assert.Equal(t, 3, m.Len())
	})

	t.Run("AddIsIdempotent", func(t *testing.T) {
		m := NewIDMap()
		first := m.Add("x")
		assert.Equal(t, first, m.Add("x"))
		assert.Equal(t, 1, m.Len())
	})

	t.Run("Lookup", func(t *testing.T) {
		m := FromIDs("u1", "u2", "u1")
		require.Equal(t, 2, m.Len())

		i, ok := m.Index("u2")
		require.True(t, ok)
		assert.Equal(t, 1, i)

		_, ok = m.Index("u3")
		assert.False(t, ok)

		id, ok := m.ID(0)
		require.True(t, ok)
		assert.Equal(t, "u1", id)

		_, ok = m.ID(2)
		assert.False(t, ok)
	})

	t.Run("IDsReturnsCopy", func(t *testing.T) {
		m := FromIDs("a", "b")
		ids := m.IDs()
		ids[0] = "mutated"

		got, ok := m.ID(0)
		require.True(t, ok)
		assert.Equal(t, "a", got)
	})

	t.Run("ConcurrentAdd", func(t *testing.T) {
		m := NewIDMap()

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					m.Add(fmt.Sprintf("id-%d", i))
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, m.Len())
	})
}
