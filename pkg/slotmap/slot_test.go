package slotmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Slots_Allocate_Grows_When_FreeList_Empty(t *testing.T) {
	t.Parallel()

	s := newSlots[int](0)

	idx1, v1, err := s.allocate()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), idx1)
	assert.Equal(t, uint32(0), v1)

	idx2, _, err := s.allocate()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), idx2)
	assert.Equal(t, 2, s.capacity())
}

func Test_Slots_Free_Then_Allocate_Reuses_Index(t *testing.T) {
	t.Parallel()

	s := newSlots[int](0)

	idx, _, err := s.allocate()
	require.NoError(t, err)

	// Simulate the vacant transition a Map performs before returning a
	// slot to the free list.
	s.at(idx).version = withState(s.at(idx).version, stateVacant)
	s.free(idx)

	reused, _, err := s.allocate()
	require.NoError(t, err)
	assert.Equal(t, idx, reused)
}

func Test_Slots_FreeList_Is_LIFO(t *testing.T) {
	t.Parallel()

	s := newSlots[int](0)

	var indices []uint32

	for i := 0; i < 3; i++ {
		idx, _, err := s.allocate()
		require.NoError(t, err)
		indices = append(indices, idx)
	}

	for _, idx := range indices {
		s.at(idx).version = withState(s.at(idx).version, stateVacant)
		s.free(idx)
	}

	for i := len(indices) - 1; i >= 0; i-- {
		got, _, err := s.allocate()
		require.NoError(t, err)
		assert.Equal(t, indices[i], got, "free list must pop in LIFO order")
	}
}

func Test_Slots_Reserve_GrowsBackingArrayWithoutChangingCapacityCount(t *testing.T) {
	t.Parallel()

	s := newSlots[int](0)
	s.reserve(8)

	assert.Equal(t, 0, s.capacity(), "reserve pre-allocates but does not materialize slots")
	assert.GreaterOrEqual(t, cap(s.items), 8)
}

func Test_Slots_InBounds(t *testing.T) {
	t.Parallel()

	s := newSlots[int](0)
	_, _, err := s.allocate()
	require.NoError(t, err)

	assert.True(t, s.inBounds(0))
	assert.False(t, s.inBounds(1))
}
