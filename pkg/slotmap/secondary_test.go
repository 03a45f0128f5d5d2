package slotmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nilkey/slotmap/pkg/slotmap"
)

// Test_Secondary_Staleness mirrors spec §8 scenario 6.
func Test_Secondary_Staleness(t *testing.T) {
	t.Parallel()

	m := slotmap.New[string]()
	sec := slotmap.NewSecondaryMap[int]()

	h, err := m.AllocateHandle()
	require.NoError(t, err)

	k, err := m.Insert(h, "a")
	require.NoError(t, err)

	sec.Insert(k, 1)

	v, ok := sec.Get(k)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = m.Remove(k)
	require.True(t, ok)

	h2, err := m.AllocateHandle()
	require.NoError(t, err)

	require.Equal(t, h.Index(), h2.Index(), "precondition: slot must be reused")

	kPrime, err := m.Insert(h2, "b")
	require.NoError(t, err)

	_, ok = sec.Get(k)
	assert.False(t, ok, "removal must invalidate the secondary entry lazily")

	_, ok = sec.Get(kPrime)
	assert.False(t, ok, "a fresh key must not see the stale secondary entry")

	sec.Insert(kPrime, 2)

	v, ok = sec.Get(kPrime)
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = sec.Get(k)
	assert.False(t, ok)
}

func Test_Secondary_Insert_Replaces_Prior_Entry(t *testing.T) {
	t.Parallel()

	m := slotmap.New[string]()
	sec := slotmap.NewSecondaryMap[string]()

	h, err := m.AllocateHandle()
	require.NoError(t, err)

	k, err := m.Insert(h, "a")
	require.NoError(t, err)

	sec.Insert(k, "first")
	sec.Insert(k, "second")

	v, ok := sec.Get(k)
	require.True(t, ok)
	assert.Equal(t, "second", v)
	assert.Equal(t, 1, sec.Len())
}

func Test_Secondary_Remove(t *testing.T) {
	t.Parallel()

	m := slotmap.New[int]()
	sec := slotmap.NewSecondaryMap[int]()

	h, err := m.AllocateHandle()
	require.NoError(t, err)

	k, err := m.Insert(h, 1)
	require.NoError(t, err)

	sec.Insert(k, 42)

	v, ok := sec.Remove(k)
	require.True(t, ok)
	assert.Equal(t, 42, v)

	assert.False(t, sec.ContainsKey(k))
}

func Test_Secondary_Retain_Sweeps_Stale_Entries(t *testing.T) {
	t.Parallel()

	m := slotmap.New[int]()
	sec := slotmap.NewSecondaryMap[int]()

	var keys []slotmap.Key

	for i := 0; i < 3; i++ {
		h, err := m.AllocateHandle()
		require.NoError(t, err)

		k, err := m.Insert(h, i)
		require.NoError(t, err)

		sec.Insert(k, i*10)
		keys = append(keys, k)
	}

	// Remove and reallocate the middle key, staling its secondary entry.
	_, ok := m.Remove(keys[1])
	require.True(t, ok)

	h, err := m.AllocateHandle()
	require.NoError(t, err)

	_, err = m.Insert(h, 99)
	require.NoError(t, err)

	sec.Retain(func(key slotmap.Key, value int) bool {
		return m.ContainsKey(key)
	})

	assert.Equal(t, 2, sec.Len(), "retain should drop the entry that no longer matches any live key")

	_, ok = sec.Get(keys[0])
	assert.True(t, ok)
	_, ok = sec.Get(keys[2])
	assert.True(t, ok)
}
