// Property tests comparing slotmap.Map against the plain-Go reference
// model in slotmapmodel, across randomized operation sequences decoded
// from a fuzz byte stream.
//
// Failures mean: the real implementation's observable behavior diverged
// from the model's - a logic bug in slot/generation bookkeeping, not a
// performance concern.

package slotmap_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nilkey/slotmap/pkg/slotmap"
	"github.com/nilkey/slotmap/pkg/slotmap/slotmapmodel"
)

// opKind is decoded from a single fuzz byte; both the real map and the
// model apply the exact same sequence of ops so their internal slot
// indices stay isomorphic without needing to decode Key bits in test
// code (Key is deliberately opaque outside the package).
type opKind int

const (
	opAllocate opKind = iota
	opInsert
	opRelease
	opRemove
	opClear
	opKindCount
)

func FuzzMap_Matches_Model_When_Random_Ops_Applied(f *testing.F) {
	f.Add([]byte{0x00, 0x01, 0x02})
	f.Add([]byte{0xFF, 0xFE, 0xFD})
	f.Add([]byte("slotmap-ops"))
	f.Add(make([]byte, 32))

	f.Fuzz(func(t *testing.T, ops []byte) {
		real := slotmap.New[int]()
		model := slotmapmodel.New[int]()

		var pendingReal []slotmap.Handle

		var pendingModel []slotmapmodel.Key

		for i, b := range ops {
			switch opKind(int(b) % int(opKindCount)) {
			case opAllocate:
				h, err := real.AllocateHandle()
				if err != nil {
					// Only possible on index-space exhaustion, infeasible here.
					t.Fatalf("AllocateHandle: %v", err)
				}

				mk := model.AllocateHandle()
				pendingReal = append(pendingReal, h)
				pendingModel = append(pendingModel, mk)

			case opInsert:
				if len(pendingReal) == 0 {
					continue
				}

				idx := int(b) % len(pendingReal)
				h, mk := pendingReal[idx], pendingModel[idx]
				pendingReal = append(pendingReal[:idx], pendingReal[idx+1:]...)
				pendingModel = append(pendingModel[:idx], pendingModel[idx+1:]...)

				value := int(b) + i

				_, err := real.Insert(h, value)
				require.NoError(t, err)
				model.Insert(mk, value)

			case opRelease:
				if len(pendingReal) == 0 {
					continue
				}

				idx := int(b) % len(pendingReal)
				h, mk := pendingReal[idx], pendingModel[idx]
				pendingReal = append(pendingReal[:idx], pendingReal[idx+1:]...)
				pendingModel = append(pendingModel[:idx], pendingModel[idx+1:]...)

				require.NoError(t, real.ReleaseHandle(h))
				model.ReleaseHandle(mk)

			case opRemove:
				live := model.All()
				if len(live) == 0 {
					continue
				}

				idx := int(b) % len(live)
				mk := live[idx].Key

				_, modelOK := model.Remove(mk)
				require.True(t, modelOK)

				// Translate the model key to the real map's key by
				// matching position: both containers assign slot
				// indices identically for identical op sequences, and
				// both expose All() in ascending-index order, so the
				// idx-th live entry corresponds across the two.
				realLive := collectRealAll(real)
				_, realOK := real.Remove(realLive[idx].key)
				require.True(t, realOK)

			case opClear:
				real.Clear()
				model.Clear()
			}

			assertMatches(t, real, model)
		}
	})
}

type realKV struct {
	key   slotmap.Key
	value int
}

func collectRealAll(m *slotmap.Map[int]) []realKV {
	var out []realKV

	for k, v := range m.All() {
		out = append(out, realKV{key: k, value: v})
	}

	return out
}

func assertMatches(t *testing.T, real *slotmap.Map[int], model *slotmapmodel.Model[int]) {
	t.Helper()

	require.Equal(t, model.Len(), real.Len(), "Len must agree")

	realValues := make([]int, 0)
	for _, kv := range collectRealAll(real) {
		realValues = append(realValues, kv.value)
	}

	modelValues := make([]int, 0)
	for _, kv := range model.All() {
		modelValues = append(modelValues, kv.Value)
	}

	diff := cmp.Diff(modelValues, realValues)
	assert.Empty(t, diff, "occupied values in slot-index order must match the model")
}
