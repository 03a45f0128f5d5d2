package slotmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_VersionState_Roundtrips_Through_WithState(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		state uint32
	}{
		{"Vacant", stateVacant},
		{"Reserved", stateReserved},
		{"Occupied", stateOccupied},
	}

	var version uint32 = 42 << 2 // some arbitrary generation, state bits zero

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			next := withState(version, testCase.state)
			assert.Equal(t, testCase.state, versionState(next), "state bits should round-trip")
			assert.Equal(t, versionGeneration(version), versionGeneration(next), "withState must not touch generation")
		})
	}
}

func Test_AdvanceGeneration_Advances_Without_Disturbing_State_Bits(t *testing.T) {
	t.Parallel()

	reserved := withState(0, stateReserved)

	next, saturated := advanceGeneration(reserved)
	require.False(t, saturated)
	assert.Equal(t, uint32(1), versionGeneration(next), "generation should advance by one step")
	assert.Equal(t, stateReserved, versionState(next), "advanceGeneration must not change the state tag")
}

func Test_AdvanceGeneration_Saturates_At_GenerationLimit(t *testing.T) {
	t.Parallel()

	atLimit := withState(generationLimit<<2, stateOccupied)

	next, saturated := advanceGeneration(atLimit)
	assert.True(t, saturated, "generation at its limit must report saturation")
	assert.Equal(t, atLimit, next, "a saturated version word must not change")
}

func Test_Key_EncodesIndexAndVersion(t *testing.T) {
	t.Parallel()

	k := newKey(7, 0xABCD1234)
	assert.Equal(t, uint32(7), k.index())
	assert.Equal(t, uint32(0xABCD1234), k.version())
}
