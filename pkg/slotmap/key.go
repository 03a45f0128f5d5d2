package slotmap

import "math"

// Key is an opaque 64-bit token pairing a slot index with a version word.
// It is the sole means by which values are addressed from outside the
// map. Keys are plain data: freely copyable, comparable, and own
// nothing.
//
// Low 32 bits: slot index. High 32 bits: the version word the slot had
// at the moment the key was minted. A key is valid iff the slot's
// current version word still equals the one embedded in the key.
type Key uint64

// slotSentinel marks "no slot" / "end of free list". One index value is
// permanently unavailable for use so it can serve as this sentinel.
const slotSentinel uint32 = math.MaxUint32

// Version word state tags, packed into the low two bits of a version
// word. 0b10 is intentionally unused - it has no meaning and must never
// be observed on a live slot.
const (
	stateVacant   uint32 = 0b00
	stateReserved uint32 = 0b01
	stateOccupied uint32 = 0b11
)

const stateMask uint32 = 0b11
const generationStep uint32 = 0b100 // smallest increment that leaves low bits untouched

// generationLimit is the largest representable generation value (30
// bits). A slot whose generation would overflow this limit is retired
// instead of wrapping; see Map.RetiredSlots.
const generationLimit = (uint32(1) << 30) - 1

func newKey(index uint32, version uint32) Key {
	return Key(uint64(version)<<32 | uint64(index))
}

func (k Key) index() uint32 {
	return uint32(k)
}

func (k Key) version() uint32 {
	return uint32(k >> 32)
}

// versionState extracts the 2-bit state tag from a version word.
func versionState(v uint32) uint32 {
	return v & stateMask
}

// versionGeneration extracts the 30-bit generation counter from a
// version word.
func versionGeneration(v uint32) uint32 {
	return v >> 2
}

// withState rewrites the low bits of a version word, leaving the
// generation untouched.
func withState(v uint32, state uint32) uint32 {
	return (v &^ stateMask) | state
}

// advanceGeneration bumps the generation by one step, saturating at
// generationLimit rather than wrapping (see SPEC_FULL.md §1 on the
// chosen overflow behavior). It reports whether the slot has now
// saturated.
func advanceGeneration(v uint32) (next uint32, saturated bool) {
	gen := versionGeneration(v)
	if gen >= generationLimit {
		return v, true
	}

	return v + generationStep, false
}
