package slotmap

// Hardcoded implementation limits.
//
// These exist primarily to:
//   - keep the index space safely below its uint32 sentinel boundary
//   - bound the generation counter to the 30 bits the version word
//     leaves it after the 2-bit state tag
//
// Limit violations during allocation surface as ErrOutOfSlots; a
// per-slot generation limit violation is not an error; see
// Map.RetiredSlots.
// maxSlotIndex is the highest index a slot may occupy. One index value
// above this (slotSentinel) is reserved as the free-list terminator and
// can never name a real slot.
const maxSlotIndex = slotSentinel - 1
