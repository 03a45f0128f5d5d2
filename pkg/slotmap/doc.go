// Package slotmap provides a generational, slot-indexed container.
//
// A caller first obtains a single-use [Handle] naming a reserved slot,
// learns the stable [Key] the slot will have once occupied, and either
// deposits a value into the slot ([Map.Insert]) or gives up the
// reservation ([Map.ReleaseHandle]). Keys stay valid until the slot they
// name is removed; slots are recycled by incrementing a per-slot
// generation counter so stale keys are rejected rather than silently
// aliasing a reused slot.
//
// slotmap is not a database - it lives entirely on the Go heap, has no
// wire format, and assumes exclusive ownership by one logical actor at a
// time. See [SecondaryMap] for a companion container that tolerates slot
// reuse for auxiliary, key-addressed data.
//
// # Basic usage
//
//	m := slotmap.New[string]()
//
//	h, err := m.AllocateHandle()
//	if err != nil {
//	    // handle [ErrOutOfSlots]
//	}
//
//	k := h.Key()
//
//	if _, err := m.Insert(h, "hello"); err != nil {
//	    // handle [ErrStaleHandle]/[ErrForeignHandle]/[ErrDoubleConsume]
//	}
//
//	v, ok := m.Get(k)
//
// # Concurrency
//
// A [Map] is not safe for concurrent mutation. Immutable access
// (read-only methods called from multiple goroutines with no concurrent
// writer) is safe provided the value type itself permits shared reads.
package slotmap
