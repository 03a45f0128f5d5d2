package slotmap

import "sync/atomic"

// mapIDCounter mints a distinct identity per Map instance so a Handle
// can be checked for cross-map use. A monotonic counter is adequate per
// spec §9; it need not survive process restarts.
var mapIDCounter atomic.Uint64

// Map is a generational, slot-indexed container parameterized by a
// single element type T fixed at construction. See the package doc
// comment for the allocate/insert-or-release lifecycle.
//
// A Map is not safe for concurrent mutation; see the package doc
// comment.
type Map[T any] struct {
	id    uint64
	slots *slots[T]
	len   int
}

// New constructs an empty Map with no pre-reserved capacity.
func New[T any]() *Map[T] {
	return WithCapacity[T](0)
}

// WithCapacity constructs an empty Map with storage pre-reserved for n
// slots. Capacity is a hint: the map still grows past n if needed.
func WithCapacity[T any](n int) *Map[T] {
	return &Map[T]{
		id:    mapIDCounter.Add(1),
		slots: newSlots[T](n),
	}
}

// Len reports the number of occupied slots.
func (m *Map[T]) Len() int {
	return m.len
}

// IsEmpty reports whether Len is zero.
func (m *Map[T]) IsEmpty() bool {
	return m.len == 0
}

// Capacity reports the number of slots currently allocated, occupied or
// not. It never decreases.
func (m *Map[T]) Capacity() int {
	return m.slots.capacity()
}

// RetiredSlots reports how many slots have permanently left circulation
// because their generation counter saturated (see SPEC_FULL.md §1).
// These slots count toward Capacity but can never again be allocated.
func (m *Map[T]) RetiredSlots() int {
	return m.slots.retired
}

// Reserve pre-grows the backing storage so that at least `additional`
// further allocations succeed without reallocating the slot array.
func (m *Map[T]) Reserve(additional int) {
	m.slots.reserve(additional)
}

// AllocateHandle reserves a slot - popping one from the free list or
// growing storage - and returns a [Handle] naming it. len is unchanged
// until the handle is consumed by Insert.
func (m *Map[T]) AllocateHandle() (Handle, error) {
	index, version, err := m.slots.allocate()
	if err != nil {
		return Handle{}, err
	}

	reserved := withState(version, stateReserved)
	m.slots.at(index).version = reserved

	return Handle{
		mapID:   m.id,
		index:   index,
		version: reserved,
		state:   &handleState{},
	}, nil
}

// Insert consumes h, transitioning its slot from reserved to occupied
// and storing value there. It returns the key that now addresses value,
// which equals h.Key().
func (m *Map[T]) Insert(h Handle, value T) (Key, error) {
	if err := m.checkHandle(h); err != nil {
		return 0, err
	}

	if err := h.consume(); err != nil {
		return 0, err
	}

	occupied := withState(h.version, stateOccupied)
	item := m.slots.at(h.index)
	item.version = occupied
	item.value = value
	m.len++

	return newKey(h.index, occupied), nil
}

// ReleaseHandle consumes h without storing a value, returning its slot
// to the free list. len is unchanged.
func (m *Map[T]) ReleaseHandle(h Handle) error {
	if err := m.checkHandle(h); err != nil {
		return err
	}

	if err := h.consume(); err != nil {
		return err
	}

	item := m.slots.at(h.index)
	next, saturated := advanceGeneration(h.version)
	item.version = withState(next, stateVacant)
	item.value = zeroOf[T]()

	if saturated {
		m.slots.retire(h.index)
		return nil
	}

	m.slots.free(h.index)

	return nil
}

func (m *Map[T]) checkHandle(h Handle) error {
	if h.mapID != m.id {
		return ErrForeignHandle
	}

	if h.state.consumed {
		return ErrDoubleConsume
	}

	if !m.slots.inBounds(h.index) {
		return ErrStaleHandle
	}

	item := m.slots.at(h.index)
	if item.version != h.version || versionState(item.version) != stateReserved {
		return ErrStaleHandle
	}

	return nil
}

// Get returns the value addressed by key, if key is still valid.
func (m *Map[T]) Get(key Key) (T, bool) {
	item, ok := m.lookup(key)
	if !ok {
		return zeroOf[T](), false
	}

	return item.value, true
}

// GetMut returns a pointer to the value addressed by key, if key is
// still valid, for in-place mutation. The pointer is invalidated by any
// call that grows or clears the map.
func (m *Map[T]) GetMut(key Key) (*T, bool) {
	item, ok := m.lookup(key)
	if !ok {
		return nil, false
	}

	return &item.value, true
}

// ContainsKey reports whether key currently addresses an occupied slot.
func (m *Map[T]) ContainsKey(key Key) bool {
	_, ok := m.lookup(key)
	return ok
}

// Remove deletes the value addressed by key, returning it, if key is
// still valid. The slot returns to the free list with its generation
// advanced, so no future key can observe this removal's value.
func (m *Map[T]) Remove(key Key) (T, bool) {
	index, version := key.index(), key.version()
	if !m.slots.inBounds(index) {
		return zeroOf[T](), false
	}

	item := m.slots.at(index)
	if item.version != version || versionState(version) != stateOccupied {
		return zeroOf[T](), false
	}

	value := item.value

	next, saturated := advanceGeneration(item.version)
	item.version = withState(next, stateVacant)
	item.value = zeroOf[T]()
	m.len--

	if saturated {
		m.slots.retire(index)
	} else {
		m.slots.free(index)
	}

	return value, true
}

// Clear destroys every occupied value and returns its slot to the free
// list, generation advanced. Reserved slots are left untouched -
// outstanding handles remain consumable by Insert or ReleaseHandle.
// Capacity is unchanged.
func (m *Map[T]) Clear() {
	for i := range m.slots.items {
		index := uint32(i)
		item := &m.slots.items[i]

		if versionState(item.version) != stateOccupied {
			continue
		}

		next, saturated := advanceGeneration(item.version)
		item.version = withState(next, stateVacant)
		item.value = zeroOf[T]()
		m.len--

		if saturated {
			m.slots.retire(index)
		} else {
			m.slots.free(index)
		}
	}
}

// All returns an iterator over (key, value) pairs for currently occupied
// slots, in ascending slot-index order. Mutating the map while ranging
// over the result is not supported and invalidates the iteration. See
// [Map.AllMut] for a mutable counterpart.
func (m *Map[T]) All() func(yield func(Key, T) bool) {
	return func(yield func(Key, T) bool) {
		for i := range m.slots.items {
			item := &m.slots.items[i]
			if versionState(item.version) != stateOccupied {
				continue
			}

			if !yield(newKey(uint32(i), item.version), item.value) {
				return
			}
		}
	}
}

// AllMut returns an iterator over (key, value-pointer) pairs for
// currently occupied slots, in ascending slot-index order, allowing
// in-place mutation of each value during iteration. It is the mutable
// counterpart to [Map.All]; callers must observe the same exclusion
// discipline GetMut requires - the pointer yielded for a slot is
// invalidated by any call that grows or clears the map, so it must not
// be retained past the iteration step that produced it, and a Map
// ranged over this way must not be mutated by anything other than
// through the yielded pointers until iteration completes.
func (m *Map[T]) AllMut() func(yield func(Key, *T) bool) {
	return func(yield func(Key, *T) bool) {
		for i := range m.slots.items {
			item := &m.slots.items[i]
			if versionState(item.version) != stateOccupied {
				continue
			}

			if !yield(newKey(uint32(i), item.version), &item.value) {
				return
			}
		}
	}
}

func (m *Map[T]) lookup(key Key) (*slot[T], bool) {
	index, version := key.index(), key.version()
	if !m.slots.inBounds(index) {
		return nil, false
	}

	item := m.slots.at(index)
	if item.version != version {
		return nil, false
	}

	// version equality already implies stateOccupied: vacant/reserved
	// words can never equal a previously-minted occupied word again (see
	// key.go's generation-advance discipline), so no separate state
	// check is needed here - matching spec §4.4's normative lookup
	// algorithm.
	return item, true
}

func zeroOf[T any]() T {
	var zero T
	return zero
}
