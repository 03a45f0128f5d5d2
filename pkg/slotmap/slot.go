package slotmap

// slot is the tagged union described by spec §4. Go has no raw unions,
// so the storage cell is modeled as a sum type via separate fields whose
// active member is determined entirely by version's state bits: in
// stateVacant, next is live; in stateReserved, neither is live; in
// stateOccupied, value is live. Code outside this file must never read
// value or next without first checking versionState(slot.version).
type slot[T any] struct {
	version uint32
	value   T
	next    uint32 // valid only while version's state is stateVacant
}

// slots is the growable, never-shrinking vector of slots backing a Map.
// Indices are stable for the slot's lifetime; only the version word at
// a given index changes as the slot cycles through its states.
type slots[T any] struct {
	items    []slot[T]
	freeHead uint32 // slotSentinel when the free list is empty
	retired  int    // slots whose generation saturated; never reused
}

func newSlots[T any](capacityHint int) *slots[T] {
	s := &slots[T]{freeHead: slotSentinel}
	if capacityHint > 0 {
		s.items = make([]slot[T], 0, capacityHint)
	}

	return s
}

func (s *slots[T]) capacity() int {
	return len(s.items)
}

func (s *slots[T]) reserve(additional int) {
	if additional <= 0 {
		return
	}

	grown := make([]slot[T], len(s.items), len(s.items)+additional)
	copy(grown, s.items)
	s.items = grown
}

// allocate pops a slot from the free list, growing the backing array if
// the list is empty. It returns the reused/newly-grown index and its
// current (vacant) version word, or ErrOutOfSlots if the index space is
// exhausted.
func (s *slots[T]) allocate() (index uint32, version uint32, err error) {
	if s.freeHead == slotSentinel {
		if uint32(len(s.items)) > maxSlotIndex {
			return 0, 0, ErrOutOfSlots
		}

		index = uint32(len(s.items))
		s.items = append(s.items, slot[T]{version: 0})

		return index, 0, nil
	}

	index = s.freeHead
	head := &s.items[index]
	s.freeHead = head.next

	return index, head.version, nil
}

// free pushes index back onto the free list. The caller must have
// already rewritten the slot's version word to reflect the vacant state
// and the post-transition generation.
func (s *slots[T]) free(index uint32) {
	item := &s.items[index]
	item.next = s.freeHead
	s.freeHead = index
}

// retire removes a slot from circulation permanently: it is left in the
// vacant state but never pushed onto the free list again, so it can
// never be reallocated. Used when a slot's generation saturates.
func (s *slots[T]) retire(index uint32) {
	s.retired++
}

func (s *slots[T]) at(index uint32) *slot[T] {
	return &s.items[index]
}

func (s *slots[T]) inBounds(index uint32) bool {
	return index < uint32(len(s.items))
}
