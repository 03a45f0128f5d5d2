package slotmap

// secondaryEntry holds one slot index's worth of auxiliary data, plus
// the version word it was inserted under and a presence flag (there is
// no reserved state here, so "empty vs present" needs its own bit
// unlike the main Map's three-state slot).
type secondaryEntry[U any] struct {
	present bool
	version uint32
	value   U
}

// SecondaryMap is a companion container that associates data of type U
// with the keys of a [Map], tolerating slot reuse: a key whose main-map
// slot has been removed and reallocated fails the version-word check on
// its next SecondaryMap access, exactly as it would against the main
// map. SecondaryMap has no coupling to any particular Map instance - it
// only shares the same key space.
//
// Entries are never automatically invalidated by operations on a main
// map; staleness is detected lazily, at access time.
type SecondaryMap[U any] struct {
	entries []secondaryEntry[U]
}

// NewSecondaryMap constructs an empty SecondaryMap.
func NewSecondaryMap[U any]() *SecondaryMap[U] {
	return &SecondaryMap[U]{}
}

// Insert associates value with key, replacing any prior entry at key's
// index regardless of that entry's own version word.
func (s *SecondaryMap[U]) Insert(key Key, value U) {
	index := key.index()
	s.ensureSized(index)
	s.entries[index] = secondaryEntry[U]{present: true, version: key.version(), value: value}
}

// Get returns the value associated with key, if an entry exists at key's
// index and was inserted under the same version word.
func (s *SecondaryMap[U]) Get(key Key) (U, bool) {
	entry, ok := s.lookup(key)
	if !ok {
		var zero U
		return zero, false
	}

	return entry.value, true
}

// GetMut returns a pointer to the value associated with key, for
// in-place mutation, under the same matching rule as Get.
func (s *SecondaryMap[U]) GetMut(key Key) (*U, bool) {
	entry, ok := s.lookup(key)
	if !ok {
		return nil, false
	}

	return &entry.value, true
}

// Remove deletes the entry associated with key, returning its value, if
// it matches under the same rule as Get.
func (s *SecondaryMap[U]) Remove(key Key) (U, bool) {
	entry, ok := s.lookup(key)
	if !ok {
		var zero U
		return zero, false
	}

	value := entry.value
	*entry = secondaryEntry[U]{}

	return value, true
}

// ContainsKey reports whether key currently matches a live entry.
func (s *SecondaryMap[U]) ContainsKey(key Key) bool {
	_, ok := s.lookup(key)
	return ok
}

// Len reports the number of present entries, stale or not. Stale
// entries (whose version word no longer matches any valid key) still
// consume memory until overwritten or swept by Retain.
func (s *SecondaryMap[U]) Len() int {
	n := 0

	for i := range s.entries {
		if s.entries[i].present {
			n++
		}
	}

	return n
}

// Retain removes every present entry for which keep returns false. It is
// the optional GC helper spec §4.5 allows for sweeping stale entries
// left behind by main-map reuse. keep is called with the key under
// which the entry was inserted, not re-derived from any live map.
func (s *SecondaryMap[U]) Retain(keep func(key Key, value U) bool) {
	for i := range s.entries {
		entry := &s.entries[i]
		if !entry.present {
			continue
		}

		key := newKey(uint32(i), entry.version)
		if !keep(key, entry.value) {
			*entry = secondaryEntry[U]{}
		}
	}
}

func (s *SecondaryMap[U]) lookup(key Key) (*secondaryEntry[U], bool) {
	index := key.index()
	if index >= uint32(len(s.entries)) {
		return nil, false
	}

	entry := &s.entries[index]
	if !entry.present || entry.version != key.version() {
		return nil, false
	}

	return entry, true
}

func (s *SecondaryMap[U]) ensureSized(index uint32) {
	if index < uint32(len(s.entries)) {
		return
	}

	grown := make([]secondaryEntry[U], index+1)
	copy(grown, s.entries)
	s.entries = grown
}
