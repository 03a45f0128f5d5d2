// Package slotmapmodel provides a deliberately simple, in-memory
// reference model of slotmap's publicly observable behavior.
//
// The model favors clarity over performance: it has no bit-packed
// version words, just a plain slice of slots with an explicit state
// field, a plain stack of free indices, and keys that are a synthetic
// (index, generation) pair. It exists so property tests can
// diff the real implementation against an obviously-correct oracle with
// github.com/google/go-cmp, the same technique the teacher codebase
// uses to validate its own slot-based storage engine.
package slotmapmodel

// Key mirrors slotmap.Key's two logical fields without any bit packing.
type Key struct {
	Index      uint32
	Generation uint32
}

type slotState int

const (
	stateVacant slotState = iota
	stateReserved
	stateOccupied
)

type modelSlot[T any] struct {
	state      slotState
	generation uint32
	value      T
}

// Model is the reference container under test.
type Model[T any] struct {
	slots    []modelSlot[T]
	freeList []uint32
	len      int
}

// New returns an empty reference model.
func New[T any]() *Model[T] {
	return &Model[T]{}
}

// Len returns the number of occupied slots.
func (m *Model[T]) Len() int {
	return m.len
}

// AllocateHandle reserves a slot and returns the key it will have once
// occupied, mirroring slotmap.Handle.Key()'s contract.
func (m *Model[T]) AllocateHandle() Key {
	var index uint32

	if n := len(m.freeList); n > 0 {
		index = m.freeList[n-1]
		m.freeList = m.freeList[:n-1]
		m.slots[index].state = stateReserved
	} else {
		index = uint32(len(m.slots))
		m.slots = append(m.slots, modelSlot[T]{state: stateReserved})
	}

	return Key{Index: index, Generation: m.slots[index].generation}
}

// Insert stores value into the slot reserved by key (as returned from
// AllocateHandle) and returns that same key.
func (m *Model[T]) Insert(key Key, value T) Key {
	s := &m.slots[key.Index]
	s.state = stateOccupied
	s.value = value
	m.len++

	return key
}

// ReleaseHandle gives up a reservation without storing a value.
func (m *Model[T]) ReleaseHandle(key Key) {
	s := &m.slots[key.Index]
	s.state = stateVacant
	s.generation++

	var zero T

	s.value = zero
	m.freeList = append(m.freeList, key.Index)
}

// Get returns the value at key if it is still valid.
func (m *Model[T]) Get(key Key) (T, bool) {
	if int(key.Index) >= len(m.slots) {
		var zero T
		return zero, false
	}

	s := m.slots[key.Index]
	if s.state != stateOccupied || s.generation != key.Generation {
		var zero T
		return zero, false
	}

	return s.value, true
}

// ContainsKey reports whether key currently addresses an occupied slot.
func (m *Model[T]) ContainsKey(key Key) bool {
	_, ok := m.Get(key)
	return ok
}

// Remove deletes the value at key, if it is still valid.
func (m *Model[T]) Remove(key Key) (T, bool) {
	value, ok := m.Get(key)
	if !ok {
		return value, false
	}

	s := &m.slots[key.Index]
	s.state = stateVacant
	s.generation++

	var zero T

	s.value = zero
	m.len--
	m.freeList = append(m.freeList, key.Index)

	return value, true
}

// Clear empties every occupied slot, leaving reserved slots untouched.
func (m *Model[T]) Clear() {
	for i := range m.slots {
		s := &m.slots[i]
		if s.state != stateOccupied {
			continue
		}

		s.state = stateVacant
		s.generation++

		var zero T

		s.value = zero
		m.len--
		m.freeList = append(m.freeList, uint32(i))
	}
}

// All returns the occupied (key, value) pairs in ascending index order.
func (m *Model[T]) All() []KeyValue[T] {
	var out []KeyValue[T]

	for i, s := range m.slots {
		if s.state != stateOccupied {
			continue
		}

		out = append(out, KeyValue[T]{
			Key:   Key{Index: uint32(i), Generation: s.generation},
			Value: s.value,
		})
	}

	return out
}

// KeyValue pairs a Key with its value, for All's result.
type KeyValue[T any] struct {
	Key   Key
	Value T
}
