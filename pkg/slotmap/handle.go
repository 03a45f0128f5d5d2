package slotmap

// Handle is a single-use capability naming a slot reserved by
// [Map.AllocateHandle]. It is consumed by exactly one of [Map.Insert] or
// [Map.ReleaseHandle].
//
// Go has no linear/move-only types, so single-use is enforced at
// runtime: consuming a Handle flips a shared flag, and any further
// attempt to consume it (even through a copy of the Handle value, which
// Go's assignment semantics permit) returns [ErrDoubleConsume]. Treat a
// Handle as if it were move-only regardless - copying it and using both
// copies is a programmer error this type only partially guards against.
type Handle struct {
	mapID   uint64
	index   uint32
	version uint32 // the reserved-state version word at allocation time
	state   *handleState
}

type handleState struct {
	consumed bool
}

// Key returns the key this slot will have once [Map.Insert] succeeds.
// The state bits of the returned key already reflect the post-insert
// occupied word, per spec §4.3's normative rule: the key exposed before
// insert and the key observed after insert must agree.
func (h Handle) Key() Key {
	return newKey(h.index, withState(h.version, stateOccupied))
}

// Index returns the slot index this handle reserves, for diagnostic use.
func (h Handle) Index() uint32 {
	return h.index
}

// Generation returns the generation this handle's reservation was
// minted at, for diagnostic use.
func (h Handle) Generation() uint32 {
	return versionGeneration(h.version)
}

func (h Handle) consume() error {
	if h.state.consumed {
		return ErrDoubleConsume
	}

	h.state.consumed = true

	return nil
}
