package slotmap

import "errors"

// Error classification.
//
// Callers should classify errors using errors.Is. A lookup miss
// (Get/GetMut/Remove/ContainsKey returning false) is not an error - it is
// the normal signal that a key is stale or was never valid.
var (
	// ErrOutOfSlots indicates the slot index space (2^32 - 1, one index
	// reserved as the free-list sentinel) is exhausted.
	//
	// Recovery: none - the map cannot grow further. Remove entries first.
	ErrOutOfSlots = errors.New("slotmap: out of slots")

	// ErrForeignHandle indicates a handle was offered to a [Map] other
	// than the one that minted it.
	//
	// This check is always performed; it is not compiled out in
	// release builds, unlike the "debug-only, best-effort" stance the
	// spec allows.
	ErrForeignHandle = errors.New("slotmap: foreign handle")

	// ErrStaleHandle indicates the slot named by a handle is no longer
	// in the reserved state with the matching version word.
	//
	// Unreachable under correct use of the handle protocol: a handle is
	// destroyed the moment it is consumed by Insert or ReleaseHandle, so
	// this can only occur via double-consumption, which ErrDoubleConsume
	// reports instead. Kept as a distinct sentinel for defense in depth.
	ErrStaleHandle = errors.New("slotmap: stale handle")

	// ErrDoubleConsume indicates a handle was passed to Insert or
	// ReleaseHandle a second time.
	//
	// This is a programming error: handles are meant to be consumed
	// exactly once.
	ErrDoubleConsume = errors.New("slotmap: handle already consumed")
)
