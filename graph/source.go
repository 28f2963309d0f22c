// Package graph implements the recursively composable audio-source graph:
// oscillators, sample playback, envelope/rate controllers, combiners and
// the event dispatcher that together render a mix down to per-channel
// floating point samples under simulated time.
package graph

import "errors"

// ErrNotDuplicable is returned by Duplicate on node types that carry
// state which cannot be meaningfully cloned (EventDispatcher, MIDI voices).
var ErrNotDuplicable = errors.New("graph: node is not duplicable")

// Source is the capability set every graph node implements. CurrentSample
// must be pure and idempotent with respect to AdvanceTime: calling it
// repeatedly without an intervening AdvanceTime returns the same value.
// Neither method may allocate; allocation belongs to constructors and
// Duplicate.
type Source interface {
	// CurrentSample returns the node's present value on the given
	// output channel without advancing time.
	CurrentSample(channel int) float32

	// AdvanceTime moves the node (and any children) forward by dt
	// seconds of simulated time.
	AdvanceTime(dt float64)

	// Duplicate returns a deep, independent copy of the node. Nodes
	// that hold non-cloneable state return ErrNotDuplicable.
	Duplicate() (Source, error)
}

// sgn returns the three-valued sign of v: -1, 0 or 1.
func sgn(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
