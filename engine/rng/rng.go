// Package rng implements the seeded xorshift32 generator every procedural
// subsystem draws from. Each subsystem call constructs its own RNG from a
// derived seed; instances are never shared across subsystems.
package rng

// zeroSeed replaces a zero seed, which is a fixed point of xorshift.
const zeroSeed uint32 = 0x6D2B79F5

// State is the raw 32-bit generator state. It is never zero.
type State uint32

// Seed maps a signed seed to a valid generator state.
func Seed(seed int32) State {
	if seed == 0 {
		return State(zeroSeed)
	}
	return State(uint32(seed))
}

// Next applies one xorshift32 step and returns the new state and its output.
func Next(s State) (State, uint32) {
	x := uint32(s)
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return State(x), x
}

// Roller is the draw the formula packages consume. *RNG implements it;
// tests substitute scripted rolls.
type Roller interface {
	NextInt(minInclusive, maxExclusive int) int
}

// RNG is a stateful handle around State with call-position tracking.
// Position increments with every draw, enabling save/restore.
type RNG struct {
	seed  int32
	state State
	pos   int64
}

// New creates a new deterministic RNG from a seed.
func New(seed int32) *RNG {
	return &RNG{seed: seed, state: Seed(seed)}
}

// NextU32 advances the generator and returns the new state.
func (r *RNG) NextU32() uint32 {
	var out uint32
	r.state, out = Next(r.state)
	r.pos++
	return out
}

// NextFloat returns a value in [0, 1].
func (r *RNG) NextFloat() float64 {
	return float64(r.NextU32()) / float64(0xffffffff)
}

// NextInt returns an integer in [minInclusive, maxExclusive). A degenerate
// range returns minInclusive without consuming a draw. Modulo bias is accepted.
func (r *RNG) NextInt(minInclusive, maxExclusive int) int {
	span := maxExclusive - minInclusive
	if span <= 0 {
		return minInclusive
	}
	return minInclusive + int(r.NextU32()%uint32(span))
}

// PickOne returns a uniformly chosen element. items must be non-empty;
// an empty slice panics with an index out of range.
func PickOne[T any](r *RNG, items []T) T {
	return items[r.NextInt(0, len(items))]
}

// Seed returns the seed this RNG was constructed from.
func (r *RNG) Seed() int32 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Restore creates an RNG and advances it to the given position.
// This reproduces the exact generator state for save/load.
func Restore(seed int32, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.NextU32()
	}
	return r
}
