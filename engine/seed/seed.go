// Package seed derives independent sub-seeds from one world seed so that
// dungeon layout, monster spawns, ambushes, shops and combat never share a
// random stream. Sub-seeds are always re-derived, never persisted.
package seed

import "github.com/nathoo/crawlcore/types"

// Domain salts XORed into a base seed per subsystem.
const (
	MonsterSalt int32 = 0xBEEF
	AmbushSalt  int32 = 0xA51D
	ShopSalt    int32 = 0x5F10
	CombatSalt  int32 = 0xC0DE

	// Golden is the 32-bit golden-ratio constant used to spread cycle
	// and depth counters across the word.
	Golden uint32 = 0x9E3779B9
)

// Salts for positional streams handed to the floor-point collaborator.
const (
	floorBase     = 1000
	floorStride   = 17
	ambushBase    = 2000
	ambushStride  = 37
	attemptStride = 11
)

// Hash2D mixes a seed with two coordinates into one 32-bit value.
func Hash2D(worldSeed int32, x, y int) uint32 {
	h := uint32(worldSeed)
	h ^= uint32(int32(x)) * 374761393
	h = h<<13 | h>>19
	h ^= uint32(int32(y)) * 668265263
	h = (h ^ h>>13) * 1274126177
	return h ^ h>>16
}

// Monster returns the monster-type stream seed for a level seed.
func Monster(s int32) int32 {
	return s ^ MonsterSalt
}

// Ambush returns the ambush-type stream seed.
func Ambush(s int32) int32 {
	return s ^ AmbushSalt
}

// Combat returns the seed of the long-lived combat stream for a world.
func Combat(worldSeed int32) int32 {
	return worldSeed ^ CombatSalt
}

// Cycle returns floor(turnCounter / interval).
func Cycle(turnCounter, interval int) int {
	if interval <= 0 {
		return 0
	}
	c := turnCounter / interval
	if turnCounter%interval != 0 && turnCounter < 0 {
		c--
	}
	return c
}

// Shop returns the economy seed for a shop during one restock cycle.
func Shop(worldSeed int32, town types.Point, cycle int) int32 {
	h := Hash2D(worldSeed, town.X, town.Y)
	h ^= uint32(int32(cycle)) * Golden
	return int32(h) ^ ShopSalt
}

// Level returns the seed for a dungeon level at the given depth.
func Level(base int32, depth int) int32 {
	return int32(uint32(base) ^ uint32(int32(depth))*Golden)
}

// Encounter returns the ambush seed for a level at a given turn.
func Encounter(worldSeed int32, depth, turnCounter int) int32 {
	return Level(worldSeed, depth) ^ int32(turnCounter)
}

// FloorPoint returns the positional seed for the i-th spawned monster.
func FloorPoint(s int32, i int) int32 {
	return s + floorBase + int32(i)*floorStride
}

// AmbushPoint returns the positional seed for one ambush placement attempt.
func AmbushPoint(s int32, i, attempt int) int32 {
	return s + ambushBase + int32(i)*ambushStride + int32(attempt)*attemptStride
}
