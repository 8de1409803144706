package spawn

import "github.com/nathoo/crawlcore/types"

// scale is a linear stat curve in tenths: floor((Base + level*PerLevel) / 10).
type scale struct {
	Base     int
	PerLevel int
}

func (s scale) at(level int) int {
	return max(0, floorDiv(s.Base+level*s.PerLevel, 10))
}

// profile is the per-kind stat table row.
type profile struct {
	Glyph         string
	HP            scale
	Attack        scale
	Defense       scale
	XP            scale
	Gold          scale
	LevelFloor    int
	TracksEffects bool
	HasSpecial    bool
}

var profiles = map[types.MonsterKind]profile{
	types.MonsterSlime: {
		Glyph:      "s",
		HP:         scale{80, 20},
		Attack:     scale{20, 6},
		Defense:    scale{0, 3},
		XP:         scale{30, 10},
		Gold:       scale{10, 5},
		LevelFloor: 2,
	},
	types.MonsterGoblin: {
		Glyph:      "g",
		HP:         scale{120, 25},
		Attack:     scale{30, 8},
		Defense:    scale{10, 4},
		XP:         scale{50, 15},
		Gold:       scale{30, 10},
		LevelFloor: 3,
	},
	types.MonsterWraith: {
		Glyph:         "W",
		HP:            scale{140, 28},
		Attack:        scale{40, 10},
		Defense:       scale{20, 5},
		XP:            scale{80, 20},
		Gold:          scale{20, 10},
		LevelFloor:    4,
		TracksEffects: true,
		HasSpecial:    true,
	},
	types.MonsterOrc: {
		Glyph:         "O",
		HP:            scale{200, 35},
		Attack:        scale{50, 12},
		Defense:       scale{20, 6},
		XP:            scale{100, 25},
		Gold:          scale{50, 15},
		LevelFloor:    5,
		TracksEffects: true,
	},
}
