// Package spawn populates dungeon levels with leveled monsters. Output is a
// pure function of the seed, the level and the player's level.
package spawn

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/crawlcore/engine/dungeon"
	"github.com/nathoo/crawlcore/engine/narrative"
	"github.com/nathoo/crawlcore/engine/rng"
	"github.com/nathoo/crawlcore/engine/seed"
	"github.com/nathoo/crawlcore/logger"
	"github.com/nathoo/crawlcore/types"
)

// Population constants.
const (
	BaseCount       = 7
	DepthCap        = 14
	DepthMultiplier = 2

	AmbushBase        = 3
	AmbushMin         = 3
	AmbushMax         = 7
	PlacementAttempts = 200
)

// Monster level weights, in tenths: 70% player level, 30% depth.
const (
	playerWeight = 7
	depthWeight  = 3
)

// FloorPointFunc picks a floor tile of d from a fresh stream seeded by seed.
type FloorPointFunc func(d *types.Dungeon, seed int32) types.Point

// Generator spawns monsters using injected map and naming collaborators.
type Generator struct {
	Names      narrative.Namer
	FloorPoint FloorPointFunc
}

// New creates a generator using the dungeon package's floor picker.
func New(names narrative.Namer) *Generator {
	return &Generator{Names: names, FloorPoint: dungeon.RandomFloorPoint}
}

// MonsterCount returns how many monsters a level at depth receives.
func MonsterCount(depth int) int {
	return BaseCount + min(DepthCap, depth*DepthMultiplier)
}

// MonsterLevel returns max(1, floor(playerLevel*0.7 + depth*0.3)).
// The weights are applied in integer tenths so whole results never drift.
func MonsterLevel(playerLevel, depth int) int {
	return max(1, floorDiv(playerLevel*playerWeight+depth*depthWeight, 10))
}

// AmbushCount returns clamp(3 + floor(playerLevel/2), 3, 7).
func AmbushCount(playerLevel int) int {
	return clamp(AmbushBase+floorDiv(playerLevel, 2), AmbushMin, AmbushMax)
}

// AmbushDepth is the depth ambush stats scale from. It ignores the real
// dungeon depth.
func AmbushDepth(playerLevel int) int {
	return max(1, floorDiv(playerLevel+1, 2))
}

// RollKind maps a roll in [0,100) to a monster kind. Wraiths only appear
// from depth 2; a wraith roll above falls through to orc.
func RollKind(roll, depth int) types.MonsterKind {
	switch {
	case roll < 30:
		return types.MonsterSlime
	case roll < 60:
		return types.MonsterGoblin
	case depth >= 2 && roll < 82:
		return types.MonsterWraith
	default:
		return types.MonsterOrc
	}
}

// Build creates a monster of kind scaled to level. Stats use the unfloored
// level; the kind's level floor is applied to the Level field afterwards.
func Build(kind types.MonsterKind, level int, id, name string) *types.Entity {
	p := profiles[kind]
	hp := p.HP.at(level)
	m := &types.Entity{
		ID:          id,
		Kind:        types.KindMonster,
		Monster:     kind,
		Name:        name,
		Glyph:       p.Glyph,
		HP:          hp,
		MaxHP:       hp,
		BaseAttack:  p.Attack.at(level),
		BaseDefense: p.Defense.at(level),
		Level:       max(level, p.LevelFloor),
		XP:          p.XP.at(level),
		Gold:        p.Gold.at(level),
		Inventory:   []string{},
	}
	if p.TracksEffects {
		m.StatusEffects = []types.StatusEffect{}
	}
	if p.HasSpecial {
		cooldown := 0
		m.SpecialCooldown = &cooldown
	}
	return m
}

// Monsters generates the population of a freshly built level.
func (g *Generator) Monsters(playerLevel int, d *types.Dungeon, levelSeed int32) []*types.Entity {
	count := MonsterCount(d.Depth)
	level := MonsterLevel(playerLevel, d.Depth)
	r := rng.New(seed.Monster(levelSeed))

	log := logger.Component("spawn").WithFields(logrus.Fields{
		"dungeon": d.ID,
		"depth":   d.Depth,
		"seed":    levelSeed,
	})

	out := make([]*types.Entity, 0, count)
	for i := 0; i < count; i++ {
		pos := g.FloorPoint(d, seed.FloorPoint(levelSeed, i))
		kind := RollKind(r.NextInt(0, 100), d.Depth)
		m := g.place(kind, level, fmt.Sprintf("%s:m%d", d.ID, i), d, pos)
		log.WithFields(logrus.Fields{"id": m.ID, "kind": kind, "level": m.Level}).Debug("monster spawned")
		out = append(out, m)
	}
	log.WithFields(logrus.Fields{"count": count, "level": level}).Info("level populated")
	return out
}

// SpawnMonstersInDungeon appends a level's population to the state.
func (g *Generator) SpawnMonstersInDungeon(s *types.State, d *types.Dungeon, levelSeed int32) {
	s.Entities = append(s.Entities, g.Monsters(s.Player.Level, d, levelSeed)...)
}

// Ambush generates an out-of-depth party scaled purely from playerLevel.
// No two members share a tile and none stands on the up-stairs, unless the
// bounded search is exhausted and the stairs-adjacent fallback is used.
func (g *Generator) Ambush(playerLevel int, d *types.Dungeon, ambushSeed int32) []*types.Entity {
	count := AmbushCount(playerLevel)
	depth := AmbushDepth(playerLevel)
	level := MonsterLevel(playerLevel, depth)
	r := rng.New(seed.Ambush(ambushSeed))

	log := logger.Component("spawn").WithFields(logrus.Fields{
		"dungeon": d.ID,
		"ambush":  true,
		"seed":    ambushSeed,
	})

	used := map[types.Point]bool{}
	out := make([]*types.Entity, 0, count)
	for i := 0; i < count; i++ {
		pos, ok := g.ambushPoint(d, ambushSeed, i, used)
		if !ok {
			pos = FallbackPoint(d, i)
			log.WithFields(logrus.Fields{"index": i, "pos": pos}).Warn("ambush placement exhausted, using stairs fallback")
		}
		used[pos] = true

		kind := RollKind(r.NextInt(0, 100), depth)
		id := fmt.Sprintf("%s:a%d:%d", d.ID, uint32(ambushSeed), i)
		out = append(out, g.place(kind, level, id, d, pos))
	}
	log.WithFields(logrus.Fields{"count": count, "level": level}).Info("ambush spawned")
	return out
}

// SpawnAmbushMonsters appends an ambush party to the state.
func (g *Generator) SpawnAmbushMonsters(s *types.State, d *types.Dungeon, ambushSeed int32, playerLevel int) {
	s.Entities = append(s.Entities, g.Ambush(playerLevel, d, ambushSeed)...)
}

// FallbackPoint is the deterministic placement used when the search fails:
// one step left or right of the up-stairs by index parity, or one step
// up or down when that tile is a wall.
func FallbackPoint(d *types.Dungeon, i int) types.Point {
	step := 1
	if i%2 != 0 {
		step = -1
	}
	up := d.StairsUp
	x := clamp(up.X+step, 0, d.Width-1)
	if !dungeon.IsWall(d, x, up.Y) {
		return types.Point{X: x, Y: up.Y}
	}
	return types.Point{X: up.X, Y: clamp(up.Y+step, 0, d.Height-1)}
}

func (g *Generator) ambushPoint(d *types.Dungeon, ambushSeed int32, i int, used map[types.Point]bool) (types.Point, bool) {
	for attempt := 0; attempt < PlacementAttempts; attempt++ {
		p := g.FloorPoint(d, seed.AmbushPoint(ambushSeed, i, attempt))
		if p == d.StairsUp || used[p] {
			continue
		}
		return p, true
	}
	return types.Point{}, false
}

func (g *Generator) place(kind types.MonsterKind, level int, id string, d *types.Dungeon, pos types.Point) *types.Entity {
	name := string(kind)
	if g.Names != nil {
		name = g.Names.MonsterName(kind)
	}
	m := Build(kind, level, id, name)
	m.Pos = pos
	m.MapID = d.ID
	return m
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
