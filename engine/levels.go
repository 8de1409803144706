package engine

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/crawlcore/engine/dungeon"
	"github.com/nathoo/crawlcore/engine/seed"
	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/logger"
	"github.com/nathoo/crawlcore/types"
)

// Level returns the dungeon at depth, building it from the world seed on
// first use. Depth 0 is the town and has no dungeon.
func (e *Engine) Level(depth int) *types.Dungeon {
	if depth <= 0 {
		return nil
	}
	if d, ok := e.levels[depth]; ok {
		return d
	}
	d := dungeon.Generate(state.DungeonBase, depth, seed.Level(e.State.WorldSeed, depth),
		dungeon.DefaultWidth, dungeon.DefaultHeight)
	e.levels[depth] = d
	return d
}

// Current returns the level the player is on, or nil in town.
func (e *Engine) Current() *types.Dungeon {
	return e.Level(e.State.Depth)
}

// enter moves the player onto depth, spawning its population on the first visit.
func (e *Engine) enter(t *turn, depth int, arrive func(*types.Dungeon) types.Point) {
	s := e.State
	s.Depth = depth
	s.Player.MapID = state.MapID(depth)

	d := e.Level(depth)
	if d == nil {
		s.Player.Pos = types.Point{}
		t.emit("level_entered", map[string]any{"depth": 0})
		return
	}
	s.Player.Pos = arrive(d)

	if !s.Visited[depth] {
		s.Visited[depth] = true
		e.Spawner.SpawnMonstersInDungeon(s, d, seed.Level(s.WorldSeed, depth))
	}

	logger.Component("engine").WithFields(logrus.Fields{
		"depth":    depth,
		"dungeon":  d.ID,
		"monsters": len(state.LivingOn(s, d.ID)),
	}).Info("level entered")
	t.emit("level_entered", map[string]any{"depth": depth, "dungeon": d.ID})
}

func (e *Engine) descend(t *turn) bool {
	next := e.State.Depth + 1
	e.enter(t, next, func(d *types.Dungeon) types.Point { return d.StairsUp })
	t.say("You descend to depth %d.", next)
	e.describe(t)
	return true
}

func (e *Engine) ascend(t *turn) bool {
	if e.State.Depth == 0 {
		t.say("You are already in town.")
		return false
	}
	next := e.State.Depth - 1
	e.enter(t, next, func(d *types.Dungeon) types.Point { return d.StairsDown })
	if next == 0 {
		t.say("You climb back into the daylight.")
	} else {
		t.say("You climb up to depth %d.", next)
	}
	e.describe(t)
	return true
}

func (e *Engine) look(t *turn, ref string) bool {
	if ref == "" {
		e.describe(t)
		return true
	}
	d := e.Current()
	if d == nil {
		t.say("You see no %s here.", ref)
		return false
	}
	m := state.FindMonster(e.State, d.ID, ref)
	if m == nil {
		t.say("You see no %s here.", ref)
		return false
	}
	t.say("%s (level %d): %d/%d HP, attack %d, defense %d.",
		m.Name, m.Level, m.HP, m.MaxHP, m.BaseAttack, m.BaseDefense)
	return true
}

// describe prints the player's surroundings.
func (e *Engine) describe(t *turn) {
	d := e.Current()
	if d == nil {
		t.say("You stand in the town square.")
		var names []string
		for _, id := range state.ShopIDs(e.Defs) {
			sh := e.Defs.Shops[id]
			names = append(names, fmt.Sprintf("%s (%s)", shopName(sh), sh.ID))
		}
		if len(names) > 0 {
			t.say("Shops: %s.", strings.Join(names, ", "))
		}
		t.say("Stairs lead down into the crypt.")
		return
	}

	living := state.LivingOn(e.State, d.ID)
	player := e.State.Player
	t.lines(dungeon.Render(d, append(living, &player))...)
	t.say("Depth %d.", d.Depth)
	if len(living) == 0 {
		t.say("Nothing stirs.")
		return
	}
	var seen []string
	for _, m := range living {
		seen = append(seen, fmt.Sprintf("%s [%s] lvl %d %d/%d", m.Name, m.ID, m.Level, m.HP, m.MaxHP))
	}
	t.say("You see: %s.", strings.Join(seen, ", "))
}
