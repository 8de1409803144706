// Package engine provides the Step() orchestrator that wires parsing,
// level generation, spawning, combat and trade into a single turn.
package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/crawlcore/engine/narrative"
	"github.com/nathoo/crawlcore/engine/parser"
	"github.com/nathoo/crawlcore/engine/rng"
	"github.com/nathoo/crawlcore/engine/seed"
	"github.com/nathoo/crawlcore/engine/spawn"
	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/logger"
	"github.com/nathoo/crawlcore/types"
)

// FlagGameOver is set when the player dies.
const FlagGameOver = "game_over"

// Engine holds the game definitions and mutable state.
type Engine struct {
	Defs    *state.Defs
	State   *types.State
	Names   narrative.Namer
	Spawner *spawn.Generator

	// RNG is the combat stream. Its position is mirrored into
	// State.RNGPosition after every step.
	RNG *rng.RNG

	levels map[int]*types.Dungeon
}

// Option configures an Engine.
type Option func(*Engine)

// WithNames sets the monster name resolver.
func WithNames(n narrative.Namer) Option {
	return func(e *Engine) { e.Names = n }
}

// New creates a new engine from definitions.
func New(defs *state.Defs, opts ...Option) *Engine {
	e := &Engine{
		Defs:  defs,
		State: state.NewState(defs),
		Names: narrative.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Spawner = spawn.New(e.Names)
	e.Resume()
	return e
}

// Resume re-derives everything not stored in the state: the combat RNG is
// restored to the saved position and cached levels are dropped. Call it
// after replacing or loading State.
func (e *Engine) Resume() {
	e.RNG = rng.Restore(seed.Combat(e.State.WorldSeed), e.State.RNGPosition)
	e.levels = map[int]*types.Dungeon{}
}

// GameOver reports whether the player has died.
func (e *Engine) GameOver() bool {
	return e.State.Flags[FlagGameOver]
}

// Describe returns the player's surroundings without taking a turn.
func (e *Engine) Describe() types.Result {
	var t turn
	e.describe(&t)
	return t.result
}

// turn accumulates the output of one step.
type turn struct {
	result types.Result
}

func (t *turn) say(format string, args ...any) {
	t.result.Output = append(t.result.Output, fmt.Sprintf(format, args...))
}

func (t *turn) lines(lines ...string) {
	t.result.Output = append(t.result.Output, lines...)
}

func (t *turn) emit(typ string, data map[string]any) {
	t.result.Events = append(t.result.Events, types.Event{Type: typ, Data: data})
}

// Step processes one player command and returns the result. Every
// command that succeeds advances the turn counter by one.
func (e *Engine) Step(input string) types.Result {
	var t turn

	if e.GameOver() {
		t.say("Game over. Use /load to restore a save or /quit to exit.")
		return t.result
	}

	intent := parser.Parse(input)
	e.State.CommandLog = append(e.State.CommandLog, input)

	if intent.Verb == "" {
		t.say("What do you want to do?")
		return t.result
	}

	var ok bool
	switch intent.Verb {
	case "look":
		ok = e.look(&t, intent.Object)
	case "descend":
		ok = e.descend(&t)
	case "ascend":
		ok = e.ascend(&t)
	case "attack":
		ok = e.attack(&t, intent.Object)
	case "ambush":
		ok = e.ambush(&t)
	case "shop":
		ok = e.browse(&t, intent.Object)
	case "buy":
		ok = e.buy(&t, intent)
	case "sell":
		ok = e.sell(&t, intent)
	case "drink":
		ok = e.drink(&t, intent.Object)
	case "equip":
		ok = e.equip(&t, intent.Object)
	case "inventory":
		ok = e.inventory(&t)
	case "status":
		ok = e.status(&t)
	case "wait":
		t.say("Time passes.")
		ok = true
	default:
		t.say("I don't know how to %q.", intent.Verb)
		if s, found := parser.Suggest(intent.Verb); found {
			t.say("Did you mean %q?", s)
		}
	}

	e.State.RNGPosition = e.RNG.Position()
	if ok {
		e.State.TurnCounter++
	}

	logger.Component("engine").WithFields(logrus.Fields{
		"verb":  intent.Verb,
		"ok":    ok,
		"turn":  e.State.TurnCounter,
		"depth": e.State.Depth,
	}).Debug("step")
	return t.result
}
