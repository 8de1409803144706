package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/crawlcore/engine/combat"
	"github.com/nathoo/crawlcore/engine/seed"
	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/logger"
	"github.com/nathoo/crawlcore/types"
)

// Level-up tuning. A player needs LevelUpXP*level experience to advance.
const (
	LevelUpXP      = 20
	LevelUpHP      = 5
	LevelUpAttack  = 1
	LevelUpDefense = 1
)

func (e *Engine) attack(t *turn, ref string) bool {
	d := e.Current()
	if d == nil {
		t.say("There is nothing to fight in town.")
		return false
	}
	m := state.FindMonster(e.State, d.ID, ref)
	if m == nil {
		if ref == "" {
			t.say("There is nothing here to attack.")
		} else {
			t.say("You see no %s here.", ref)
		}
		return false
	}

	p := &e.State.Player
	e.strike(t, p, m)
	if m.HP > 0 && p.HP > 0 {
		e.strike(t, m, p)
	}

	e.reap(t)
	if p.HP <= 0 {
		e.die(t, m)
	}
	return true
}

// strike resolves one attack from att against def and narrates it.
func (e *Engine) strike(t *turn, att, def *types.Entity) {
	out := combat.ResolveAttack(att, def, e.Defs.Items, e.RNG)
	combat.ApplyOutcome(out, att, def)

	t.emit("attack", map[string]any{
		"attacker":  att.ID,
		"defender":  def.ID,
		"hit":       out.Hit,
		"dodged":    out.Dodged,
		"crit":      out.Crit,
		"roll":      out.Roll,
		"damage":    out.Damage,
		"lifesteal": out.LifestealHeal,
		"thorns":    out.ThornsDamage,
	})

	playerAttacks := att.Kind == types.KindPlayer
	switch {
	case !out.Hit && playerAttacks:
		t.say("You miss the %s.", def.Name)
	case !out.Hit:
		t.say("The %s misses you.", att.Name)
	case out.Dodged && playerAttacks:
		t.say("The %s dodges your attack.", def.Name)
	case out.Dodged:
		t.say("You dodge the %s's attack.", att.Name)
	default:
		msg := fmt.Sprintf("The %s hits you for %d damage.", att.Name, out.Damage)
		if playerAttacks {
			msg = fmt.Sprintf("You hit the %s for %d damage.", def.Name, out.Damage)
		}
		if out.Crit {
			msg += " Critical hit!"
		}
		t.say("%s", msg)
		if out.LifestealHeal > 0 && playerAttacks {
			t.say("You drain %d HP.", out.LifestealHeal)
		} else if out.LifestealHeal > 0 {
			t.say("The %s drains %d HP.", att.Name, out.LifestealHeal)
		}
		if out.ThornsDamage > 0 {
			t.say("Thorns deal %d damage to %s.", out.ThornsDamage, object(att))
		}
	}
}

// reap removes dead monsters and pays out their rewards.
func (e *Engine) reap(t *turn) {
	p := &e.State.Player
	for _, m := range state.RemoveDead(e.State) {
		p.XP += m.XP
		p.Gold += m.Gold
		t.say("The %s dies. You gain %d XP and %d gold.", m.Name, m.XP, m.Gold)
		t.emit("monster_killed", map[string]any{"id": m.ID, "kind": string(m.Monster), "xp": m.XP, "gold": m.Gold})
	}
	e.levelUp(t)
}

// levelUp advances the player while enough experience is banked.
func (e *Engine) levelUp(t *turn) {
	p := &e.State.Player
	for p.XP >= LevelUpXP*p.Level {
		p.XP -= LevelUpXP * p.Level
		p.Level++
		p.MaxHP += LevelUpHP
		p.HP = p.MaxHP
		p.BaseAttack += LevelUpAttack
		p.BaseDefense += LevelUpDefense
		t.say("You reach level %d!", p.Level)
		t.emit("level_up", map[string]any{"level": p.Level})
	}
}

func (e *Engine) die(t *turn, killer *types.Entity) {
	e.State.Flags[FlagGameOver] = true
	t.say("You have been slain by the %s. Game over.", killer.Name)
	t.emit("player_died", map[string]any{"killer": killer.ID, "depth": e.State.Depth})
	logger.Component("engine").WithFields(logrus.Fields{
		"killer": killer.ID,
		"depth":  e.State.Depth,
		"turn":   e.State.TurnCounter,
	}).Info("player died")
}

// ambush springs an out-of-depth party on the current level. The party
// is seeded from the level and the current turn.
func (e *Engine) ambush(t *turn) bool {
	d := e.Current()
	if d == nil {
		t.say("The town guard keeps the streets safe.")
		return false
	}
	s := e.State
	ambushSeed := seed.Encounter(s.WorldSeed, s.Depth, s.TurnCounter)
	before := len(s.Entities)
	e.Spawner.SpawnAmbushMonsters(s, d, ambushSeed, s.Player.Level)

	party := s.Entities[before:]
	ids := make([]string, len(party))
	for i, m := range party {
		ids[i] = m.ID
	}
	t.say("Ambush! %d monsters close in.", len(party))
	t.emit("ambush", map[string]any{"seed": ambushSeed, "monsters": ids})
	logger.Component("engine").WithFields(logrus.Fields{
		"depth": s.Depth,
		"seed":  ambushSeed,
		"count": len(party),
	}).Info("ambush")
	e.describe(t)
	return true
}

func object(e *types.Entity) string {
	if e.Kind == types.KindPlayer {
		return "you"
	}
	return "the " + e.Name
}
