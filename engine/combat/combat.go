// Package combat holds the pure attack formulas. Every function is a
// function of its arguments and the draws it takes from the Roller.
package combat

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/crawlcore/engine/rng"
	"github.com/nathoo/crawlcore/logger"
	"github.com/nathoo/crawlcore/types"
)

// Hit chance, percent.
const (
	PlayerHitBase     = 70
	PlayerAgilityMult = 3
	PlayerLevelDiv    = 2
	PlayerHitMin      = 25
	PlayerHitMax      = 95

	MonsterHitBase   = 60
	MonsterLevelMult = 3
	MonsterHitMin    = 25
	MonsterHitMax    = 90
)

// Dodge and crit, percent.
const (
	DodgeCap       = 50
	RogueDodgeBase = 5

	RogueCritBase        = 10
	RogueCritAgilityMult = 4
	RogueCritCap         = 60
	TotalCritCap         = 75
	CritMultiplier       = 2
)

// Damage.
const (
	RollMaxExclusive = 6

	DefenseMultiplier       = 0.9
	MageDefenseMultiplier   = 0.5
	WraithDefenseMultiplier = 0.3
	MonsterDamageMultiplier = 1.15

	// Wraith attackers heal WraithHealTenths/10 of damage dealt.
	WraithHealTenths = 6

	LifestealCap = 50
	ThornsCap    = 20
)

// Stats is the combat view of an entity with equipment bonuses folded in.
type Stats struct {
	Kind      types.EntityKind
	Monster   types.MonsterKind
	Class     types.Class
	Level     int
	Agility   int
	Attack    int
	Defense   int
	Crit      int
	Dodge     int
	Lifesteal int
	Thorns    int
}

// StatsOf sums base stats with equipped item bonuses. Unknown item IDs
// contribute nothing.
func StatsOf(e *types.Entity, items map[string]types.Item) Stats {
	s := Stats{
		Kind:    e.Kind,
		Monster: e.Monster,
		Class:   e.Class,
		Level:   e.Level,
		Agility: e.Agility,
		Attack:  e.BaseAttack,
		Defense: e.BaseDefense,
	}
	for _, id := range []string{e.Equipment.Weapon, e.Equipment.Armor} {
		if id == "" {
			continue
		}
		it, ok := items[id]
		if !ok {
			continue
		}
		s.Attack += it.Attack
		s.Defense += it.Defense
		s.Crit += it.Crit
		s.Dodge += it.Dodge
		s.Lifesteal += it.Lifesteal
		s.Thorns += it.Thorns
	}
	return s
}

// HitChance returns the attacker's chance to hit, percent.
func HitChance(att, def Stats) int {
	if att.Kind == types.KindPlayer {
		return clamp(PlayerHitBase+att.Agility*PlayerAgilityMult-def.Level/PlayerLevelDiv, PlayerHitMin, PlayerHitMax)
	}
	return clamp(MonsterHitBase+att.Level*MonsterLevelMult, MonsterHitMin, MonsterHitMax)
}

// DodgeChance returns the defender's chance to dodge, percent.
func DodgeChance(def Stats) int {
	dodge := def.Dodge
	if def.Class == types.ClassRogue {
		dodge += RogueDodgeBase + def.Agility
	}
	return clamp(dodge, 0, DodgeCap)
}

// CritChance returns the attacker's crit chance, percent. Only rogues
// get the agility-based component.
func CritChance(att Stats) int {
	crit := 0
	if att.Class == types.ClassRogue {
		crit = min(RogueCritCap, RogueCritBase+att.Agility*RogueCritAgilityMult)
	}
	return clamp(crit+att.Crit, 0, TotalCritCap)
}

// DefenseMultiplierFor returns how much of the defender's defense counts.
func DefenseMultiplierFor(def Stats) float64 {
	switch {
	case def.Monster == types.MonsterWraith:
		return WraithDefenseMultiplier
	case def.Class == types.ClassMage:
		return MageDefenseMultiplier
	default:
		return DefenseMultiplier
	}
}

// DamageCalc computes floor((attack + roll - defense*defMult) * scale)
// with scale covering the monster and crit multipliers, floored once and
// never below 1.
func DamageCalc(attack, defense int, defMult float64, roll int, monsterAttacker, crit bool) int {
	dmg := float64(attack+roll) - float64(defense)*defMult
	if monsterAttacker {
		dmg *= MonsterDamageMultiplier
	}
	if crit {
		dmg *= CritMultiplier
	}
	return max(1, int(math.Floor(dmg)))
}

// ResolveAttack resolves one attack. Draw order is fixed: hit, dodge,
// crit, damage roll. A miss or dodge stops drawing.
func ResolveAttack(att, def *types.Entity, items map[string]types.Item, r rng.Roller) types.AttackOutcome {
	a := StatsOf(att, items)
	d := StatsOf(def, items)
	var out types.AttackOutcome

	log := logger.Component("combat").WithFields(logrus.Fields{
		"attacker": att.ID,
		"defender": def.ID,
	})

	if r.NextInt(0, 100) >= HitChance(a, d) {
		log.Debug("attack missed")
		return out
	}
	out.Hit = true

	if r.NextInt(0, 100) < DodgeChance(d) {
		out.Dodged = true
		log.Debug("attack dodged")
		return out
	}

	out.Crit = r.NextInt(0, 100) < CritChance(a)
	out.Roll = r.NextInt(0, RollMaxExclusive)
	out.Damage = DamageCalc(a.Attack, d.Defense, DefenseMultiplierFor(d), out.Roll, a.Kind == types.KindMonster, out.Crit)

	out.LifestealHeal = out.Damage * min(LifestealCap, a.Lifesteal) / 100
	if a.Monster == types.MonsterWraith {
		out.LifestealHeal += out.Damage * WraithHealTenths / 10
	}
	out.ThornsDamage = out.Damage * min(ThornsCap, d.Thorns) / 100

	log.WithFields(logrus.Fields{
		"roll":      out.Roll,
		"crit":      out.Crit,
		"damage":    out.Damage,
		"lifesteal": out.LifestealHeal,
		"thorns":    out.ThornsDamage,
	}).Debug("attack resolved")
	return out
}

// ApplyOutcome mutates both combatants and reports whether the defender
// died. HP stays within [0, MaxHP].
func ApplyOutcome(out types.AttackOutcome, att, def *types.Entity) bool {
	if !out.Hit || out.Dodged {
		return false
	}
	def.HP = clamp(def.HP-out.Damage, 0, def.MaxHP)
	att.HP = clamp(att.HP+out.LifestealHeal, 0, att.MaxHP)
	att.HP = clamp(att.HP-out.ThornsDamage, 0, att.MaxHP)
	return def.HP <= 0
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
