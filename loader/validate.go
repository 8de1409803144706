package loader

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/nathoo/crawlcore/engine/narrative"
	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/logger"
	"github.com/nathoo/crawlcore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validKinds = map[types.ItemKind]bool{
	types.ItemPotion: true,
	types.ItemWeapon: true,
	types.ItemArmor:  true,
}

var validRarities = map[types.Rarity]bool{
	"":                    true,
	types.RarityCommon:    true,
	types.RarityUncommon:  true,
	types.RarityRare:      true,
	types.RarityEpic:      true,
	types.RarityLegendary: true,
}

var validClasses = map[types.Class]bool{
	"":                 true,
	types.ClassWarrior: true,
	types.ClassRogue:   true,
	types.ClassMage:    true,
}

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}
	errf := func(format string, args ...any) {
		ve.Errors = append(ve.Errors, fmt.Sprintf(format, args...))
	}
	warnf := func(format string, args ...any) {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(format, args...))
	}

	if defs.Game.Title == "" {
		errf("Game.Title is required")
	}

	p := defs.Game.Player
	if p.HP <= 0 {
		errf("Game.player.hp must be positive")
	}
	if !validClasses[p.Class] {
		errf("Game.player.class %q is not one of warrior, rogue, mage", p.Class)
	}
	if p.Gold < 0 {
		errf("Game.player.gold must not be negative")
	}
	for _, id := range p.Inventory {
		if _, ok := defs.Items[id]; !ok {
			errf("Game.player.inventory references unknown item %q", id)
		}
	}

	for _, id := range state.SortedKeys(defs.Items) {
		it := defs.Items[id]
		if !validKinds[it.Kind] {
			errf("item %q has invalid kind %q", id, it.Kind)
		}
		if !validRarities[it.Rarity] {
			errf("item %q has invalid rarity %q", id, it.Rarity)
		}
		if it.Value < 0 {
			errf("item %q has negative value", id)
		}
		for _, pct := range []struct {
			name string
			v    int
		}{{"crit", it.Crit}, {"dodge", it.Dodge}, {"lifesteal", it.Lifesteal}, {"thorns", it.Thorns}} {
			if pct.v < 0 {
				errf("item %q has negative %s", id, pct.name)
			}
		}
		if it.Kind == types.ItemPotion && it.Heal <= 0 {
			warnf("potion %q heals nothing", id)
		}
	}

	for _, id := range state.SortedKeys(defs.Shops) {
		sh := defs.Shops[id]
		if len(sh.StockItemIDs) == 0 {
			warnf("shop %q has no stock", id)
		}
		for _, itemID := range sh.StockItemIDs {
			if _, ok := defs.Items[itemID]; !ok {
				errf("shop %q stocks unknown item %q", id, itemID)
			}
		}
	}

	for _, loc := range state.SortedKeys(defs.Names) {
		if _, err := language.Parse(loc); err != nil {
			errf("Names %q is not a valid locale: %v", loc, err)
		}
		for _, kind := range state.SortedKeys(defs.Names[loc]) {
			if !slices.Contains(narrative.Kinds, types.MonsterKind(kind)) {
				errf("Names %q names unknown monster kind %q", loc, kind)
			}
		}
	}

	log := logger.Component("loader")
	for _, w := range ve.Warnings {
		log.Warn(w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
