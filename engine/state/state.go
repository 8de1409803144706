// Package state holds the immutable content definitions and the lookups
// the engine runs against the mutable game state.
package state

import (
	"slices"
	"strconv"
	"strings"

	"github.com/nathoo/crawlcore/types"
)

// TownID is the map ID of depth 0.
const TownID = "town"

// DungeonBase is the base ID of generated levels; level IDs are "<base>-<depth>".
const DungeonBase = "crypt"

// Defs holds the immutable game definitions loaded from Lua.
type Defs struct {
	Game  types.GameDef
	Items map[string]types.Item
	Shops map[string]types.Shop
	// Names maps a locale tag to monster kind -> display name.
	Names map[string]map[string]string
}

// NewState creates a fresh game state from definitions. The player starts
// in town at level 1.
func NewState(defs *Defs) *types.State {
	p := defs.Game.Player
	name := p.Name
	if name == "" {
		name = "Adventurer"
	}
	class := p.Class
	if class == "" {
		class = types.ClassWarrior
	}
	inv := make([]string, len(p.Inventory))
	copy(inv, p.Inventory)

	return &types.State{
		WorldSeed: defs.Game.Seed,
		Player: types.Entity{
			ID:          "player",
			Kind:        types.KindPlayer,
			Name:        name,
			Glyph:       "@",
			MapID:       TownID,
			HP:          p.HP,
			MaxHP:       p.HP,
			BaseAttack:  p.Attack,
			BaseDefense: p.Defense,
			Level:       1,
			Gold:        p.Gold,
			Inventory:   inv,
			Class:       class,
			Strength:    p.Strength,
			Agility:     p.Agility,
			Intellect:   p.Intellect,
		},
		Entities:   []*types.Entity{},
		Visited:    map[int]bool{},
		Flags:      map[string]bool{},
		CommandLog: []string{},
	}
}

// MapID returns the map ID for a depth.
func MapID(depth int) string {
	if depth <= 0 {
		return TownID
	}
	return DungeonBase + "-" + strconv.Itoa(depth)
}

// HasItem returns true if the player carries the given item.
func HasItem(s *types.State, itemID string) bool {
	return slices.Contains(s.Player.Inventory, itemID)
}

// RemoveItem drops one copy of itemID from the player's inventory.
func RemoveItem(s *types.State, itemID string) bool {
	i := slices.Index(s.Player.Inventory, itemID)
	if i < 0 {
		return false
	}
	s.Player.Inventory = slices.Delete(s.Player.Inventory, i, i+1)
	return true
}

// LivingOn returns the living monsters on a map in spawn order.
func LivingOn(s *types.State, mapID string) []*types.Entity {
	var out []*types.Entity
	for _, e := range s.Entities {
		if e.MapID == mapID && e.HP > 0 {
			out = append(out, e)
		}
	}
	return out
}

// FindMonster resolves a player reference to a living monster on a map.
// It matches an exact ID first, then a case-insensitive name or kind.
// An empty reference picks the first living monster.
func FindMonster(s *types.State, mapID, ref string) *types.Entity {
	living := LivingOn(s, mapID)
	if len(living) == 0 {
		return nil
	}
	if ref == "" {
		return living[0]
	}
	for _, e := range living {
		if e.ID == ref {
			return e
		}
	}
	ref = strings.ToLower(ref)
	for _, e := range living {
		if strings.ToLower(e.Name) == ref || string(e.Monster) == ref {
			return e
		}
	}
	return nil
}

// RemoveDead drops monsters with hp <= 0 from the state.
func RemoveDead(s *types.State) []*types.Entity {
	var dead []*types.Entity
	s.Entities = slices.DeleteFunc(s.Entities, func(e *types.Entity) bool {
		if e.HP <= 0 {
			dead = append(dead, e)
			return true
		}
		return false
	})
	return dead
}

// FindItem resolves a player reference to an item definition by ID or
// case-insensitive name.
func FindItem(defs *Defs, ref string) (types.Item, bool) {
	if it, ok := defs.Items[ref]; ok {
		return it, true
	}
	ref = strings.ToLower(ref)
	for _, id := range SortedKeys(defs.Items) {
		if strings.ToLower(defs.Items[id].Name) == ref {
			return defs.Items[id], true
		}
	}
	return types.Item{}, false
}

// ShopIDs returns the shop IDs in sorted order.
func ShopIDs(defs *Defs) []string {
	return SortedKeys(defs.Shops)
}

// SortedKeys returns the keys of a string-keyed map in sorted order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
