// Package loader loads Lua game content into Go structs at compile time.
// The Lua VM is discarded after loading, so no Lua runs during play.
package loader

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/types"
)

// rawDef holds a constructor's id and table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList converts the array part of a Lua table to strings, skipping
// non-string entries.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	out := make([]string, 0, tbl.MaxN())
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tableToStringMap converts a Lua table to a map[string]string.
func tableToStringMap(tbl *lua.LTable) map[string]string {
	if tbl == nil {
		return nil
	}
	m := map[string]string{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			if vs, ok := v.(lua.LString); ok {
				m[string(ks)] = string(vs)
			}
		}
	})
	return m
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Items: map[string]types.Item{},
		Shops: map[string]types.Shop{},
		Names: map[string]map[string]string{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	for _, raw := range coll.items {
		if _, dup := defs.Items[raw.id]; dup {
			return nil, fmt.Errorf("item %q defined twice", raw.id)
		}
		defs.Items[raw.id] = compileItem(raw)
	}

	for _, raw := range coll.shops {
		if _, dup := defs.Shops[raw.id]; dup {
			return nil, fmt.Errorf("shop %q defined twice", raw.id)
		}
		defs.Shops[raw.id] = compileShop(raw)
	}

	// Names for the same locale merge; later files win per key.
	for _, raw := range coll.names {
		names := defs.Names[raw.id]
		if names == nil {
			names = map[string]string{}
			defs.Names[raw.id] = names
		}
		for k, v := range tableToStringMap(raw.table) {
			names[k] = v
		}
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	game := types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
		Seed:    int32(getInt(tbl, "seed")),
	}
	if p := getTable(tbl, "player"); p != nil {
		game.Player = compilePlayer(p)
	}
	return game
}

func compilePlayer(tbl *lua.LTable) types.PlayerTemplate {
	return types.PlayerTemplate{
		Name:      getString(tbl, "name"),
		Class:     types.Class(getString(tbl, "class")),
		HP:        getInt(tbl, "hp"),
		Attack:    getInt(tbl, "attack"),
		Defense:   getInt(tbl, "defense"),
		Strength:  getInt(tbl, "strength"),
		Agility:   getInt(tbl, "agility"),
		Intellect: getInt(tbl, "intellect"),
		Gold:      getInt(tbl, "gold"),
		Inventory: stringList(getTable(tbl, "inventory")),
	}
}

func compileItem(raw rawDef) types.Item {
	tbl := raw.table
	name := getString(tbl, "name")
	if name == "" {
		name = raw.id
	}
	return types.Item{
		ID:        raw.id,
		Kind:      types.ItemKind(getString(tbl, "kind")),
		Name:      name,
		Value:     getInt(tbl, "value"),
		Heal:      getInt(tbl, "heal"),
		Attack:    getInt(tbl, "attack"),
		Defense:   getInt(tbl, "defense"),
		Crit:      getInt(tbl, "crit"),
		Dodge:     getInt(tbl, "dodge"),
		Lifesteal: getInt(tbl, "lifesteal"),
		Thorns:    getInt(tbl, "thorns"),
		Rarity:    types.Rarity(getString(tbl, "rarity")),
	}
}

func compileShop(raw rawDef) types.Shop {
	tbl := raw.table
	sh := types.Shop{
		ID:           raw.id,
		Name:         getString(tbl, "name"),
		StockItemIDs: stringList(getTable(tbl, "stock")),
	}
	if town := getTable(tbl, "town"); town != nil {
		sh.TownPos = types.Point{X: getInt(town, "x"), Y: getInt(town, "y")}
	}
	return sh
}

// sortedLuaFiles returns .lua files with game.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
