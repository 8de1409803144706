package engine

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/crawlcore/engine/dungeon"
	"github.com/nathoo/crawlcore/engine/save"
	"github.com/nathoo/crawlcore/engine/seed"
	"github.com/nathoo/crawlcore/engine/shop"
	"github.com/nathoo/crawlcore/engine/spawn"
	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/types"
)

// testDefs builds a small test game: one shop, a potion, a weapon and armor.
func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:   "Test Crawl",
			Version: "1.0",
			Seed:    1337,
			Player: types.PlayerTemplate{
				Name:      "Ayla",
				Class:     types.ClassWarrior,
				HP:        30,
				Attack:    6,
				Defense:   2,
				Agility:   2,
				Gold:      500,
				Inventory: []string{"tonic"},
			},
		},
		Items: map[string]types.Item{
			"tonic": {ID: "tonic", Kind: types.ItemPotion, Name: "Tonic", Value: 10, Heal: 8},
			"sword": {ID: "sword", Kind: types.ItemWeapon, Name: "Sword", Value: 50, Attack: 3, Rarity: types.RarityUncommon},
			"mail":  {ID: "mail", Kind: types.ItemArmor, Name: "Mail", Value: 40, Defense: 2},
		},
		Shops: map[string]types.Shop{
			"smithy": {ID: "smithy", Name: "Smithy", TownPos: types.Point{X: 3, Y: 4}, StockItemIDs: []string{"sword", "mail", "tonic"}},
		},
	}
}

func joined(r types.Result) string {
	return strings.Join(r.Output, "\n")
}

func hasEvent(r types.Result, typ string) bool {
	for _, ev := range r.Events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

// arena descends to depth 1 and replaces the population with one monster.
func arena(t *testing.T, m *types.Entity) *Engine {
	t.Helper()
	e := New(testDefs())
	e.Step("descend")
	m.Kind = types.KindMonster
	m.MapID = state.MapID(1)
	e.State.Entities = []*types.Entity{m}
	return e
}

func TestNew(t *testing.T) {
	e := New(testDefs())
	if e.State.WorldSeed != 1337 || e.State.Depth != 0 {
		t.Errorf("unexpected state: seed %d depth %d", e.State.WorldSeed, e.State.Depth)
	}
	if e.RNG.Seed() != seed.Combat(1337) || e.RNG.Position() != 0 {
		t.Errorf("combat stream not seeded from world seed")
	}
	if e.Current() != nil {
		t.Error("player should start in town")
	}
}

func TestStep_Empty(t *testing.T) {
	e := New(testDefs())
	r := e.Step("   ")
	if joined(r) != "What do you want to do?" {
		t.Errorf("output = %q", joined(r))
	}
	if e.State.TurnCounter != 0 {
		t.Error("empty input should not use a turn")
	}
}

func TestStep_UnknownVerbSuggests(t *testing.T) {
	e := New(testDefs())
	r := e.Step("atack slime")
	out := joined(r)
	if !strings.Contains(out, `Did you mean "attack"?`) {
		t.Errorf("output = %q", out)
	}
	if e.State.TurnCounter != 0 {
		t.Error("unknown verbs should not use a turn")
	}
	if len(e.State.CommandLog) != 1 {
		t.Error("every command is logged")
	}
}

func TestLook_Town(t *testing.T) {
	e := New(testDefs())
	r := e.Step("look")
	out := joined(r)
	if !strings.Contains(out, "town square") || !strings.Contains(out, "Smithy (smithy)") {
		t.Errorf("output = %q", out)
	}
	if e.State.TurnCounter != 1 {
		t.Errorf("TurnCounter = %d, want 1", e.State.TurnCounter)
	}
}

func TestDescend_SpawnsOncePerLevel(t *testing.T) {
	e := New(testDefs())
	r := e.Step("descend")
	if !hasEvent(r, "level_entered") {
		t.Error("missing level_entered event")
	}
	if e.State.Depth != 1 || !e.State.Visited[1] {
		t.Fatalf("depth %d visited %v", e.State.Depth, e.State.Visited)
	}
	d := e.Current()
	if e.State.Player.Pos != d.StairsUp || e.State.Player.MapID != d.ID {
		t.Errorf("player at %v on %s, want stairs %v on %s", e.State.Player.Pos, e.State.Player.MapID, d.StairsUp, d.ID)
	}
	if got := len(state.LivingOn(e.State, d.ID)); got != spawn.MonsterCount(1) {
		t.Fatalf("spawned %d, want %d", got, spawn.MonsterCount(1))
	}

	e.Step("ascend")
	if e.State.Depth != 0 || e.State.Player.MapID != state.TownID {
		t.Fatalf("ascend left player at depth %d", e.State.Depth)
	}
	e.Step("descend")
	if got := len(e.State.Entities); got != spawn.MonsterCount(1) {
		t.Errorf("revisit respawned: %d entities", got)
	}
	if e.State.TurnCounter != 3 {
		t.Errorf("TurnCounter = %d, want 3", e.State.TurnCounter)
	}
}

func TestLevel_RebuiltFromSeed(t *testing.T) {
	e := New(testDefs())
	if e.Level(0) != nil {
		t.Error("town has no dungeon")
	}
	want := dungeon.Generate(state.DungeonBase, 2, seed.Level(1337, 2), dungeon.DefaultWidth, dungeon.DefaultHeight)
	if !reflect.DeepEqual(e.Level(2), want) {
		t.Error("level differs from a fresh build with the same seed")
	}
	if e.Level(2) != e.Level(2) {
		t.Error("level should be cached")
	}
}

func TestAscend_InTownFails(t *testing.T) {
	e := New(testDefs())
	r := e.Step("ascend")
	if !strings.Contains(joined(r), "already in town") || e.State.TurnCounter != 0 {
		t.Errorf("output %q turn %d", joined(r), e.State.TurnCounter)
	}
}

func TestAttack_InTownFails(t *testing.T) {
	e := New(testDefs())
	r := e.Step("attack goblin")
	if !strings.Contains(joined(r), "nothing to fight") || e.State.TurnCounter != 0 {
		t.Errorf("output %q turn %d", joined(r), e.State.TurnCounter)
	}
}

func TestAttack_UnknownTarget(t *testing.T) {
	e := arena(t, &types.Entity{ID: "crypt-1:m0", Monster: types.MonsterSlime, Name: "Slime", HP: 5, MaxHP: 5, Level: 1})
	turn := e.State.TurnCounter
	r := e.Step("attack dragon")
	if !strings.Contains(joined(r), "no dragon") || e.State.TurnCounter != turn {
		t.Errorf("output %q", joined(r))
	}
}

func TestAttack_KillAwardsAndLevelsUp(t *testing.T) {
	e := arena(t, &types.Entity{
		ID: "crypt-1:m0", Monster: types.MonsterSlime, Name: "Slime",
		HP: 1, MaxHP: 1, Level: 1, BaseAttack: 1, XP: 25, Gold: 7,
	})
	e.State.Player.HP, e.State.Player.MaxHP = 1000, 1000
	gold := e.State.Player.Gold

	var last types.Result
	for i := 0; i < 100 && len(e.State.Entities) > 0; i++ {
		last = e.Step("attack slime")
	}
	if len(e.State.Entities) != 0 {
		t.Fatal("slime never died")
	}
	if !hasEvent(last, "monster_killed") || !hasEvent(last, "level_up") {
		t.Errorf("events = %+v", last.Events)
	}
	p := e.State.Player
	if p.Level != 2 || p.XP != 5 || p.Gold != gold+7 {
		t.Errorf("level %d xp %d gold %d", p.Level, p.XP, p.Gold)
	}
	if p.MaxHP != 1000+LevelUpHP || p.BaseAttack != 6+LevelUpAttack || p.BaseDefense != 2+LevelUpDefense {
		t.Errorf("level-up stats not applied: %+v", p)
	}
}

func TestAttack_CounterattackKillsPlayer(t *testing.T) {
	e := arena(t, &types.Entity{
		ID: "crypt-1:m0", Monster: types.MonsterOrc, Name: "Orc",
		HP: 100000, MaxHP: 100000, Level: 5, BaseAttack: 40,
	})
	e.State.Player.HP = 1

	var last types.Result
	for i := 0; i < 200 && !e.GameOver(); i++ {
		last = e.Step("attack orc")
	}
	if !e.GameOver() {
		t.Fatal("player never died")
	}
	if !hasEvent(last, "player_died") {
		t.Errorf("events = %+v", last.Events)
	}
	if e.State.Player.HP != 0 {
		t.Errorf("HP = %d, want 0", e.State.Player.HP)
	}

	turn := e.State.TurnCounter
	r := e.Step("look")
	if !strings.Contains(joined(r), "Game over") || e.State.TurnCounter != turn {
		t.Errorf("commands should be blocked after death: %q", joined(r))
	}
}

func TestAttack_AdvancesCombatStream(t *testing.T) {
	e := arena(t, &types.Entity{ID: "crypt-1:m0", Monster: types.MonsterSlime, Name: "Slime", HP: 500, MaxHP: 500, Level: 1, BaseAttack: 1})
	e.Step("attack")
	if e.State.RNGPosition == 0 || e.State.RNGPosition != e.RNG.Position() {
		t.Errorf("RNGPosition = %d, RNG at %d", e.State.RNGPosition, e.RNG.Position())
	}
}

func TestAmbush(t *testing.T) {
	e := New(testDefs())
	if r := e.Step("ambush"); !strings.Contains(joined(r), "town guard") {
		t.Errorf("ambush in town: %q", joined(r))
	}

	e.Step("descend")
	before := len(e.State.Entities)
	turn := e.State.TurnCounter
	r := e.Step("ambush")
	if !hasEvent(r, "ambush") {
		t.Fatal("missing ambush event")
	}
	party := e.State.Entities[before:]
	if len(party) != spawn.AmbushCount(1) {
		t.Fatalf("ambush size %d, want %d", len(party), spawn.AmbushCount(1))
	}

	want := e.Spawner.Ambush(1, e.Current(), seed.Encounter(1337, 1, turn))
	seen := map[types.Point]bool{}
	for i, m := range party {
		if m.ID != want[i].ID || m.Pos != want[i].Pos {
			t.Errorf("member %d = %s at %v, want %s at %v", i, m.ID, m.Pos, want[i].ID, want[i].Pos)
		}
		if seen[m.Pos] {
			t.Errorf("two ambushers share %v", m.Pos)
		}
		seen[m.Pos] = true
	}
}

func TestBuySell(t *testing.T) {
	defs := testDefs()
	e := New(defs)
	sh := defs.Shops["smithy"]

	wantCost := shop.BuyPrice(shop.GetShopEconomy(1337, sh, 0), defs.Items["sword"])
	r := e.Step("buy sword")
	if !hasEvent(r, "item_bought") {
		t.Fatalf("buy failed: %q", joined(r))
	}
	if e.State.Player.Gold != 500-wantCost {
		t.Errorf("gold = %d, want %d", e.State.Player.Gold, 500-wantCost)
	}
	if !state.HasItem(e.State, "sword") {
		t.Error("sword not added")
	}

	e.Step("equip sword")
	if e.State.Player.Equipment.Weapon != "sword" {
		t.Fatal("sword not equipped")
	}

	gold := e.State.Player.Gold
	wantGain := shop.SellPrice(shop.GetShopEconomy(1337, sh, e.State.TurnCounter), defs.Items["sword"])
	r = e.Step("sell sword to smithy")
	if !hasEvent(r, "item_sold") {
		t.Fatalf("sell failed: %q", joined(r))
	}
	if e.State.Player.Gold != gold+wantGain {
		t.Errorf("gold = %d, want %d", e.State.Player.Gold, gold+wantGain)
	}
	if e.State.Player.Equipment.Weapon != "" {
		t.Error("selling the only sword should unequip it")
	}
	if e.State.TurnCounter != 3 {
		t.Errorf("TurnCounter = %d, want 3", e.State.TurnCounter)
	}
}

func TestBuy_Failures(t *testing.T) {
	e := New(testDefs())
	e.State.Player.Gold = 0

	tests := []struct{ cmd, want string }{
		{"buy", "Buy what?"},
		{"buy crown", "No one sells"},
		{"buy sword", "can't afford"},
		{"buy sword from bakery", "No shop stocks"},
	}
	for _, tt := range tests {
		r := e.Step(tt.cmd)
		if !strings.Contains(joined(r), tt.want) {
			t.Errorf("%q: output %q, want %q", tt.cmd, joined(r), tt.want)
		}
	}
	if e.State.TurnCounter != 0 {
		t.Errorf("failed trades used %d turns", e.State.TurnCounter)
	}

	e.Step("descend")
	if r := e.Step("buy tonic"); !strings.Contains(joined(r), "no shops down here") {
		t.Errorf("trading below ground: %q", joined(r))
	}
}

func TestShop_Browse(t *testing.T) {
	e := New(testDefs())
	r := e.Step("shop smithy")
	out := joined(r)
	if !strings.Contains(out, "Smithy: business is") || !strings.Contains(out, "Sword") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Will buy: Tonic") {
		t.Errorf("sell offers missing: %q", out)
	}
	if r := e.Step("shop bakery"); !strings.Contains(joined(r), "no shop called") {
		t.Errorf("unknown shop: %q", joined(r))
	}
}

func TestDrink(t *testing.T) {
	e := New(testDefs())
	e.State.Player.HP = 5
	r := e.Step("drink tonic")
	if e.State.Player.HP != 13 || !hasEvent(r, "potion_drunk") {
		t.Errorf("HP = %d, output %q", e.State.Player.HP, joined(r))
	}
	if state.HasItem(e.State, "tonic") {
		t.Error("tonic should be consumed")
	}
	if r := e.Step("drink tonic"); !strings.Contains(joined(r), "don't have") {
		t.Errorf("output = %q", joined(r))
	}

	e.State.Player.Inventory = []string{"tonic"}
	e.State.Player.HP = 28
	e.Step("drink tonic")
	if e.State.Player.HP != 30 {
		t.Errorf("heal should cap at max HP, got %d", e.State.Player.HP)
	}
}

func TestEquip_Rejects(t *testing.T) {
	e := New(testDefs())
	if r := e.Step("equip tonic"); !strings.Contains(joined(r), "can't equip") {
		t.Errorf("output = %q", joined(r))
	}
	if r := e.Step("equip mail"); !strings.Contains(joined(r), "don't have") {
		t.Errorf("output = %q", joined(r))
	}
}

func TestInventoryAndStatus(t *testing.T) {
	e := New(testDefs())
	e.State.Player.Inventory = []string{"tonic", "mail"}
	e.State.Player.Equipment.Armor = "mail"

	r := e.Step("i")
	if joined(r) != "You are carrying: Tonic, Mail (equipped)." {
		t.Errorf("inventory = %q", joined(r))
	}
	r = e.Step("status")
	out := joined(r)
	if !strings.Contains(out, "Ayla the warrior, level 1.") || !strings.Contains(out, "HP 30/30") {
		t.Errorf("status = %q", out)
	}
}

var script = []string{
	"descend", "attack", "attack", "attack", "ambush",
	"attack", "attack", "descend", "attack", "look", "status",
}

func TestDeterminism(t *testing.T) {
	a, b := New(testDefs()), New(testDefs())
	for _, cmd := range script {
		ra, rb := a.Step(cmd), b.Step(cmd)
		if !reflect.DeepEqual(ra, rb) {
			t.Fatalf("%q diverged:\n%s\n---\n%s", cmd, joined(ra), joined(rb))
		}
	}
	if !reflect.DeepEqual(a.State, b.State) {
		t.Error("final states differ")
	}
}

func TestSaveResume(t *testing.T) {
	defs := testDefs()
	a := New(defs)
	for _, cmd := range script[:5] {
		a.Step(cmd)
	}

	data, err := save.Save(a.State, defs)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	sd, err := save.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b := New(defs)
	save.ApplySave(b.State, sd)
	b.Resume()

	if b.RNG.Position() != a.RNG.Position() {
		t.Fatalf("RNG position %d, want %d", b.RNG.Position(), a.RNG.Position())
	}
	for _, cmd := range script[5:] {
		ra, rb := a.Step(cmd), b.Step(cmd)
		if joined(ra) != joined(rb) {
			t.Fatalf("%q diverged after resume:\n%s\n---\n%s", cmd, joined(ra), joined(rb))
		}
	}
}
