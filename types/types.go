// Package types defines the shared data structures for the crawlcore engine.
// It holds type definitions only.
package types

// Point is an integer tile coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Tile is a single dungeon cell.
type Tile uint8

const (
	TileWall Tile = iota
	TileFloor
)

// Dungeon is one generated level. Tiles are stored row-major.
type Dungeon struct {
	ID         string
	BaseID     string
	Depth      int
	Width      int
	Height     int
	StairsUp   Point
	StairsDown Point
	Tiles      []Tile
}

// EntityKind distinguishes the player from monsters.
type EntityKind string

const (
	KindPlayer  EntityKind = "player"
	KindMonster EntityKind = "monster"
)

// MonsterKind is the variant tag for generated monsters.
type MonsterKind string

const (
	MonsterSlime  MonsterKind = "slime"
	MonsterGoblin MonsterKind = "goblin"
	MonsterWraith MonsterKind = "wraith"
	MonsterOrc    MonsterKind = "orc"
)

// Class is a player class.
type Class string

const (
	ClassWarrior Class = "warrior"
	ClassRogue   Class = "rogue"
	ClassMage    Class = "mage"
)

// StatusEffect is a timed condition on an entity.
type StatusEffect struct {
	Type      string `json:"type"`
	Remaining int    `json:"remaining"`
	Magnitude int    `json:"magnitude"`
}

// Equipment holds the item IDs currently worn. Empty means nothing equipped.
type Equipment struct {
	Weapon string `json:"weapon,omitempty"`
	Armor  string `json:"armor,omitempty"`
}

// Entity is an actor in the world: the player or a monster.
type Entity struct {
	ID              string         `json:"id"`
	Kind            EntityKind     `json:"kind"`
	Monster         MonsterKind    `json:"monster,omitempty"`
	Name            string         `json:"name"`
	Glyph           string         `json:"glyph"`
	Pos             Point          `json:"pos"`
	MapID           string         `json:"map_id"`
	HP              int            `json:"hp"`
	MaxHP           int            `json:"max_hp"`
	BaseAttack      int            `json:"base_attack"`
	BaseDefense     int            `json:"base_defense"`
	Level           int            `json:"level"`
	XP              int            `json:"xp"`
	Gold            int            `json:"gold"`
	Inventory       []string       `json:"inventory"`
	Equipment       Equipment      `json:"equipment"`
	Class           Class          `json:"class,omitempty"`
	Strength        int            `json:"strength,omitempty"`
	Agility         int            `json:"agility,omitempty"`
	Intellect       int            `json:"intellect,omitempty"`
	StatusEffects   []StatusEffect `json:"status_effects"`
	SpecialCooldown *int           `json:"special_cooldown,omitempty"`
}

// ItemKind is the item category; shop specialties use the same values.
type ItemKind string

const (
	ItemPotion ItemKind = "potion"
	ItemWeapon ItemKind = "weapon"
	ItemArmor  ItemKind = "armor"
)

// SpecialtyAll marks a shop with no category focus.
const SpecialtyAll ItemKind = "all"

// Rarity is an item tier. The empty string is treated as common.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Item is a potion, weapon or armor template. Bonuses are flat points
// (attack, defense, heal) or percentages (crit, dodge, lifesteal, thorns).
type Item struct {
	ID        string   `json:"id"`
	Kind      ItemKind `json:"kind"`
	Name      string   `json:"name"`
	Value     int      `json:"value"`
	Heal      int      `json:"heal,omitempty"`
	Attack    int      `json:"attack,omitempty"`
	Defense   int      `json:"defense,omitempty"`
	Crit      int      `json:"crit,omitempty"`
	Dodge     int      `json:"dodge,omitempty"`
	Lifesteal int      `json:"lifesteal,omitempty"`
	Thorns    int      `json:"thorns,omitempty"`
	Rarity    Rarity   `json:"rarity,omitempty"`
	Pos       *Point   `json:"pos,omitempty"`
}

// Shop is a persistent market location in the town.
type Shop struct {
	ID           string
	Name         string
	TownPos      Point
	StockItemIDs []string
}

// ShopEconomy is a derived, time-boxed market snapshot. It is recomputed
// on every query and never stored.
type ShopEconomy struct {
	Cycle          int
	Mood           string
	Specialty      ItemKind
	BuyMultiplier  float64
	SellMultiplier float64
	FeaturedItemID string // empty when nothing is featured
	RestockIn      int
}

// ShopPricing is a full price table for one shop visit.
type ShopPricing struct {
	Economy    ShopEconomy
	BuyPrices  map[string]int
	SellPrices map[string]int
}

// AttackOutcome is the result of one resolved attack.
type AttackOutcome struct {
	Hit           bool
	Dodged        bool
	Crit          bool
	Roll          int
	Damage        int
	LifestealHeal int
	ThornsDamage  int
}

// PlayerTemplate seeds the player entity for a new game.
type PlayerTemplate struct {
	Name      string
	Class     Class
	HP        int
	Attack    int
	Defense   int
	Strength  int
	Agility   int
	Intellect int
	Gold      int
	Inventory []string
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Seed    int32
	Player  PlayerTemplate
}

// Intent is a parsed player command.
type Intent struct {
	Verb   string
	Object string
	Target string
}

// Event is emitted by a turn for front ends and tests.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single game step.
type Result struct {
	Events []Event
	Output []string
}

// State is the complete mutable game state.
type State struct {
	WorldSeed   int32
	TurnCounter int
	Depth       int
	Player      Entity
	Entities    []*Entity
	Visited     map[int]bool
	Flags       map[string]bool
	RNGPosition int64
	CommandLog  []string
}
