// Package shop derives time-boxed market conditions and prices. The economy
// is a pure function of (world seed, shop position, turn counter) and is
// recomputed on every query.
package shop

import (
	"errors"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/crawlcore/engine/rng"
	"github.com/nathoo/crawlcore/engine/seed"
	"github.com/nathoo/crawlcore/logger"
	"github.com/nathoo/crawlcore/types"
)

// RestockInterval is the length of one economy cycle in turns.
const RestockInterval = 80

// Roll thresholds, out of 100.
const (
	boomingBelow   = 22
	tightBelow     = 45
	focusFrom      = 40
	featureFrom    = 65
	specialtyCount = 3
)

// Multiplier adjustments.
const (
	BuySpecialtyMatch    = -0.08
	BuySpecialtyMismatch = 0.04
	FeaturedDiscount     = 0.8

	SellSpecialtyMatch    = 0.03
	SellSpecialtyMismatch = -0.02
)

// Mood labels.
const (
	MoodBooming = "booming"
	MoodTight   = "tight"
	MoodSteady  = "steady"
)

var (
	ErrNotStocked       = errors.New("shop does not stock that item")
	ErrUnknownItem      = errors.New("unknown item")
	ErrInsufficientGold = errors.New("not enough gold")
	ErrNotCarried       = errors.New("item not in inventory")
)

type mood struct {
	label     string
	buy, sell float64
}

var (
	booming = mood{MoodBooming, 0.9, 0.55}
	tight   = mood{MoodTight, 1.15, 0.45}
	steady  = mood{MoodSteady, 1.0, 0.5}
)

var specialties = [specialtyCount]types.ItemKind{types.ItemPotion, types.ItemWeapon, types.ItemArmor}

var rarityMultipliers = map[types.Rarity]float64{
	"":                    1.0,
	types.RarityCommon:    1.0,
	types.RarityUncommon:  1.03,
	types.RarityRare:      1.06,
	types.RarityEpic:      1.1,
	types.RarityLegendary: 1.15,
}

// GetShopEconomy derives the current market snapshot for a shop.
func GetShopEconomy(worldSeed int32, shop types.Shop, turnCounter int) types.ShopEconomy {
	cycle := seed.Cycle(turnCounter, RestockInterval)
	s := seed.Shop(worldSeed, shop.TownPos, cycle)
	econ := EconomyFromRolls(rng.New(s), shop, turnCounter)

	logger.Component("shop").WithFields(logrus.Fields{
		"shop":      shop.ID,
		"cycle":     cycle,
		"seed":      s,
		"mood":      econ.Mood,
		"specialty": econ.Specialty,
		"featured":  econ.FeaturedItemID,
	}).Debug("economy derived")
	return econ
}

// EconomyFromRolls builds the snapshot from a roller. Draw order is mood,
// specialty (plus the category draw when focused), featured (plus the
// stock index draw when featuring).
func EconomyFromRolls(r rng.Roller, shop types.Shop, turnCounter int) types.ShopEconomy {
	econ := types.ShopEconomy{
		Cycle:     seed.Cycle(turnCounter, RestockInterval),
		Specialty: types.SpecialtyAll,
		RestockIn: RestockInterval - mod(turnCounter, RestockInterval),
	}

	m := steady
	switch roll := r.NextInt(0, 100); {
	case roll < boomingBelow:
		m = booming
	case roll < tightBelow:
		m = tight
	}
	econ.Mood, econ.BuyMultiplier, econ.SellMultiplier = m.label, m.buy, m.sell

	if r.NextInt(0, 100) >= focusFrom {
		econ.Specialty = specialties[r.NextInt(0, specialtyCount)]
	}

	// Stock is sorted so the index draw does not depend on authoring order.
	if r.NextInt(0, 100) >= featureFrom && len(shop.StockItemIDs) > 0 {
		stock := slices.Sorted(slices.Values(shop.StockItemIDs))
		econ.FeaturedItemID = stock[r.NextInt(0, len(stock))]
	}
	return econ
}

// RarityMultiplier returns the price factor for a rarity tier.
func RarityMultiplier(r types.Rarity) float64 {
	if m, ok := rarityMultipliers[r]; ok {
		return m
	}
	return 1.0
}

// BuyMultiplier returns the factor applied to item.Value when buying.
func BuyMultiplier(econ types.ShopEconomy, item types.Item) float64 {
	m := econ.BuyMultiplier
	if econ.Specialty != types.SpecialtyAll {
		if item.Kind == econ.Specialty {
			m += BuySpecialtyMatch
		} else {
			m += BuySpecialtyMismatch
		}
	}
	if econ.FeaturedItemID != "" && item.ID == econ.FeaturedItemID {
		m *= FeaturedDiscount
	}
	return m * RarityMultiplier(item.Rarity)
}

// SellMultiplier returns the factor applied to item.Value when selling.
func SellMultiplier(econ types.ShopEconomy, item types.Item) float64 {
	m := econ.SellMultiplier
	if econ.Specialty != types.SpecialtyAll {
		if item.Kind == econ.Specialty {
			m += SellSpecialtyMatch
		} else {
			m += SellSpecialtyMismatch
		}
	}
	return m * RarityMultiplier(item.Rarity)
}

// BuyPrice is max(1, round(value * buy multiplier)).
func BuyPrice(econ types.ShopEconomy, item types.Item) int {
	return price(item.Value, BuyMultiplier(econ, item))
}

// SellPrice is max(1, round(value * sell multiplier)).
func SellPrice(econ types.ShopEconomy, item types.Item) int {
	return price(item.Value, SellMultiplier(econ, item))
}

// BuildShopPricing prices the shop's stock and the player's inventory.
// IDs missing from items are skipped.
func BuildShopPricing(s *types.State, items map[string]types.Item, shop types.Shop) types.ShopPricing {
	econ := GetShopEconomy(s.WorldSeed, shop, s.TurnCounter)
	p := types.ShopPricing{
		Economy:    econ,
		BuyPrices:  map[string]int{},
		SellPrices: map[string]int{},
	}
	for _, id := range shop.StockItemIDs {
		if it, ok := items[id]; ok {
			p.BuyPrices[id] = BuyPrice(econ, it)
		}
	}
	for _, id := range s.Player.Inventory {
		if it, ok := items[id]; ok {
			p.SellPrices[id] = SellPrice(econ, it)
		}
	}
	return p
}

// Buy moves one stocked item into the player's inventory at the current
// buy price.
func Buy(s *types.State, items map[string]types.Item, shop types.Shop, itemID string) (int, error) {
	if !slices.Contains(shop.StockItemIDs, itemID) {
		return 0, ErrNotStocked
	}
	it, ok := items[itemID]
	if !ok {
		return 0, ErrUnknownItem
	}
	cost := BuyPrice(GetShopEconomy(s.WorldSeed, shop, s.TurnCounter), it)
	if s.Player.Gold < cost {
		return 0, ErrInsufficientGold
	}
	s.Player.Gold -= cost
	s.Player.Inventory = append(s.Player.Inventory, itemID)
	return cost, nil
}

// Sell removes one copy of an item from the player's inventory at the
// current sell price. Selling the last copy of an equipped item unequips it.
func Sell(s *types.State, items map[string]types.Item, shop types.Shop, itemID string) (int, error) {
	idx := slices.Index(s.Player.Inventory, itemID)
	if idx < 0 {
		return 0, ErrNotCarried
	}
	it, ok := items[itemID]
	if !ok {
		return 0, ErrUnknownItem
	}
	gain := SellPrice(GetShopEconomy(s.WorldSeed, shop, s.TurnCounter), it)
	s.Player.Inventory = slices.Delete(s.Player.Inventory, idx, idx+1)
	s.Player.Gold += gain

	if !slices.Contains(s.Player.Inventory, itemID) {
		if s.Player.Equipment.Weapon == itemID {
			s.Player.Equipment.Weapon = ""
		}
		if s.Player.Equipment.Armor == itemID {
			s.Player.Equipment.Armor = ""
		}
	}
	return gain, nil
}

func price(value int, mult float64) int {
	return max(1, int(math.Round(float64(value)*mult)))
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
