package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/crawlcore/engine/shop"
	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/types"
)

// Pricing returns the current price table for a shop.
func (e *Engine) Pricing(shopID string) (types.ShopPricing, bool) {
	sh, ok := e.Defs.Shops[shopID]
	if !ok {
		return types.ShopPricing{}, false
	}
	return shop.BuildShopPricing(e.State, e.Defs.Items, sh), true
}

// findShop resolves a shop by ID or case-insensitive name.
func (e *Engine) findShop(ref string) (types.Shop, bool) {
	if sh, ok := e.Defs.Shops[ref]; ok {
		return sh, true
	}
	for _, id := range state.ShopIDs(e.Defs) {
		if strings.EqualFold(e.Defs.Shops[id].Name, ref) {
			return e.Defs.Shops[id], true
		}
	}
	return types.Shop{}, false
}

// tradingShop picks the shop for a trade: the named one, else the first
// shop (by ID) that accepts the item.
func (e *Engine) tradingShop(ref, itemID string, buying bool) (types.Shop, bool) {
	if ref != "" {
		return e.findShop(ref)
	}
	ids := state.ShopIDs(e.Defs)
	for _, id := range ids {
		sh := e.Defs.Shops[id]
		if !buying {
			return sh, true
		}
		for _, stocked := range sh.StockItemIDs {
			if stocked == itemID {
				return sh, true
			}
		}
	}
	return types.Shop{}, false
}

func (e *Engine) inTown(t *turn) bool {
	if e.State.Depth != 0 {
		t.say("There are no shops down here.")
		return false
	}
	return true
}

func (e *Engine) browse(t *turn, ref string) bool {
	if !e.inTown(t) {
		return false
	}
	if ref == "" {
		ids := state.ShopIDs(e.Defs)
		if len(ids) == 0 {
			t.say("The market is empty.")
			return true
		}
		for _, id := range ids {
			sh := e.Defs.Shops[id]
			econ := shop.GetShopEconomy(e.State.WorldSeed, sh, e.State.TurnCounter)
			t.say("%s (%s): %s, specialty %s.", shopName(sh), sh.ID, econ.Mood, econ.Specialty)
		}
		return true
	}

	sh, ok := e.findShop(ref)
	if !ok {
		t.say("There is no shop called %q.", ref)
		return false
	}
	p := shop.BuildShopPricing(e.State, e.Defs.Items, sh)
	econ := p.Economy
	t.say("%s: business is %s, specialty %s. Restock in %d turns.",
		shopName(sh), econ.Mood, econ.Specialty, econ.RestockIn)
	for _, id := range sh.StockItemIDs {
		price, ok := p.BuyPrices[id]
		if !ok {
			continue
		}
		line := fmt.Sprintf("  %-20s %5d gold", itemName(e.Defs, id), price)
		if id == econ.FeaturedItemID {
			line += "  (featured)"
		}
		t.lines(line)
	}
	if len(p.SellPrices) > 0 {
		var offers []string
		for _, id := range state.SortedKeys(p.SellPrices) {
			offers = append(offers, fmt.Sprintf("%s %d", itemName(e.Defs, id), p.SellPrices[id]))
		}
		t.say("Will buy: %s.", strings.Join(offers, ", "))
	}
	return true
}

func (e *Engine) buy(t *turn, intent types.Intent) bool {
	if !e.inTown(t) {
		return false
	}
	if intent.Object == "" {
		t.say("Buy what?")
		return false
	}
	it, ok := state.FindItem(e.Defs, intent.Object)
	if !ok {
		t.say("No one sells %q.", intent.Object)
		return false
	}
	sh, ok := e.tradingShop(intent.Target, it.ID, true)
	if !ok {
		t.say("No shop stocks the %s.", it.Name)
		return false
	}

	cost, err := shop.Buy(e.State, e.Defs.Items, sh, it.ID)
	switch {
	case errors.Is(err, shop.ErrNotStocked):
		t.say("%s doesn't stock the %s.", shopName(sh), it.Name)
		return false
	case errors.Is(err, shop.ErrInsufficientGold):
		t.say("You can't afford the %s.", it.Name)
		return false
	case err != nil:
		t.say("%v", err)
		return false
	}
	t.say("You buy the %s for %d gold.", it.Name, cost)
	t.emit("item_bought", map[string]any{"item": it.ID, "shop": sh.ID, "price": cost})
	return true
}

func (e *Engine) sell(t *turn, intent types.Intent) bool {
	if !e.inTown(t) {
		return false
	}
	it, ok := e.carried(intent.Object)
	if !ok {
		t.say("You don't have that.")
		return false
	}
	sh, ok := e.tradingShop(intent.Target, it.ID, false)
	if !ok {
		t.say("There is no one to sell to.")
		return false
	}

	gain, err := shop.Sell(e.State, e.Defs.Items, sh, it.ID)
	if err != nil {
		t.say("%v", err)
		return false
	}
	t.say("You sell the %s for %d gold.", it.Name, gain)
	t.emit("item_sold", map[string]any{"item": it.ID, "shop": sh.ID, "price": gain})
	return true
}

// carried resolves a reference to an item the player holds.
func (e *Engine) carried(ref string) (types.Item, bool) {
	if ref == "" {
		return types.Item{}, false
	}
	it, ok := state.FindItem(e.Defs, ref)
	if !ok || !state.HasItem(e.State, it.ID) {
		return types.Item{}, false
	}
	return it, true
}

func (e *Engine) drink(t *turn, ref string) bool {
	it, ok := e.carried(ref)
	if !ok {
		t.say("You don't have that.")
		return false
	}
	if it.Kind != types.ItemPotion {
		t.say("You can't drink the %s.", it.Name)
		return false
	}
	p := &e.State.Player
	state.RemoveItem(e.State, it.ID)
	before := p.HP
	p.HP = min(p.MaxHP, p.HP+it.Heal)
	t.say("You drink the %s and recover %d HP.", it.Name, p.HP-before)
	t.emit("potion_drunk", map[string]any{"item": it.ID, "healed": p.HP - before})
	return true
}

func (e *Engine) equip(t *turn, ref string) bool {
	it, ok := e.carried(ref)
	if !ok {
		t.say("You don't have that.")
		return false
	}
	eq := &e.State.Player.Equipment
	switch it.Kind {
	case types.ItemWeapon:
		eq.Weapon = it.ID
	case types.ItemArmor:
		eq.Armor = it.ID
	default:
		t.say("You can't equip the %s.", it.Name)
		return false
	}
	t.say("You equip the %s.", it.Name)
	t.emit("item_equipped", map[string]any{"item": it.ID, "kind": string(it.Kind)})
	return true
}

func (e *Engine) inventory(t *turn) bool {
	p := e.State.Player
	if len(p.Inventory) == 0 {
		t.say("You are carrying nothing.")
		return true
	}
	var names []string
	for _, id := range p.Inventory {
		name := itemName(e.Defs, id)
		if id == p.Equipment.Weapon || id == p.Equipment.Armor {
			name += " (equipped)"
		}
		names = append(names, name)
	}
	t.say("You are carrying: %s.", strings.Join(names, ", "))
	return true
}

func (e *Engine) status(t *turn) bool {
	s := e.State
	p := s.Player
	t.say("%s the %s, level %d.", p.Name, p.Class, p.Level)
	t.say("HP %d/%d  ATK %d  DEF %d  XP %d/%d  Gold %d",
		p.HP, p.MaxHP, p.BaseAttack, p.BaseDefense, p.XP, LevelUpXP*p.Level, p.Gold)
	t.say("Depth %d, turn %d.", s.Depth, s.TurnCounter)
	return true
}

func itemName(defs *state.Defs, id string) string {
	if it, ok := defs.Items[id]; ok && it.Name != "" {
		return it.Name
	}
	return id
}

func shopName(sh types.Shop) string {
	if sh.Name != "" {
		return sh.Name
	}
	return sh.ID
}
