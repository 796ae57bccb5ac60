// Package reward settles a finished battle: experience, currency, loot
// instances and ally relationship changes.
package reward

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// LootItem is a single item instance produced by a loot roll.
type LootItem struct {
	ItemDefID  string
	InstanceID string
	Quantity   int
}

// LootResult holds the generated loot from one defeated unit.
type LootResult struct {
	Currency int
	Items    []LootItem
}

// GenerateLoot rolls lt with src.
//
// Precondition: lt must have passed Validate().
// Postcondition: Currency is in [Currency.Min, Currency.Max] if currency is set;
// each item's Quantity is in [MinQty, MaxQty] for items that pass the chance roll.
func GenerateLoot(lt combatant.LootTable, src dice.Source) LootResult {
	var result LootResult

	if lt.Currency != nil && lt.Currency.Max > 0 {
		result.Currency = dice.Between(src, lt.Currency.Min, lt.Currency.Max)
	}

	for _, item := range lt.Items {
		if src.Float64() < item.Chance {
			result.Items = append(result.Items, LootItem{
				ItemDefID:  item.ItemID,
				InstanceID: uuid.NewString(),
				Quantity:   dice.Between(src, item.MinQty, item.MaxQty),
			})
		}
	}

	return result
}
