package combatant

import "fmt"

// CurrencyDrop defines the range of currency a unit yields when the battle is won.
type CurrencyDrop struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// ItemDrop is one entry in a loot table.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// LootTable lists the possible drops for a unit.
type LootTable struct {
	Currency *CurrencyDrop `yaml:"currency"`
	Items    []ItemDrop    `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Postcondition: Returns nil iff all currency and item constraints hold;
// an empty table is valid.
func (lt *LootTable) Validate() error {
	if lt.Currency != nil {
		if lt.Currency.Min < 0 {
			return fmt.Errorf("loot table: currency min must be >= 0, got %d", lt.Currency.Min)
		}
		if lt.Currency.Min > lt.Currency.Max {
			return fmt.Errorf("loot table: currency min (%d) must be <= max (%d)", lt.Currency.Min, lt.Currency.Max)
		}
	}
	for i, item := range lt.Items {
		switch {
		case item.ItemID == "":
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		case item.Chance <= 0 || item.Chance > 1.0:
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		case item.MinQty < 1:
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		case item.MinQty > item.MaxQty:
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}

// Reward is what an ally or enemy contributes to the post-battle settlement.
type Reward struct {
	Experience int `yaml:"experience"`
	// Relationship is the standing change applied for an ally who survives;
	// it is negated when the ally falls.
	Relationship int        `yaml:"relationship"`
	Loot         *LootTable `yaml:"loot"`
}

// Validate checks the reward and its loot table.
func (r *Reward) Validate() error {
	if r.Experience < 0 {
		return fmt.Errorf("reward: experience must be >= 0, got %d", r.Experience)
	}
	if r.Loot != nil {
		return r.Loot.Validate()
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *Reward) Clone() *Reward {
	if r == nil {
		return nil
	}
	c := *r
	if r.Loot != nil {
		lt := LootTable{Items: append([]ItemDrop(nil), r.Loot.Items...)}
		if r.Loot.Currency != nil {
			cur := *r.Loot.Currency
			lt.Currency = &cur
		}
		c.Loot = &lt
	}
	return &c
}
