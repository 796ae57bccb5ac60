package equipment

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
)

// Provider exposes a combatant's current gear and accepts durability wear.
type Provider interface {
	// Equipped returns the intact item in slot, or (nil, false) if the slot is
	// empty or the item is broken.
	Equipped(c *combatant.Combatant, slot Slot) (*Item, bool)
	// Wear reduces the item's durability by amount and reports whether this call broke it.
	Wear(c *combatant.Combatant, slot Slot, amount int) bool
}

// HasShield reports whether c carries an intact shield.
func HasShield(p Provider, c *combatant.Combatant) bool {
	if p == nil {
		return false
	}
	_, ok := p.Equipped(c, SlotShield)
	return ok
}

// Armory is the in-memory Provider backed by an item catalog.
// It is not safe for concurrent use.
type Armory struct {
	catalog map[string]*Def
	gear    map[string]map[Slot]*Item
	logger  *zap.Logger
}

// NewArmory indexes defs by ID.
//
// Precondition: every def must have passed Validate.
// Postcondition: Returns an error if two defs share an ID.
func NewArmory(defs []*Def, logger *zap.Logger) (*Armory, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Armory{
		catalog: make(map[string]*Def, len(defs)),
		gear:    make(map[string]map[Slot]*Item),
		logger:  logger,
	}
	for _, d := range defs {
		if _, exists := a.catalog[d.ID]; exists {
			return nil, fmt.Errorf("equipment: item ID %q already registered", d.ID)
		}
		a.catalog[d.ID] = d
	}
	return a, nil
}

// Def returns the catalog entry for id.
func (a *Armory) Def(id string) (*Def, bool) {
	d, ok := a.catalog[id]
	return d, ok
}

// Outfit issues fresh items for every entry in c.Loadout. Unknown or
// mis-slotted item IDs are logged and skipped.
//
// Postcondition: Any gear previously issued to c.ID is replaced.
func (a *Armory) Outfit(c *combatant.Combatant) {
	slots := make(map[Slot]*Item)
	for slot, id := range map[Slot]string{
		SlotWeapon: c.Loadout.Weapon,
		SlotShield: c.Loadout.Shield,
		SlotArmor:  c.Loadout.Armor,
	} {
		if id == "" {
			continue
		}
		def, ok := a.catalog[id]
		if !ok || def.Slot != slot {
			a.logger.Warn("skipping unusable loadout item",
				zap.String("combatant", c.Name),
				zap.String("item", id),
				zap.String("slot", string(slot)),
			)
			continue
		}
		slots[slot] = NewItem(def)
	}
	a.gear[c.ID] = slots
}

// Give places a specific item instance in c's slot.
func (a *Armory) Give(c *combatant.Combatant, item *Item) {
	if a.gear[c.ID] == nil {
		a.gear[c.ID] = make(map[Slot]*Item)
	}
	a.gear[c.ID][item.Def.Slot] = item
}

// Equipped implements Provider.
func (a *Armory) Equipped(c *combatant.Combatant, slot Slot) (*Item, bool) {
	item, ok := a.gear[c.ID][slot]
	if !ok || item.Broken() {
		return nil, false
	}
	return item, true
}

// Wear implements Provider. Wearing an empty or already broken slot is a no-op.
func (a *Armory) Wear(c *combatant.Combatant, slot Slot, amount int) bool {
	item, ok := a.gear[c.ID][slot]
	if !ok || item.Broken() || amount <= 0 {
		return false
	}
	item.Durability = max(item.Durability-amount, 0)
	if item.Broken() {
		a.logger.Debug("item broke",
			zap.String("combatant", c.Name),
			zap.String("item", item.Def.ID),
		)
		return true
	}
	return false
}
