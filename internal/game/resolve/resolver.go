// Package resolve computes hit, damage, block and shove outcomes from
// combatant state and the configured tuning tables. It never mutates combatants.
package resolve

import (
	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/equipment"
)

// Attack describes one attack attempt.
type Attack struct {
	Attacker *combatant.Combatant
	Defender *combatant.Combatant
	Kind     string
	// Distance is the range bucket between attacker and defender.
	Distance combatant.Distance
	Area     combatant.Area
	// HitBonus carries transient bonuses such as the counter riposte bonus.
	HitBonus int
	// DamageMultiplier scales final damage; zero means 1.
	DamageMultiplier float64
}

// Resolver evaluates attacks against a CombatConfig.
type Resolver struct {
	cfg     config.CombatConfig
	gear    equipment.Provider
	roll    *dice.Roller
	natural map[string]dice.Expression
}

// New creates a Resolver.
//
// Precondition: cfg must have passed validation; roller must be non-nil.
// A nil gear provider means no combatant carries equipment.
func New(cfg config.CombatConfig, gear equipment.Provider, roller *dice.Roller) *Resolver {
	if roller == nil {
		panic("resolve.New: roller must not be nil")
	}
	return &Resolver{
		cfg:     cfg,
		gear:    gear,
		roll:    roller,
		natural: make(map[string]dice.Expression),
	}
}

// Config returns the tuning the resolver was built with.
func (r *Resolver) Config() config.CombatConfig { return r.cfg }

// Gear returns the equipment provider, which may be nil.
func (r *Resolver) Gear() equipment.Provider { return r.gear }

// Kind returns the configuration for an attack kind.
func (r *Resolver) Kind(name string) (config.AttackKindConfig, bool) {
	k, ok := r.cfg.AttackKinds[name]
	return k, ok
}

// IsRanged reports whether the named kind is a ranged attack.
func (r *Resolver) IsRanged(name string) bool {
	return r.cfg.AttackKinds[name].Ranged
}

// equipped returns c's intact item in slot.
func (r *Resolver) equipped(c *combatant.Combatant, slot equipment.Slot) (*equipment.Item, bool) {
	if r.gear == nil {
		return nil, false
	}
	return r.gear.Equipped(c, slot)
}

// HasShield reports whether c carries an intact shield.
func (r *Resolver) HasShield(c *combatant.Combatant) bool {
	return equipment.HasShield(r.gear, c)
}

// Usable reports whether c can perform kind at distance d right now.
// Range, ammunition and shield requirements are all checked.
func (r *Resolver) Usable(c *combatant.Combatant, kind string, d combatant.Distance) bool {
	k, ok := r.cfg.AttackKinds[kind]
	if !ok {
		return false
	}
	if int(d) < k.MinDistance || int(d) > k.MaxDistance {
		return false
	}
	if k.Ammo != "" && !c.HasAmmo(k.Ammo) {
		return false
	}
	if k.RequiresShield && !r.HasShield(c) {
		return false
	}
	return true
}

// DefaultKind returns c's fallback attack kind: its template default when
// that is a configured kind, otherwise the configured default.
func (r *Resolver) DefaultKind(c *combatant.Combatant) string {
	if c.Behavior != nil && c.Behavior.DefaultAttack != "" {
		if _, ok := r.cfg.AttackKinds[c.Behavior.DefaultAttack]; ok {
			return c.Behavior.DefaultAttack
		}
	}
	return r.cfg.DefaultKind
}

// UsableKind returns kind if c can use it at d, otherwise c's default kind,
// and the configured default when the template default is unusable too.
//
// Postcondition: fellBack is true iff the returned kind differs from the request.
// The configured default needs no range, ammo or shield, so the result is usable.
func (r *Resolver) UsableKind(c *combatant.Combatant, kind string, d combatant.Distance) (chosen string, fellBack bool) {
	if r.Usable(c, kind, d) {
		return kind, false
	}
	def := r.DefaultKind(c)
	if !r.Usable(c, def, d) {
		def = r.cfg.DefaultKind
	}
	return def, def != kind
}

// UsableKinds filters kinds down to those c can perform at d, preserving order.
func (r *Resolver) UsableKinds(c *combatant.Combatant, kinds []string, d combatant.Distance) []string {
	var out []string
	for _, k := range kinds {
		if r.Usable(c, k, d) {
			out = append(out, k)
		}
	}
	return out
}

// conditionFactor scales an item's contribution down linearly once its
// durability drops below the configured threshold.
func (r *Resolver) conditionFactor(item *equipment.Item) float64 {
	if item == nil {
		return 1
	}
	cond := item.Condition()
	if cond >= r.cfg.LowDurability || r.cfg.LowDurability <= 0 {
		return 1
	}
	return 1 - r.cfg.DurabilityPenalty*(r.cfg.LowDurability-cond)/r.cfg.LowDurability
}

// EffectiveDefense returns the defender's mitigation against a:
// base defense plus armor (scaled by condition) plus shield, less the kind's
// armor penetration, floored at zero.
func (r *Resolver) EffectiveDefense(a Attack) float64 {
	def := float64(a.Defender.Defense)
	if armor, ok := r.equipped(a.Defender, equipment.SlotArmor); ok {
		def += float64(armor.Def.Defense) * r.conditionFactor(armor)
	}
	if shield, ok := r.equipped(a.Defender, equipment.SlotShield); ok {
		def += float64(shield.Def.Defense)
	}
	def -= float64(r.cfg.AttackKinds[a.Kind].ArmorPenetration)
	return max(def, 0)
}

// WearAmount draws the durability lost by one use of an item.
//
// Postcondition: MinWear <= result <= MaxWear.
func (r *Resolver) WearAmount() int {
	return r.roll.Between("wear", r.cfg.MinWear, r.cfg.MaxWear)
}
