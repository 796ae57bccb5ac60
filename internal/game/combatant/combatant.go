package combatant

import (
	"maps"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/condition"
)

// Skills holds the trained proficiencies that feed the hit formula.
type Skills struct {
	Melee        int `yaml:"melee"`
	Marksmanship int `yaml:"marksmanship"`
	Command      int `yaml:"command"`
}

// AmmoPool tracks one kind of ammunition.
type AmmoPool struct {
	Current int `yaml:"current"`
	Max     int `yaml:"max"`
}

// Combatant is one participant in a skirmish. Player, Ally and Enemy share this
// shape; Behavior and Reward are only set for the AI-controlled variants.
type Combatant struct {
	ID         string
	TemplateID string
	Name       string
	Kind       Kind

	Health    int
	MaxHealth int
	// Distance is measured from the player; the player's own value is unused.
	Distance Distance
	Stance   Stance

	Power        int
	Defense      int
	Accuracy     int
	CounterSkill int
	Skills       Skills
	// NaturalDamage is the dice expression rolled when no weapon is equipped.
	NaturalDamage string

	Ammo    map[string]AmmoPool
	Loadout Loadout

	Conditions condition.Set
	Momentum   int
	// LastAction is the action key of the unit's previous turn, used for combo follow-ups.
	LastAction string

	Behavior *Behavior
	Reward   *Reward
}

// New creates a combatant at full health, close range and neutral stance.
//
// Precondition: name must be non-empty; maxHealth must be > 0.
// Postcondition: Health == MaxHealth and ID is a fresh UUID.
func New(kind Kind, name string, maxHealth int) *Combatant {
	if name == "" {
		panic("combatant.New: name must not be empty")
	}
	if maxHealth <= 0 {
		panic("combatant.New: maxHealth must be > 0")
	}
	c := &Combatant{
		ID:            uuid.New().String(),
		Name:          name,
		Kind:          kind,
		Health:        maxHealth,
		MaxHealth:     maxHealth,
		Distance:      Close,
		Stance:        StanceNeutral,
		NaturalDamage: "1d4",
		Ammo:          map[string]AmmoPool{},
	}
	if kind != KindPlayer {
		c.Behavior = &Behavior{PreferredStance: StanceNeutral, PreferredDistance: Close}
		c.Reward = &Reward{}
	}
	return c
}

// Side returns the faction this combatant fights for.
func (c *Combatant) Side() Side { return c.Kind.Side() }

// IsDefeated reports whether health has reached zero.
func (c *Combatant) IsDefeated() bool { return c.Health <= 0 }

// IsAlive is the negation of IsDefeated.
func (c *Combatant) IsAlive() bool { return c.Health > 0 }

// HealthPercent returns Health / MaxHealth in [0, 1].
func (c *Combatant) HealthPercent() float64 {
	return float64(c.Health) / float64(c.MaxHealth)
}

// ApplyDamage reduces Health by amount, flooring at zero.
//
// Precondition: amount must be >= 0.
// Postcondition: 0 <= Health <= MaxHealth; returns the health actually removed.
func (c *Combatant) ApplyDamage(amount int) int {
	if amount < 0 {
		panic("combatant.ApplyDamage: amount must be >= 0")
	}
	before := c.Health
	c.Health -= amount
	if c.Health < 0 {
		c.Health = 0
	}
	return before - c.Health
}

// Heal restores up to amount health, capped at MaxHealth.
//
// Precondition: amount must be >= 0.
// Postcondition: 0 <= Health <= MaxHealth; returns the health actually restored.
func (c *Combatant) Heal(amount int) int {
	if amount < 0 {
		panic("combatant.Heal: amount must be >= 0")
	}
	before := c.Health
	c.Health = min(c.Health+amount, c.MaxHealth)
	return c.Health - before
}

// Step moves the combatant delta buckets away from the player, clamped to the valid range.
//
// Postcondition: Grappling <= Distance <= Far; returns the new distance.
func (c *Combatant) Step(delta int) Distance {
	c.Distance = (c.Distance + Distance(delta)).Clamp()
	return c.Distance
}

// HasAmmo reports whether at least one unit of kind remains.
func (c *Combatant) HasAmmo(kind string) bool {
	return c.Ammo[kind].Current > 0
}

// SpendAmmo consumes one unit of kind.
//
// Postcondition: Returns false and leaves the pool unchanged when it is empty.
func (c *Combatant) SpendAmmo(kind string) bool {
	pool, ok := c.Ammo[kind]
	if !ok || pool.Current <= 0 {
		return false
	}
	pool.Current--
	c.Ammo[kind] = pool
	return true
}

// GainMomentum adds one point of momentum up to limit.
func (c *Combatant) GainMomentum(limit int) {
	if c.Momentum < limit {
		c.Momentum++
	}
}

// ResetMomentum drops momentum to zero.
func (c *Combatant) ResetMomentum() { c.Momentum = 0 }

// IsStunned reports whether the stunned effect is active.
func (c *Combatant) IsStunned() bool { return c.Conditions.Has(condition.Stunned) }

// IsKnockedDown reports whether the knocked-down effect is active.
func (c *Combatant) IsKnockedDown() bool { return c.Conditions.Has(condition.KnockedDown) }

// Afflict applies a status effect, clearing momentum if the effect demands it.
func (c *Combatant) Afflict(e condition.Effect) {
	c.Conditions.Apply(e)
	if def, ok := condition.Lookup(e); ok && def.ClearsMomentum {
		c.ResetMomentum()
	}
}

// RelevantSkill returns the skill that drives the hit formula for this attacker.
// Allies command, ranged attacks use marksmanship, everything else is melee.
func (c *Combatant) RelevantSkill(ranged bool) int {
	switch {
	case c.Kind == KindAlly:
		return c.Skills.Command
	case ranged:
		return c.Skills.Marksmanship
	default:
		return c.Skills.Melee
	}
}

// HealthDescription returns a visible health state string.
//
// Postcondition: Returns a non-empty string.
func (c *Combatant) HealthDescription() string {
	if c.Health <= 0 {
		return "down"
	}
	pct := c.HealthPercent()
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "bloodied"
	case pct >= 0.20:
		return "badly wounded"
	default:
		return "barely standing"
	}
}

// Clone returns a deep copy of c that shares no mutable state with it.
func (c *Combatant) Clone() *Combatant {
	out := *c
	out.Ammo = maps.Clone(c.Ammo)
	if out.Ammo == nil {
		out.Ammo = map[string]AmmoPool{}
	}
	out.Conditions = c.Conditions.Clone()
	out.Behavior = c.Behavior.Clone()
	out.Reward = c.Reward.Clone()
	return &out
}

// Living returns the members of roster that are not defeated, in order.
func Living(roster []*Combatant) []*Combatant {
	var out []*Combatant
	for _, c := range roster {
		if c.IsAlive() {
			out = append(out, c)
		}
	}
	return out
}

// AllDefeated reports whether every member of roster is defeated. An empty roster counts as defeated.
func AllDefeated(roster []*Combatant) bool {
	for _, c := range roster {
		if c.IsAlive() {
			return false
		}
	}
	return true
}
