package resolve

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/equipment"
)

// BaseDamage rolls the attacker's weapon dice, or its natural damage when unarmed.
// Ranged kinds always use natural damage since the weapon is not thrown.
func (r *Resolver) BaseDamage(a Attack) int {
	if !r.IsRanged(a.Kind) {
		if w, ok := r.equipped(a.Attacker, equipment.SlotWeapon); ok {
			return r.roll.Roll(dice.MustParse(w.Def.Damage)).Total()
		}
	}
	return r.roll.Roll(r.naturalExpr(a.Attacker)).Total()
}

func (r *Resolver) naturalExpr(c *combatant.Combatant) dice.Expression {
	src := c.NaturalDamage
	if src == "" {
		src = r.cfg.NaturalDamage
	}
	if e, ok := r.natural[src]; ok {
		return e
	}
	e, err := dice.Parse(src)
	if err != nil {
		e = dice.MustParse(r.cfg.NaturalDamage)
	}
	r.natural[src] = e
	return e
}

// ComputeDamage rolls base damage for a and applies every modifier.
//
// Postcondition: Returns 0 for zero-damage kinds, otherwise >= 1.
func (r *Resolver) ComputeDamage(a Attack) int {
	if r.cfg.AttackKinds[a.Kind].Damage <= 0 {
		return 0
	}
	return r.DamageFrom(a, r.BaseDamage(a))
}

// DamageFrom applies the damage pipeline to an already-rolled base value.
// It draws nothing from the RNG.
//
// Postcondition: Returns 0 for zero-damage kinds, otherwise >= 1.
func (r *Resolver) DamageFrom(a Attack, base int) int {
	cfg := r.cfg
	kind := cfg.AttackKinds[a.Kind]
	if kind.Damage <= 0 {
		return 0
	}

	dmg := float64(base) + float64(a.Attacker.Power)*cfg.PowerCoefficient
	dmg *= kind.Damage
	dmg *= stanceMult(cfg.StanceDamage, a.Attacker.Stance)
	if a.Defender.Stance == combatant.StanceDefensive {
		dmg *= cfg.DefensiveIncoming
	}
	dmg *= areaMult(cfg.AreaDamage, areaOrBody(a.Area))
	if !kind.Ranged {
		if w, ok := r.equipped(a.Attacker, equipment.SlotWeapon); ok {
			dmg *= r.conditionFactor(w)
		}
	}
	if a.DamageMultiplier > 0 {
		dmg *= a.DamageMultiplier
	}
	dmg -= r.EffectiveDefense(a) * cfg.DefenseReduction

	return max(int(math.Round(dmg)), 1)
}

func stanceMult(table map[string]float64, s combatant.Stance) float64 {
	if m, ok := table[string(s)]; ok {
		return m
	}
	return 1
}

func areaMult(table map[string]float64, a combatant.Area) float64 {
	if m, ok := table[string(a)]; ok {
		return m
	}
	return 1
}
