package resolve

import (
	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/equipment"
)

// HitChance returns the percent chance that a lands, clamped to the
// configured bounds. It draws nothing from the RNG.
//
// Postcondition: MinHitChance <= result <= MaxHitChance.
func (r *Resolver) HitChance(a Attack) float64 {
	return r.clampHit(r.rawHitChance(a))
}

func (r *Resolver) rawHitChance(a Attack) float64 {
	cfg := r.cfg
	kind := cfg.AttackKinds[a.Kind]

	chance := cfg.BaseHitChance
	chance += float64(a.Attacker.RelevantSkill(kind.Ranged)) * cfg.SkillCoefficient
	chance += float64(a.Attacker.Accuracy)
	if !kind.Ranged {
		if w, ok := r.equipped(a.Attacker, equipment.SlotWeapon); ok {
			chance += float64(w.Def.Accuracy)
		}
	}
	chance += float64(a.Attacker.Momentum * cfg.MomentumHitBonus)
	chance -= r.EffectiveDefense(a) * cfg.DefenseCoefficient
	chance += float64(distanceMod(cfg.MeleeDistance, cfg.RangedDistance, kind.Ranged, a.Distance))
	chance += float64(cfg.StanceHit[string(a.Attacker.Stance)][string(a.Defender.Stance)])
	chance += float64(cfg.AreaHit[string(areaOrBody(a.Area))])
	chance += float64(a.HitBonus + kind.HitBonus)
	if a.Defender.Conditions.Vulnerable() {
		chance += float64(cfg.VulnerabilityBonus)
	}
	if kind.Accuracy > 0 {
		chance *= kind.Accuracy
	}
	return chance
}

func (r *Resolver) clampHit(chance float64) float64 {
	return min(max(chance, r.cfg.MinHitChance), r.cfg.MaxHitChance)
}

// ResolveHit rolls a against its clamped hit chance.
func (r *Resolver) ResolveHit(a Attack) bool {
	return r.roll.Percent("hit:"+a.Kind, r.HitChance(a))
}

func distanceMod(melee, ranged []int, isRanged bool, d combatant.Distance) int {
	table := melee
	if isRanged {
		table = ranged
	}
	i := int(d.Clamp())
	if i >= len(table) {
		return 0
	}
	return table[i]
}

func areaOrBody(a combatant.Area) combatant.Area {
	if a.Valid() {
		return a
	}
	return combatant.AreaBody
}
