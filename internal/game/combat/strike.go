package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/equipment"
	"github.com/cory-johannsen/skirmish/internal/game/resolve"
)

// strikeResult is what one resolved attack did.
type strikeResult struct {
	// Kind is the attack kind actually used after any fallback.
	Kind    string
	Blocked bool
	Hit     bool
	Damage  int
}

func (r strikeResult) missed() bool { return !r.Hit && !r.Blocked }

// exchange resolves a normal attack and opens a counter window when the
// defender exploits a miss. resume continues the interrupted phase.
func (s *Session) exchange(attacker, defender *combatant.Combatant, kind string, area combatant.Area, resume func()) {
	res := s.strike(attacker, defender, kind, area, 0, 0)
	attacker.LastAction = "attack:" + res.Kind
	if res.missed() && defender.IsAlive() && s.resolver.ShouldCounter(defender) {
		s.openCounter(attacker, defender, resume)
		return
	}
	resume()
}

// strike resolves one attack from att against def: the shield block is rolled
// first, then the hit, then damage or the shove contest, then equipment wear.
func (s *Session) strike(att, def *combatant.Combatant, kind string, area combatant.Area, hitBonus int, mult float64) strikeResult {
	dist := s.rangeBetween(att, def)
	chosen, fellBack := s.resolver.UsableKind(att, kind, dist)
	if fellBack {
		s.emit("%s cannot %s at %s range and uses %s instead.", att.Name, kind, dist, chosen)
	}
	k, _ := s.resolver.Kind(chosen)
	if k.Ammo != "" && !att.SpendAmmo(k.Ammo) {
		s.emit("%s has no %s left and uses %s instead.", att.Name, k.Ammo, s.combat.DefaultKind)
		chosen = s.combat.DefaultKind
		k, _ = s.resolver.Kind(chosen)
	}
	res := strikeResult{Kind: chosen}

	if s.resolver.CheckShieldBlock(def) {
		s.emit("%s catches %s's %s on a shield.", def.Name, att.Name, chosen)
		att.ResetMomentum()
		s.wear(att, attackSlot(k.RequiresShield, k.Ranged))
		s.wear(def, equipment.SlotShield)
		res.Blocked = true
		return res
	}

	a := resolve.Attack{
		Attacker:         att,
		Defender:         def,
		Kind:             chosen,
		Distance:         dist,
		Area:             area,
		HitBonus:         hitBonus,
		DamageMultiplier: mult,
	}
	if !s.resolver.ResolveHit(a) {
		s.emit("%s's %s misses %s.", att.Name, chosen, def.Name)
		att.ResetMomentum()
		s.wear(att, attackSlot(k.RequiresShield, k.Ranged))
		return res
	}
	res.Hit = true

	if k.RequiresShield && k.Damage <= 0 {
		s.shove(a)
	} else {
		res.Damage = s.resolver.ComputeDamage(a)
		dealt := def.ApplyDamage(res.Damage)
		s.emit("%s's %s hits %s in the %s for %d. %s is %s.",
			att.Name, chosen, def.Name, areaName(area), dealt, def.Name, def.HealthDescription())
		if def.IsAlive() && s.resolver.RollStun(chosen) {
			def.Afflict(condition.Stunned)
			s.emit("%s is stunned!", def.Name)
		}
	}
	att.GainMomentum(s.combat.MaxMomentum)

	s.wear(att, attackSlot(k.RequiresShield, k.Ranged))
	s.wear(def, equipment.SlotArmor)

	s.logger.Debug("strike",
		zap.String("attacker", att.Name),
		zap.String("defender", def.Name),
		zap.String("kind", chosen),
		zap.Int("damage", res.Damage),
		zap.Int("defender_health", def.Health),
	)
	if def.IsDefeated() {
		s.emit("%s falls.", def.Name)
	}
	return res
}

// shove resolves a landed shield shove: a win pushes the defender back one
// bucket and a wide margin knocks it down.
func (s *Session) shove(a resolve.Attack) {
	r := s.resolver.ResolveShove(a)
	switch {
	case r.KnockedDown:
		s.rangeHolder(a.Attacker, a.Defender).Step(1)
		a.Defender.Afflict(condition.KnockedDown)
		s.emit("%s shoves %s to the ground!", a.Attacker.Name, a.Defender.Name)
	case r.Pushed:
		s.rangeHolder(a.Attacker, a.Defender).Step(1)
		s.emit("%s shoves %s back.", a.Attacker.Name, a.Defender.Name)
	default:
		s.emit("%s holds firm against %s's shove.", a.Defender.Name, a.Attacker.Name)
	}
}

// wear applies one use of durability loss to c's item in slot, if it has one.
func (s *Session) wear(c *combatant.Combatant, slot equipment.Slot) {
	gear := s.resolver.Gear()
	if gear == nil || slot == "" {
		return
	}
	item, ok := gear.Equipped(c, slot)
	if !ok {
		return
	}
	if gear.Wear(c, slot, s.resolver.WearAmount()) {
		s.emit("%s's %s breaks!", c.Name, item.Def.Name)
	}
}

// attackSlot is the item an attack kind puts wear on. Thrown kinds wear nothing.
func attackSlot(requiresShield, ranged bool) equipment.Slot {
	switch {
	case requiresShield:
		return equipment.SlotShield
	case ranged:
		return ""
	default:
		return equipment.SlotWeapon
	}
}

func areaName(a combatant.Area) combatant.Area {
	if a.Valid() {
		return a
	}
	return combatant.AreaBody
}
