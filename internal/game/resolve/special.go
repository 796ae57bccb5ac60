package resolve

import (
	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/equipment"
)

// BlockChance returns the percent chance that defender's shield negates an
// attack, or 0 when no intact shield is carried.
func (r *Resolver) BlockChance(defender *combatant.Combatant) float64 {
	shield, ok := r.equipped(defender, equipment.SlotShield)
	if !ok {
		return 0
	}
	chance := shield.Def.BlockChance
	if defender.Stance == combatant.StanceDefensive {
		chance += r.cfg.DefensiveBlockBonus
	}
	return min(chance, 100)
}

// CheckShieldBlock rolls defender's block. It is always rolled before the hit roll.
func (r *Resolver) CheckShieldBlock(defender *combatant.Combatant) bool {
	chance := r.BlockChance(defender)
	if chance <= 0 {
		return false
	}
	return r.roll.Percent("block", chance)
}

// CounterChance returns the probability in [0, CounterMaxChance] that defender
// ripostes after a miss.
func (r *Resolver) CounterChance(defender *combatant.Combatant) float64 {
	if defender.IsDefeated() || defender.IsStunned() || defender.IsKnockedDown() {
		return 0
	}
	p := r.cfg.CounterBase + float64(defender.CounterSkill)*r.cfg.CounterPerSkill
	if defender.Stance == combatant.StanceDefensive {
		p += r.cfg.CounterDefensive
	}
	return min(max(p, 0), r.cfg.CounterMaxChance)
}

// ShouldCounter rolls whether defender opens a counter window.
func (r *Resolver) ShouldCounter(defender *combatant.Combatant) bool {
	p := r.CounterChance(defender)
	if p <= 0 {
		return false
	}
	return r.roll.Chance("counter", p)
}

// RollStun rolls the kind's on-hit stun chance.
func (r *Resolver) RollStun(kind string) bool {
	p := r.cfg.AttackKinds[kind].StunChance
	if p <= 0 {
		return false
	}
	return r.roll.Chance("stun:"+kind, p)
}

// ShoveResult is the outcome of an opposed shield shove.
type ShoveResult struct {
	AttackerScore int
	DefenderScore int
	// Pushed is true when the attacker won; the defender steps back one bucket.
	Pushed bool
	// KnockedDown is true when the attacker won by at least the knockdown margin.
	KnockedDown bool
}

// Margin returns attacker score minus defender score.
func (s ShoveResult) Margin() int { return s.AttackerScore - s.DefenderScore }

// ResolveShove runs the opposed check: attacker power plus melee skill against
// defender power plus counter skill, each with a random swing.
func (r *Resolver) ResolveShove(a Attack) ShoveResult {
	res := ShoveResult{
		AttackerScore: a.Attacker.Power + a.Attacker.RelevantSkill(false) +
			r.roll.Between("shove:attacker", 0, r.cfg.ShoveRollRange),
		DefenderScore: a.Defender.Power + a.Defender.CounterSkill +
			r.roll.Between("shove:defender", 0, r.cfg.ShoveRollRange),
	}
	if res.Margin() > 0 {
		res.Pushed = true
		res.KnockedDown = res.Margin() >= r.cfg.ShoveKnockdownMargin
	}
	return res
}
