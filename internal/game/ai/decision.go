// Package ai chooses the next action for allied and enemy units using
// weighted heuristics with combo memory and optional Lua weight hooks.
package ai

import (
	"strings"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
)

// ActionType is the coarse category of an AI action.
type ActionType string

const (
	ActionDistance ActionType = "distance"
	ActionStance   ActionType = "stance"
	ActionAttack   ActionType = "attack"
)

// Decision is one unit's chosen action for its turn.
type Decision struct {
	Type ActionType
	// Delta is -1 to close in or +1 to back off; distance actions only.
	Delta int
	// Stance is the stance to adopt; stance actions only.
	Stance combatant.Stance
	// Kind is the attack kind; attack actions only.
	Kind string
	Area combatant.Area
	// Target indexes Situation.Targets; -1 means Situation.Opponent.
	Target int
}

// Key returns the combo memory key for d, e.g. "attack:cleave" or "distance:closer".
func (d Decision) Key() string {
	switch d.Type {
	case ActionDistance:
		if d.Delta < 0 {
			return "distance:closer"
		}
		return "distance:away"
	case ActionStance:
		return "stance:" + string(d.Stance)
	case ActionAttack:
		return "attack:" + d.Kind
	default:
		return ""
	}
}

// Situation is what a unit can see when it decides.
type Situation struct {
	Self *combatant.Combatant
	// Opponent is the combatant Self currently faces.
	Opponent *combatant.Combatant
	// Distance is the range between Self and Opponent.
	Distance combatant.Distance
	// Targets, when non-empty, is the roster Self may pick a target from.
	Targets []*combatant.Combatant
}

// Weights is the unnormalised distribution over action types.
type Weights struct {
	Distance float64
	Stance   float64
	Attack   float64
}

// Total returns the sum of the weights.
func (w Weights) Total() float64 { return w.Distance + w.Stance + w.Attack }

func (w Weights) add(t ActionType, v float64) Weights {
	switch t {
	case ActionDistance:
		w.Distance += v
	case ActionStance:
		w.Stance += v
	case ActionAttack:
		w.Attack += v
	}
	return w
}

func (w Weights) floored() Weights {
	return Weights{
		Distance: max(w.Distance, 0),
		Stance:   max(w.Stance, 0),
		Attack:   max(w.Attack, 0),
	}
}

// parseKey splits a combo key into its action type and argument.
func parseKey(key string) (ActionType, string, bool) {
	head, arg, ok := strings.Cut(key, ":")
	if !ok {
		return "", "", false
	}
	switch t := ActionType(head); t {
	case ActionDistance, ActionStance, ActionAttack:
		return t, arg, true
	}
	return "", "", false
}
