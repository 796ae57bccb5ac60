// Package condition models the status effects that can disrupt a combatant's turn.
package condition

// Effect identifies a status effect.
type Effect string

const (
	// Stunned forces the combatant to skip its next action; it then clears.
	Stunned Effect = "stunned"
	// KnockedDown forces a "get up" action on the combatant's next turn; it then clears.
	KnockedDown Effect = "knocked_down"
)

// Restriction is what an active effect does to a combatant's next turn.
type Restriction int

const (
	// RestrictNone leaves the turn untouched.
	RestrictNone Restriction = iota
	// RestrictSkip forfeits the turn.
	RestrictSkip
	// RestrictGetUp replaces the turn with a get-up action.
	RestrictGetUp
)

// Def is the static definition of an Effect.
type Def struct {
	ID          Effect
	Name        string
	Restriction Restriction
	// Vulnerable grants attackers the vulnerability hit bonus.
	Vulnerable bool
	// ClearsMomentum resets the combatant's momentum when applied.
	ClearsMomentum bool
}

var defs = map[Effect]*Def{
	Stunned: {
		ID:             Stunned,
		Name:           "Stunned",
		Restriction:    RestrictSkip,
		Vulnerable:     true,
		ClearsMomentum: true,
	},
	KnockedDown: {
		ID:             KnockedDown,
		Name:           "Knocked Down",
		Restriction:    RestrictGetUp,
		Vulnerable:     true,
		ClearsMomentum: true,
	},
}

// Lookup returns the definition for e, or (nil, false) if e is unknown.
func Lookup(e Effect) (*Def, bool) {
	d, ok := defs[e]
	return d, ok
}

// String returns the display name of the effect.
func (e Effect) String() string {
	if d, ok := defs[e]; ok {
		return d.Name
	}
	return string(e)
}
