// Package combatant defines the data model shared by every participant in a
// skirmish: the player, allied units, and enemies.
package combatant

import "fmt"

// Kind tags which variant of Combatant a value is.
type Kind int

const (
	KindPlayer Kind = iota
	KindAlly
	KindEnemy
)

// String returns the lowercase variant name.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindAlly:
		return "ally"
	case KindEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Side returns the faction the variant fights for. Allies fight on the player side.
func (k Kind) Side() Side {
	if k == KindEnemy {
		return SideEnemy
	}
	return SidePlayer
}

// Side identifies one of the two factions in a skirmish.
type Side int

const (
	SideNone Side = iota
	SidePlayer
	SideEnemy
)

// String returns "none", "player" or "enemy".
func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	default:
		return "none"
	}
}

// Opposite returns the other faction; SideNone maps to itself.
func (s Side) Opposite() Side {
	switch s {
	case SidePlayer:
		return SideEnemy
	case SideEnemy:
		return SidePlayer
	default:
		return SideNone
	}
}

// Stance is a combatant's tactical posture.
type Stance string

const (
	StanceNeutral    Stance = "neutral"
	StanceAggressive Stance = "aggressive"
	StanceDefensive  Stance = "defensive"
)

// Stances lists every stance in display order.
var Stances = []Stance{StanceNeutral, StanceAggressive, StanceDefensive}

// Valid reports whether s is a known stance.
func (s Stance) Valid() bool {
	switch s {
	case StanceNeutral, StanceAggressive, StanceDefensive:
		return true
	}
	return false
}

// ParseStance converts a string to a Stance.
//
// Postcondition: Returns an error iff name is not a known stance.
func ParseStance(name string) (Stance, error) {
	s := Stance(name)
	if !s.Valid() {
		return "", fmt.Errorf("unknown stance %q", name)
	}
	return s, nil
}

// Area is the body region an attack is aimed at.
type Area string

const (
	AreaHead Area = "head"
	AreaBody Area = "body"
	AreaLegs Area = "legs"
)

// Valid reports whether a is a known target area.
func (a Area) Valid() bool {
	switch a {
	case AreaHead, AreaBody, AreaLegs:
		return true
	}
	return false
}

// ParseArea converts a string to an Area.
//
// Postcondition: Returns an error iff name is not a known area.
func ParseArea(name string) (Area, error) {
	a := Area(name)
	if !a.Valid() {
		return "", fmt.Errorf("unknown target area %q", name)
	}
	return a, nil
}

// Distance is the range bucket between a combatant and the player.
type Distance int

const (
	Grappling Distance = iota
	Close
	Medium
	Far
)

// MaxDistance is the farthest bucket.
const MaxDistance = Far

// Clamp returns d limited to [Grappling, Far].
func (d Distance) Clamp() Distance {
	if d < Grappling {
		return Grappling
	}
	if d > Far {
		return Far
	}
	return d
}

// Label returns the human-readable bucket name.
func (d Distance) Label() string {
	switch d {
	case Grappling:
		return "grappling"
	case Close:
		return "close"
	case Medium:
		return "medium"
	case Far:
		return "far"
	default:
		return "unknown"
	}
}

// String implements fmt.Stringer.
func (d Distance) String() string { return d.Label() }
