// Package combat runs a skirmish: a phase-driven state machine over a player,
// allies and enemies, advanced through an explicit queue of deferred tasks.
package combat

// Phase is a step of the turn cycle.
type Phase int

const (
	PhaseInitial Phase = iota
	PhasePlayer
	PhaseAlly
	PhaseEnemy
	PhaseResolution
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhasePlayer:
		return "player"
	case PhaseAlly:
		return "ally"
	case PhaseEnemy:
		return "enemy"
	case PhaseResolution:
		return "resolution"
	default:
		return "unknown"
	}
}

// transitions is the phase graph. Player and ally phases may jump to
// resolution when a counter exchange hits its chain limit.
var transitions = map[Phase][]Phase{
	PhaseInitial:    {PhasePlayer},
	PhasePlayer:     {PhaseAlly, PhaseEnemy, PhaseResolution},
	PhaseAlly:       {PhaseEnemy, PhaseResolution},
	PhaseEnemy:      {PhaseResolution},
	PhaseResolution: {PhasePlayer},
}

// ValidTransition reports whether the graph allows moving from one phase to another.
func ValidTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Outcome is how a battle ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	Victory
	Defeat
	Draw
	Retreat
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case Draw:
		return "draw"
	case Retreat:
		return "retreat"
	default:
		return "unknown"
	}
}
