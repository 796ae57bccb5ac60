package combat

import (
	"errors"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
)

// ErrActionRejected wraps every soft failure returned by HandlePlayerAction.
// A rejected action leaves the session untouched.
var ErrActionRejected = errors.New("action rejected")

// Narrator receives human-readable event lines.
type Narrator interface {
	Emit(message string)
}

// NarratorFunc adapts a function to Narrator.
type NarratorFunc func(string)

// Emit calls f.
func (f NarratorFunc) Emit(message string) { f(message) }

// Observer is told whenever visible session state has changed.
type Observer interface {
	NotifyStateChanged()
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func()

// NotifyStateChanged calls f.
func (f ObserverFunc) NotifyStateChanged() { f() }

// Settlement is the final roster state handed to the RewardResolver.
type Settlement struct {
	SessionID string
	Outcome   Outcome
	Turns     int
	Player    *combatant.Combatant
	Allies    []*combatant.Combatant
	Enemies   []*combatant.Combatant
}

// RewardResolver settles experience, loot and relationships once a battle ends.
type RewardResolver interface {
	Resolve(s Settlement)
}

type nopNarrator struct{}

func (nopNarrator) Emit(string) {}

type nopObserver struct{}

func (nopObserver) NotifyStateChanged() {}
