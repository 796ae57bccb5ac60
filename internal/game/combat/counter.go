package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
)

// CounterState is a snapshot of the counter window.
type CounterState struct {
	Open     bool
	Chain    int
	MaxChain int
	// LastActor is the side that struck last; SideNone while closed.
	LastActor combatant.Side
	// AwaitingPlayer is true when the next riposte belongs to the player.
	AwaitingPlayer bool
}

// counterWindow tracks an open riposte exchange between two combatants.
type counterWindow struct {
	open           bool
	chain          int
	lastActor      combatant.Side
	attacker       *combatant.Combatant
	defender       *combatant.Combatant
	resume         func()
	awaitingPlayer bool
}

// Counter returns the current counter window state.
func (s *Session) Counter() CounterState {
	return CounterState{
		Open:           s.counter.open,
		Chain:          s.counter.chain,
		MaxChain:       s.combat.MaxCounterChain,
		LastActor:      s.counter.lastActor,
		AwaitingPlayer: s.counter.awaitingPlayer,
	}
}

// openCounter starts an exchange after attacker missed defender.
func (s *Session) openCounter(attacker, defender *combatant.Combatant, resume func()) {
	s.counter = counterWindow{
		open:      true,
		lastActor: attacker.Side(),
		attacker:  attacker,
		defender:  defender,
		resume:    resume,
	}
	s.logger.Debug("counter window opened",
		zap.String("attacker", attacker.Name),
		zap.String("defender", defender.Name),
	)
	s.emit("%s sees an opening!", defender.Name)
	s.notify()
	s.nextRiposte()
}

// nextRiposte hands the exchange to the side that did not strike last.
// The player's riposte waits for the counter action; AI ripostes are scheduled.
func (s *Session) nextRiposte() {
	actor, target := s.counter.defender, s.counter.attacker
	if actor.Side() == s.counter.lastActor {
		actor, target = target, actor
	}
	if actor.IsDefeated() || target.IsDefeated() {
		s.abortCounter()
		return
	}
	if actor.Kind == combatant.KindPlayer {
		s.counter.awaitingPlayer = true
		s.emit("%s can riposte against %s.", actor.Name, target.Name)
		return
	}
	s.schedule(msDelay(s.cfg.CounterDelayMs), "riposte:"+actor.Name, func() {
		s.riposte(actor, target, s.resolver.DefaultKind(actor), combatant.AreaBody)
	})
}

// riposte resolves one exchange at the counter bonuses.
func (s *Session) riposte(actor, target *combatant.Combatant, kind string, area combatant.Area) {
	if !s.counter.open {
		return
	}
	if actor.IsDefeated() || target.IsDefeated() {
		s.abortCounter()
		return
	}
	s.counter.chain++
	s.counter.awaitingPlayer = false
	s.emit("%s ripostes!", actor.Name)
	res := s.strike(actor, target, kind, area, s.combat.CounterHitBonus, s.combat.CounterDamage)
	actor.LastAction = "attack:" + res.Kind
	s.counter.lastActor = actor.Side()

	switch {
	case !res.missed():
		if resume := s.closeCounter(); resume != nil {
			resume()
		}
	case s.counter.chain >= s.combat.MaxCounterChain:
		s.closeCounter()
		s.emit("The exchange runs its course and both sides disengage.")
		s.enterResolution()
	default:
		s.nextRiposte()
	}
}

// abortCounter closes the window because a participant is down and resumes
// the interrupted phase.
func (s *Session) abortCounter() {
	s.logger.Debug("counter window aborted")
	if resume := s.closeCounter(); resume != nil {
		resume()
	}
}

// closeCounter resets the window, drops any riposte still queued, and returns
// the continuation of the interrupted phase.
func (s *Session) closeCounter() func() {
	resume := s.counter.resume
	s.logger.Debug("counter window closed", zap.Int("chain", s.counter.chain))
	s.counter = counterWindow{}
	s.epoch++
	return resume
}
