package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
)

// ActionKind names a player action.
type ActionKind string

const (
	// ActionChangeDistance moves the selected enemy one bucket closer (-1) or farther (+1). Consumes the turn.
	ActionChangeDistance ActionKind = "change_distance"
	// ActionChangeStance adopts a new stance. Consumes the turn.
	ActionChangeStance ActionKind = "change_stance"
	// ActionChangeTarget sets the default target area. Free.
	ActionChangeTarget ActionKind = "change_target"
	// ActionSelectEnemy selects which enemy the player's actions address. Free.
	ActionSelectEnemy ActionKind = "select_enemy"
	// ActionAttack attacks the selected enemy. Consumes the turn.
	ActionAttack ActionKind = "attack"
	// ActionCounter ripostes while the counter window waits on the player.
	ActionCounter ActionKind = "counter"
	// ActionFlee attempts to leave the fight. Consumes the turn.
	ActionFlee ActionKind = "flee"
)

// PlayerAction is one command from the player. Only the fields relevant to
// Kind are read.
type PlayerAction struct {
	Kind   ActionKind
	Delta  int
	Stance combatant.Stance
	// Area overrides the target area for a single attack or riposte when set.
	Area  combatant.Area
	Enemy int
	// AttackKind names the attack; empty means the player's default kind.
	AttackKind string
}

// HandlePlayerAction applies a player command. Turn-consuming actions are
// announced immediately and resolved by a queued task after the action delay.
//
// Precondition: the session must be active; calling it after the battle ended panics.
// Postcondition: Returns an error wrapping ErrActionRejected, with state
// unchanged, when the action is not allowed right now.
func (s *Session) HandlePlayerAction(a PlayerAction) error {
	if !s.active {
		panic("combat: HandlePlayerAction called on an ended session")
	}
	switch a.Kind {
	case ActionChangeTarget:
		return s.changeTarget(a.Area)
	case ActionSelectEnemy:
		return s.selectEnemy(a.Enemy)
	case ActionCounter:
		return s.playerRiposte(a)
	}

	if s.counter.open {
		return s.reject("A counter exchange is under way.")
	}
	if s.phase != PhasePlayer || !s.awaitingPlayer || s.inFlight != "" {
		return s.reject("It is not your turn.")
	}

	switch a.Kind {
	case ActionChangeDistance:
		return s.playerMove(a.Delta)
	case ActionChangeStance:
		return s.playerStance(a.Stance)
	case ActionAttack:
		return s.playerAttack(a)
	case ActionFlee:
		return s.playerFlee()
	default:
		return s.reject(fmt.Sprintf("Unknown action %q.", a.Kind))
	}
}

func (s *Session) reject(msg string) error {
	s.emit("%s", msg)
	s.logger.Debug("player action rejected", zap.String("reason", msg))
	return fmt.Errorf("%w: %s", ErrActionRejected, msg)
}

func (s *Session) changeTarget(area combatant.Area) error {
	if !area.Valid() {
		return s.reject(fmt.Sprintf("There is no %q to aim at.", area))
	}
	s.targetArea = area
	s.emit("%s aims for the %s.", s.player.Name, area)
	s.notify()
	return nil
}

func (s *Session) selectEnemy(i int) error {
	if i < 0 || i >= len(s.enemies) {
		return s.reject(fmt.Sprintf("There is no enemy %d.", i))
	}
	if s.enemies[i].IsDefeated() {
		return s.reject(fmt.Sprintf("%s is already down.", s.enemies[i].Name))
	}
	s.activeEnemy = i
	s.emit("%s turns to face %s.", s.player.Name, s.enemies[i].Name)
	s.notify()
	return nil
}

// selected returns the player's live target, or nil.
func (s *Session) selected() *combatant.Combatant {
	if s.activeEnemy < 0 || s.activeEnemy >= len(s.enemies) {
		return nil
	}
	if e := s.enemies[s.activeEnemy]; e.IsAlive() {
		return e
	}
	return nil
}

// startTurn announces a turn-consuming action and queues apply.
func (s *Session) startTurn(name string, apply func()) error {
	token := s.begin()
	s.awaitingPlayer = false
	s.schedule(msDelay(s.cfg.ActionDelayMs), "player:"+name, func() {
		if !s.settle(token) {
			return
		}
		apply()
	})
	s.notify()
	return nil
}

func (s *Session) playerMove(delta int) error {
	if delta != -1 && delta != 1 {
		return s.reject("You can only step one range band at a time.")
	}
	target := s.selected()
	if target == nil {
		return s.reject("You have no target to move against.")
	}
	if next := target.Distance + combatant.Distance(delta); next != next.Clamp() {
		return s.reject(fmt.Sprintf("You cannot move any further from %s.", target.Name))
	}
	if delta < 0 {
		s.emit("%s closes on %s.", s.player.Name, target.Name)
	} else {
		s.emit("%s backs away from %s.", s.player.Name, target.Name)
	}
	return s.startTurn("move", func() {
		if target.IsAlive() {
			target.Step(delta)
			s.emit("%s is now at %s range.", target.Name, target.Distance)
		}
		if delta < 0 {
			s.player.LastAction = "distance:closer"
		} else {
			s.player.LastAction = "distance:away"
		}
		s.endPlayerTurn()
	})
}

func (s *Session) playerStance(st combatant.Stance) error {
	if !st.Valid() {
		return s.reject(fmt.Sprintf("%q is not a stance.", st))
	}
	if st == s.player.Stance {
		return s.reject(fmt.Sprintf("You are already %s.", st))
	}
	s.emit("%s shifts into a %s stance.", s.player.Name, st)
	return s.startTurn("stance", func() {
		s.player.Stance = st
		s.player.LastAction = "stance:" + string(st)
		s.endPlayerTurn()
	})
}

func (s *Session) playerAttack(a PlayerAction) error {
	target := s.selected()
	if target == nil {
		return s.reject("You have no living target.")
	}
	kind := a.AttackKind
	if kind == "" {
		kind = s.resolver.DefaultKind(s.player)
	}
	if _, ok := s.resolver.Kind(kind); !ok {
		return s.reject(fmt.Sprintf("You do not know how to %s.", kind))
	}
	area := s.targetArea
	if a.Area != "" {
		if !a.Area.Valid() {
			return s.reject(fmt.Sprintf("There is no %q to aim at.", a.Area))
		}
		area = a.Area
	}
	s.emit("%s readies a %s at %s's %s.", s.player.Name, kind, target.Name, area)
	return s.startTurn("attack", func() {
		if target.IsDefeated() {
			s.emit("%s is already down.", target.Name)
			s.endPlayerTurn()
			return
		}
		s.exchange(s.player, target, kind, area, s.endPlayerTurn)
	})
}

// FleeChance is the probability that a flee attempt succeeds right now:
// the base chance plus a bonus per bucket to the nearest living enemy, capped at 0.95.
func (s *Session) FleeChance() float64 {
	nearest := combatant.MaxDistance
	for _, e := range combatant.Living(s.enemies) {
		nearest = min(nearest, e.Distance)
	}
	p := s.cfg.FleeBase + s.cfg.FleePerDistance*float64(nearest)
	return min(max(p, 0), 0.95)
}

func (s *Session) playerFlee() error {
	s.emit("%s looks for a way out.", s.player.Name)
	return s.startTurn("flee", func() {
		if s.roll.Chance("flee", s.FleeChance()) {
			s.endCombat(Retreat)
			return
		}
		s.emit("%s cannot break away.", s.player.Name)
		s.player.LastAction = "flee"
		s.endPlayerTurn()
	})
}

// playerRiposte answers an open counter window that is waiting on the player.
func (s *Session) playerRiposte(a PlayerAction) error {
	if !s.counter.open || !s.counter.awaitingPlayer || s.inFlight != "" {
		return s.reject("There is no opening to riposte.")
	}
	target := s.counter.attacker
	if target == s.player {
		target = s.counter.defender
	}
	kind := a.AttackKind
	if kind == "" {
		kind = s.resolver.DefaultKind(s.player)
	}
	if _, ok := s.resolver.Kind(kind); !ok {
		return s.reject(fmt.Sprintf("You do not know how to %s.", kind))
	}
	area := s.targetArea
	if a.Area.Valid() {
		area = a.Area
	}
	token := s.begin()
	s.counter.awaitingPlayer = false
	s.schedule(msDelay(s.cfg.CounterDelayMs), "riposte:"+s.player.Name, func() {
		if !s.settle(token) {
			return
		}
		s.riposte(s.player, target, kind, area)
	})
	s.notify()
	return nil
}
