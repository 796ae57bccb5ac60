package combat

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/condition"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// transition moves to the next phase.
//
// Precondition: the move must be an edge of the phase graph; anything else panics.
func (s *Session) transition(to Phase) {
	if !ValidTransition(s.phase, to) {
		panic(fmt.Sprintf("combat: invalid phase transition %s -> %s", s.phase, to))
	}
	s.logger.Debug("phase transition",
		zap.Stringer("from", s.phase),
		zap.Stringer("to", to),
		zap.Int("turn", s.turn),
	)
	s.phase = to
	s.history = append(s.history, to)
	s.notify()
}

func (s *Session) enterPlayer() {
	s.transition(PhasePlayer)
	if s.restricted(s.player, s.endPlayerTurn) {
		return
	}
	s.awaitingPlayer = true
	s.emit("Turn %d. %s is %s and %s.", s.turn, s.player.Name, s.player.Stance, s.player.HealthDescription())
}

func (s *Session) endPlayerTurn() {
	s.awaitingPlayer = false
	if len(s.allies) > 0 {
		s.enterAlly()
		return
	}
	s.enterEnemy()
}

func (s *Session) enterAlly() {
	s.transition(PhaseAlly)
	s.allyTurn(0)
}

// allyTurn runs the turn of the i-th ally, skipping defeated allies without
// delay. Once the player or every enemy is down the remaining allies stand aside.
func (s *Session) allyTurn(i int) {
	for i < len(s.allies) && s.allies[i].IsDefeated() {
		i++
	}
	if i >= len(s.allies) || s.player.IsDefeated() || combatant.AllDefeated(s.enemies) {
		s.enterEnemy()
		return
	}
	ally := s.allies[i]
	next := func() { s.allyTurn(i + 1) }
	if s.restricted(ally, next) {
		return
	}
	target := s.enemies[ai.ChooseTarget(s.enemies)]
	d := s.brain.Decide(ai.Situation{Self: ally, Opponent: target, Distance: ally.Distance, Targets: s.enemies})
	if d.Target >= 0 {
		target = s.enemies[d.Target]
	}
	s.act(ally, target, d, next)
}

func (s *Session) enterEnemy() {
	s.transition(PhaseEnemy)
	s.enemyTurn(0)
}

// enemyTurn runs the turn of the i-th enemy. The player's selected target is
// left alone; the acting enemy has its own cursor.
func (s *Session) enemyTurn(i int) {
	for i < len(s.enemies) && s.enemies[i].IsDefeated() {
		i++
	}
	if i >= len(s.enemies) || s.player.IsDefeated() {
		s.enterResolution()
		return
	}
	s.actingEnemy = i
	enemy := s.enemies[i]
	next := func() { s.enemyTurn(i + 1) }
	if s.restricted(enemy, next) {
		return
	}
	target := s.enemyTarget()
	d := s.brain.Decide(ai.Situation{Self: enemy, Opponent: target, Distance: s.rangeBetween(enemy, target)})
	s.act(enemy, target, d, next)
}

// enemyTarget picks the player, or with the configured chance a random living ally.
func (s *Session) enemyTarget() *combatant.Combatant {
	living := combatant.Living(s.allies)
	if len(living) == 0 || s.cfg.EnemyTargetsAllyChance <= 0 {
		return s.player
	}
	if s.roll.Chance("enemy:target-ally", s.cfg.EnemyTargetsAllyChance) {
		return living[dice.Intn(s.roll, len(living))]
	}
	return s.player
}

func (s *Session) enterResolution() {
	s.transition(PhaseResolution)
	s.actingEnemy = -1
	s.retarget()
	if o := s.CheckOutcome(); o != OutcomeNone {
		s.endCombat(o)
		return
	}
	s.turn++
	s.enterPlayer()
}

// retarget keeps the player's selection if it still stands, otherwise
// selects the first living enemy, or 0 when none remain.
func (s *Session) retarget() {
	if len(s.enemies) == 0 {
		s.activeEnemy = 0
		return
	}
	if s.activeEnemy >= 0 && s.activeEnemy < len(s.enemies) && s.enemies[s.activeEnemy].IsAlive() {
		return
	}
	s.activeEnemy = 0
	for i, e := range s.enemies {
		if e.IsAlive() {
			s.activeEnemy = i
			return
		}
	}
}

// restricted consumes a stun or knockdown on c's turn. When one applies, the
// turn is spent and next is scheduled after the action delay.
func (s *Session) restricted(c *combatant.Combatant, next func()) bool {
	r, _ := c.Conditions.NextTurn()
	switch r {
	case condition.RestrictSkip:
		s.emit("%s is stunned and loses the turn.", c.Name)
	case condition.RestrictGetUp:
		s.emit("%s spends the turn getting back up.", c.Name)
	default:
		return false
	}
	c.LastAction = ""
	s.schedule(msDelay(s.cfg.ActionDelayMs), "restricted:"+c.Name, next)
	return true
}

// act announces an AI decision and applies it after the action delay.
func (s *Session) act(actor, target *combatant.Combatant, d ai.Decision, next func()) {
	token := s.begin()
	switch d.Type {
	case ai.ActionDistance:
		if d.Delta < 0 {
			s.emit("%s moves in on %s.", actor.Name, target.Name)
		} else {
			s.emit("%s backs away from %s.", actor.Name, target.Name)
		}
	case ai.ActionStance:
		s.emit("%s shifts into a %s stance.", actor.Name, d.Stance)
	case ai.ActionAttack:
		s.emit("%s readies a %s against %s.", actor.Name, d.Kind, target.Name)
	}
	s.schedule(msDelay(s.cfg.ActionDelayMs), "act:"+actor.Name, func() {
		if !s.settle(token) {
			return
		}
		if actor.IsDefeated() {
			next()
			return
		}
		switch d.Type {
		case ai.ActionStance:
			actor.Stance = d.Stance
		case ai.ActionDistance:
			if target.IsDefeated() {
				s.emit("%s has nothing left to close on.", actor.Name)
				next()
				return
			}
			holder := s.rangeHolder(actor, target)
			holder.Step(d.Delta)
			s.emit("%s and %s are now at %s range.", actor.Name, target.Name, holder.Distance)
		case ai.ActionAttack:
			if target.IsDefeated() {
				s.emit("%s finds %s already down.", actor.Name, target.Name)
				next()
				return
			}
			s.exchange(actor, target, d.Kind, d.Area, next)
			return
		}
		actor.LastAction = d.Key()
		next()
	})
}

// begin claims the in-flight token for an announced action.
func (s *Session) begin() string {
	s.inFlight = uuid.NewString()
	return s.inFlight
}

// settle releases token and reports whether it was still the live one.
func (s *Session) settle(token string) bool {
	if s.inFlight != token {
		s.logger.Debug("stale action dropped", zap.String("token", token))
		return false
	}
	s.inFlight = ""
	return true
}

// rangeHolder returns whichever of a and b carries the range between them:
// the non-player when the player is involved, otherwise the ally.
func (s *Session) rangeHolder(a, b *combatant.Combatant) *combatant.Combatant {
	switch {
	case a.Kind == combatant.KindPlayer:
		return b
	case b.Kind == combatant.KindPlayer:
		return a
	case a.Kind == combatant.KindAlly:
		return a
	default:
		return b
	}
}

func (s *Session) rangeBetween(a, b *combatant.Combatant) combatant.Distance {
	return s.rangeHolder(a, b).Distance
}
