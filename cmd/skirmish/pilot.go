package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/equipment"
	"github.com/cory-johannsen/skirmish/internal/game/resolve"
)

// fleeThreshold is the flee chance at which a badly hurt pilot stops fighting.
const fleeThreshold = 0.5

// pilot plays the player's side of a battle with the same decision engine
// the AI units use.
type pilot struct {
	brain     *ai.Engine
	lowHealth float64
	logger    *zap.Logger
}

// newPilot builds a pilot with its own resolver and roller so its draws do not
// perturb the session's random stream.
//
// Precondition: src must be non-nil.
func newPilot(cfg config.Config, gear equipment.Provider, src dice.Source, hooks ai.WeightHook, logger *zap.Logger) *pilot {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("pilot")
	roller := dice.NewLoggedRoller(src, logger.Named("dice"))
	resolver := resolve.New(cfg.Combat, gear, roller)
	return &pilot{
		brain:     ai.NewEngine(cfg.AI, resolver, roller, hooks, logger),
		lowHealth: cfg.AI.LowHealth,
		logger:    logger,
	}
}

// act issues the player's next command, if the session is waiting for one.
//
// Precondition: s must be active.
// Postcondition: Returns a non-nil error only when every command tried was rejected.
func (p *pilot) act(s *combat.Session) error {
	if s.Counter().AwaitingPlayer {
		return s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionCounter})
	}
	if !s.AwaitingPlayer() {
		return nil
	}

	player := s.Player()
	if player.HealthPercent() < p.lowHealth && s.FleeChance() >= fleeThreshold {
		return s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionFlee})
	}

	enemies := s.Enemies()
	i := ai.ChooseTarget(enemies)
	if i < 0 {
		return nil
	}
	if i != s.ActiveEnemyIndex() {
		if err := s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionSelectEnemy, Enemy: i}); err != nil {
			return err
		}
	}
	target := enemies[i]

	d := p.brain.Decide(ai.Situation{Self: player, Opponent: target, Distance: target.Distance})
	action := toAction(d)
	p.logger.Debug("pilot decided",
		zap.String("action", string(action.Kind)),
		zap.String("key", d.Key()),
		zap.String("target", target.Name),
	)
	err := s.HandlePlayerAction(action)
	if errors.Is(err, combat.ErrActionRejected) && action.Kind != combat.ActionAttack {
		return s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionAttack})
	}
	return err
}

// toAction maps an AI decision onto the player's command set.
func toAction(d ai.Decision) combat.PlayerAction {
	switch d.Type {
	case ai.ActionDistance:
		return combat.PlayerAction{Kind: combat.ActionChangeDistance, Delta: d.Delta}
	case ai.ActionStance:
		return combat.PlayerAction{Kind: combat.ActionChangeStance, Stance: d.Stance}
	default:
		return combat.PlayerAction{Kind: combat.ActionAttack, AttackKind: d.Kind, Area: d.Area}
	}
}
