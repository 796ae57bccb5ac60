package combat

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/equipment"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/resolve"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

// Outfitter equips a freshly spawned combatant from its loadout.
// *equipment.Armory implements it.
type Outfitter interface {
	Outfit(c *combatant.Combatant)
}

// Options configures InitiateCombat. Zero-valued collaborators fall back to
// no-op or default implementations.
type Options struct {
	Session config.SessionConfig
	Combat  config.CombatConfig
	AI      config.AIConfig

	// Templates resolves enemy and ally IDs. A nil registry spawns fallback combatants.
	Templates *npc.Registry
	// Player is the player's combatant; nil spawns the "player" template.
	Player *combatant.Combatant
	// Gear supplies equipment. When it also implements Outfitter every
	// spawned combatant is equipped from its loadout.
	Gear equipment.Provider
	// Source drives every random draw; nil uses the crypto source.
	Source dice.Source
	// Seed is recorded in the session logger only.
	Seed  int64
	Hooks ai.WeightHook

	Narrator Narrator
	Observer Observer
	Rewards  RewardResolver
	Logger   *zap.Logger
}

// Session is one battle. It is driven by Tick, RunUntilIdle or Run and by
// HandlePlayerAction, and is not safe for concurrent use.
type Session struct {
	id       string
	cfg      config.SessionConfig
	combat   config.CombatConfig
	logger   *zap.Logger
	roll     *dice.Roller
	resolver *resolve.Resolver
	brain    *ai.Engine
	narrator Narrator
	observer Observer
	rewards  RewardResolver

	player  *combatant.Combatant
	allies  []*combatant.Combatant
	enemies []*combatant.Combatant

	active         bool
	outcome        Outcome
	phase          Phase
	history        []Phase
	turn           int
	awaitingPlayer bool
	activeEnemy    int
	// actingEnemy is the enemy whose turn is running, -1 outside the enemy phase.
	actingEnemy int
	targetArea  combatant.Area
	counter     counterWindow
	// inFlight is the token of the action announced but not yet applied.
	inFlight string

	queue taskQueue
	epoch uint64
}

// InitiateCombat spawns the rosters and schedules the opening of the first
// player phase after the intro delay.
//
// Precondition: opts.Combat must have passed validation.
// Postcondition: The returned session is active, in PhaseInitial, on turn 1.
func InitiateCombat(enemyIDs, allyIDs []string, opts Options) *Session {
	id := uuid.NewString()
	base := opts.Logger
	if base == nil {
		base = zap.NewNop()
	}
	logger := observability.ForSession(base, id, opts.Seed)

	src := opts.Source
	if src == nil {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger.Named("dice"))
	resolver := resolve.New(opts.Combat, opts.Gear, roller)

	reg := opts.Templates
	if reg == nil {
		reg = npc.NewRegistry(logger)
	}
	outfit := func(*combatant.Combatant) {}
	if o, ok := opts.Gear.(Outfitter); ok {
		outfit = o.Outfit
	}

	player := opts.Player
	if player == nil {
		player = reg.Spawn("player", combatant.KindPlayer)
		outfit(player)
	}
	spawn := func(ids []string, kind combatant.Kind) []*combatant.Combatant {
		out := make([]*combatant.Combatant, 0, len(ids))
		for _, tid := range ids {
			c := reg.Spawn(tid, kind)
			outfit(c)
			out = append(out, c)
		}
		return out
	}

	s := &Session{
		id:          id,
		cfg:         opts.Session,
		combat:      opts.Combat,
		logger:      logger,
		roll:        roller,
		resolver:    resolver,
		brain:       ai.NewEngine(opts.AI, resolver, roller, opts.Hooks, logger),
		narrator:    opts.Narrator,
		observer:    opts.Observer,
		rewards:     opts.Rewards,
		player:      player,
		enemies:     spawn(enemyIDs, combatant.KindEnemy),
		allies:      spawn(allyIDs, combatant.KindAlly),
		active:      true,
		phase:       PhaseInitial,
		history:     []Phase{PhaseInitial},
		turn:        1,
		actingEnemy: -1,
		targetArea:  combatant.AreaBody,
	}
	if s.narrator == nil {
		s.narrator = nopNarrator{}
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}

	logger.Info("combat started",
		zap.String("player", player.Name),
		zap.Int("enemies", len(s.enemies)),
		zap.Int("allies", len(s.allies)),
		zap.Int("max_turns", s.cfg.MaxTurns),
		zap.Bool("require_defeat", s.cfg.RequireDefeat),
	)
	s.emit("%s faces %s.", player.Name, rosterNames(s.enemies))
	if len(s.allies) > 0 {
		s.emit("Fighting alongside: %s.", rosterNames(s.allies))
	}
	s.schedule(msDelay(s.cfg.IntroDelayMs), "intro", s.enterPlayer)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Active reports whether the battle is still running.
func (s *Session) Active() bool { return s.active }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// PhaseHistory returns every phase entered so far, starting with PhaseInitial.
func (s *Session) PhaseHistory() []Phase { return append([]Phase(nil), s.history...) }

// Turn returns the current turn number, starting at 1.
func (s *Session) Turn() int { return s.turn }

// Outcome returns how the battle ended, or OutcomeNone while it is active.
func (s *Session) Outcome() Outcome { return s.outcome }

// Player returns the player's combatant.
func (s *Session) Player() *combatant.Combatant { return s.player }

// PlayerStance returns the player's current stance.
func (s *Session) PlayerStance() combatant.Stance { return s.player.Stance }

// Enemies returns the enemy roster in order.
func (s *Session) Enemies() []*combatant.Combatant { return append([]*combatant.Combatant(nil), s.enemies...) }

// Allies returns the ally roster in order.
func (s *Session) Allies() []*combatant.Combatant { return append([]*combatant.Combatant(nil), s.allies...) }

// ActiveEnemyIndex returns the index of the player's selected enemy.
func (s *Session) ActiveEnemyIndex() int { return s.activeEnemy }

// TargetArea returns the area the player's attacks aim at by default.
func (s *Session) TargetArea() combatant.Area { return s.targetArea }

// Distances returns each enemy's distance from the player, in roster order.
func (s *Session) Distances() []combatant.Distance {
	out := make([]combatant.Distance, len(s.enemies))
	for i, e := range s.enemies {
		out[i] = e.Distance
	}
	return out
}

// AwaitingPlayer reports whether the session is blocked on a player action,
// either a regular turn or a riposte.
func (s *Session) AwaitingPlayer() bool {
	return s.active && s.inFlight == "" && (s.awaitingPlayer || s.counter.awaitingPlayer)
}

// CheckOutcome evaluates the terminal conditions without changing any state.
// Victory takes precedence over defeat; a draw is declared only when neither
// resolved and the turn limit applies.
func (s *Session) CheckOutcome() Outcome {
	if combatant.AllDefeated(s.enemies) {
		return Victory
	}
	if s.player.IsDefeated() {
		return Defeat
	}
	if !s.cfg.RequireDefeat && s.cfg.MaxTurns > 0 && s.turn >= s.cfg.MaxTurns {
		return Draw
	}
	return OutcomeNone
}

// endCombat finalizes the battle once; later calls are ignored.
func (s *Session) endCombat(o Outcome) {
	if !s.active {
		return
	}
	s.active = false
	s.outcome = o
	s.awaitingPlayer = false
	s.inFlight = ""
	s.counter = counterWindow{}
	s.epoch++

	s.logger.Info("combat ended",
		zap.Stringer("outcome", o),
		zap.Int("turn", s.turn),
		zap.Int("player_health", s.player.Health),
	)
	switch o {
	case Victory:
		s.emit("Victory! Every foe has fallen.")
	case Defeat:
		s.emit("Defeat. %s has fallen.", s.player.Name)
	case Draw:
		s.emit("Both sides pull back after %d turns. The fight is a draw.", s.turn)
	case Retreat:
		s.emit("%s escapes the fight.", s.player.Name)
	}
	if s.rewards != nil {
		s.rewards.Resolve(Settlement{
			SessionID: s.id,
			Outcome:   o,
			Turns:     s.turn,
			Player:    s.player,
			Allies:    s.Allies(),
			Enemies:   s.Enemies(),
		})
	}
	s.notify()
}

func (s *Session) emit(format string, args ...any) {
	s.narrator.Emit(fmt.Sprintf(format, args...))
}

func (s *Session) notify() { s.observer.NotifyStateChanged() }

func msDelay(ms int) time.Duration {
	return time.Duration(max(ms, 0)) * time.Millisecond
}

func rosterNames(roster []*combatant.Combatant) string {
	if len(roster) == 0 {
		return "no one"
	}
	names := make([]string, len(roster))
	for i, c := range roster {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}
