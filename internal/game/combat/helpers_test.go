package combat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/equipment"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

type recorder struct {
	lines       []string
	settlements []combat.Settlement
	notified    int
}

func (r *recorder) Emit(m string) { r.lines = append(r.lines, m) }

func (r *recorder) NotifyStateChanged() { r.notified++ }

func (r *recorder) Resolve(s combat.Settlement) { r.settlements = append(r.settlements, s) }

func (r *recorder) said(fragment string) bool {
	for _, l := range r.lines {
		if strings.Contains(l, fragment) {
			return true
		}
	}
	return false
}

// forced returns a configuration where every attack hits (or misses), the
// counter roll always (or never) succeeds, and AI units always attack.
func forced(hit, counter bool) config.Config {
	cfg := config.Defaults()
	chance := 0.0
	if hit {
		chance = 100
	}
	cfg.Combat.MinHitChance = chance
	cfg.Combat.MaxHitChance = chance
	if counter {
		cfg.Combat.CounterBase = 1
		cfg.Combat.CounterMaxChance = 1
	} else {
		cfg.Combat.CounterBase = 0
		cfg.Combat.CounterPerSkill = 0
		cfg.Combat.CounterDefensive = 0
	}
	cfg.AI.DistanceWeight = 0
	cfg.AI.StanceWeight = 0
	cfg.AI.DeviationWeight = 0
	cfg.AI.CounterStanceWeight = 0
	cfg.AI.LowHealthCaution = 0
	cfg.Session.EnemyTargetsAllyChance = 0
	return cfg
}

func registry(t *testing.T) *npc.Registry {
	t.Helper()
	reg := npc.NewRegistry(zap.NewNop())
	require.NoError(t, reg.Register(&npc.Template{ID: "grunt", Name: "Grunt", MaxHealth: 10, Distance: combatant.Close}))
	require.NoError(t, reg.Register(&npc.Template{ID: "brute", Name: "Brute", MaxHealth: 40, Distance: combatant.Close}))
	require.NoError(t, reg.Register(&npc.Template{
		ID: "shieldman", Name: "Shieldman", MaxHealth: 20, Distance: combatant.Close,
		Loadout: combatant.Loadout{Shield: "tower"},
	}))
	require.NoError(t, reg.Register(&npc.Template{ID: "squire", Name: "Squire", MaxHealth: 12, Distance: combatant.Close}))
	require.NoError(t, reg.Register(&npc.Template{
		ID: "thrower", Name: "Thrower", MaxHealth: 20, Distance: combatant.Close,
		Behavior: &combatant.Behavior{PreferredDistance: combatant.Close, DefaultAttack: "javelin"},
	}))
	return reg
}

func armory(t *testing.T) *equipment.Armory {
	t.Helper()
	a, err := equipment.NewArmory([]*equipment.Def{
		{ID: "tower", Name: "Tower Shield", Slot: equipment.SlotShield, BlockChance: 100, Durability: 20},
		{ID: "buckler", Name: "Buckler", Slot: equipment.SlotShield, BlockChance: 0, Durability: 20},
	}, zap.NewNop())
	require.NoError(t, err)
	return a
}

func hero(health int) *combatant.Combatant {
	p := combatant.New(combatant.KindPlayer, "Hero", health)
	p.Skills.Melee = 4
	return p
}

type setup struct {
	cfg     config.Config
	enemies []string
	allies  []string
	player  *combatant.Combatant
	gear    equipment.Provider
	src     dice.Source
}

func start(t *testing.T, s setup) (*combat.Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	if s.player == nil {
		s.player = hero(30)
	}
	if s.src == nil {
		s.src = testutil.ConstSource(0.5)
	}
	sess := combat.InitiateCombat(s.enemies, s.allies, combat.Options{
		Session:   s.cfg.Session,
		Combat:    s.cfg.Combat,
		AI:        s.cfg.AI,
		Templates: registry(t),
		Player:    s.player,
		Gear:      s.gear,
		Source:    s.src,
		Narrator:  rec,
		Observer:  rec,
		Rewards:   rec,
		Logger:    zap.NewNop(),
	})
	return sess, rec
}

// drive runs the session until it needs the player, answering every riposte
// opportunity with the counter action.
func drive(t *testing.T, s *combat.Session) {
	t.Helper()
	for {
		s.RunUntilIdle()
		if !s.Active() || !s.Counter().AwaitingPlayer {
			return
		}
		require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionCounter}))
	}
}
