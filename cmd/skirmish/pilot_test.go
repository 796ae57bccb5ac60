package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
)

type transcript []string

func (t *transcript) Emit(m string) { *t = append(*t, m) }

func (t transcript) said(fragment string) bool {
	for _, l := range t {
		if strings.Contains(l, fragment) {
			return true
		}
	}
	return false
}

func battle(t *testing.T, cfg config.Config, enemies []string, player *combatant.Combatant, seed int64) (*combat.Session, *transcript) {
	t.Helper()
	reg := npc.NewRegistry(zap.NewNop())
	require.NoError(t, reg.Register(&npc.Template{ID: "bandit", Name: "Bandit", MaxHealth: 12, Power: 2, Distance: combatant.Close}))
	require.NoError(t, reg.Register(&npc.Template{ID: "lookout", Name: "Lookout", MaxHealth: 8, Distance: combatant.Far}))
	out := &transcript{}
	s := combat.InitiateCombat(enemies, nil, combat.Options{
		Session:   cfg.Session,
		Combat:    cfg.Combat,
		AI:        cfg.AI,
		Templates: reg,
		Player:    player,
		Source:    dice.NewSeededSource(seed),
		Seed:      seed,
		Narrator:  out,
		Logger:    zap.NewNop(),
	})
	return s, out
}

func wanderer(health int) *combatant.Combatant {
	p := combatant.New(combatant.KindPlayer, "Wanderer", health)
	p.Skills.Melee = 3
	return p
}

func TestToAction(t *testing.T) {
	tests := []struct {
		name string
		in   ai.Decision
		want combat.PlayerAction
	}{
		{"closer", ai.Decision{Type: ai.ActionDistance, Delta: -1}, combat.PlayerAction{Kind: combat.ActionChangeDistance, Delta: -1}},
		{"stance", ai.Decision{Type: ai.ActionStance, Stance: combatant.StanceDefensive}, combat.PlayerAction{Kind: combat.ActionChangeStance, Stance: combatant.StanceDefensive}},
		{"attack", ai.Decision{Type: ai.ActionAttack, Kind: "stab", Area: combatant.AreaBody}, combat.PlayerAction{Kind: combat.ActionAttack, AttackKind: "stab", Area: combatant.AreaBody}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, toAction(tc.in))
		})
	}
}

func TestSplitIDs(t *testing.T) {
	assert.Equal(t, []string{"bandit", "archer"}, splitIDs(" bandit, ,archer,"))
	assert.Empty(t, splitIDs(""))
}

func TestFight_RunsBattleToOutcome(t *testing.T) {
	cfg := config.Defaults()
	cfg.Session.MaxTurns = 10
	for seed := int64(1); seed <= 5; seed++ {
		s, out := battle(t, cfg, []string{"bandit", "bandit"}, wanderer(30), seed)
		p := newPilot(cfg, nil, dice.NewSeededSource(seed+pilotSeedOffset), nil, zap.NewNop())

		require.NoError(t, fight(context.Background(), s, combat.InstantPacer{}, p), "seed %d", seed)
		assert.False(t, s.Active())
		assert.NotEqual(t, combat.OutcomeNone, s.Outcome())
		assert.LessOrEqual(t, s.Turn(), cfg.Session.MaxTurns)
		assert.True(t, out.said("faces"))
	}
}

func TestFight_CancelledContext(t *testing.T) {
	cfg := config.Defaults()
	s, _ := battle(t, cfg, []string{"bandit"}, wanderer(30), 7)
	p := newPilot(cfg, nil, dice.NewSeededSource(7), nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := fight(ctx, s, combat.RealPacer{}, p)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, s.Active())
}

func TestPilot_SelectsWeakestEnemy(t *testing.T) {
	cfg := config.Defaults()
	s, _ := battle(t, cfg, []string{"bandit", "lookout"}, wanderer(30), 3)
	s.RunUntilIdle()
	require.True(t, s.AwaitingPlayer())

	p := newPilot(cfg, nil, dice.NewSeededSource(3), nil, zap.NewNop())
	require.NoError(t, p.act(s))
	assert.Equal(t, 1, s.ActiveEnemyIndex())
	assert.False(t, s.AwaitingPlayer())
	assert.Positive(t, s.Pending())
}

func TestPilot_FleesWhenBadlyHurt(t *testing.T) {
	cfg := config.Defaults()
	player := wanderer(30)
	player.Health = 2
	s, out := battle(t, cfg, []string{"lookout"}, player, 4)
	s.RunUntilIdle()

	p := newPilot(cfg, nil, dice.NewSeededSource(4), nil, zap.NewNop())
	require.NoError(t, p.act(s))
	assert.True(t, out.said("looks for a way out"))
}

func TestPilot_AnswersCounterWindow(t *testing.T) {
	cfg := config.Defaults()
	cfg.Combat.MinHitChance = 0
	cfg.Combat.MaxHitChance = 0
	cfg.Combat.CounterBase = 1
	cfg.Combat.CounterMaxChance = 1
	s, _ := battle(t, cfg, []string{"bandit"}, wanderer(30), 5)
	s.RunUntilIdle()

	require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionAttack}))
	require.True(t, s.Tick())
	require.True(t, s.Tick())
	require.True(t, s.Counter().AwaitingPlayer)

	p := newPilot(cfg, nil, dice.NewSeededSource(5), nil, zap.NewNop())
	require.NoError(t, p.act(s))
	assert.False(t, s.Counter().AwaitingPlayer)
	assert.True(t, s.Counter().Open)
}

func TestPilot_IdleWhenNotAwaited(t *testing.T) {
	cfg := config.Defaults()
	s, _ := battle(t, cfg, []string{"bandit"}, wanderer(30), 6)
	p := newPilot(cfg, nil, dice.NewSeededSource(6), nil, zap.NewNop())

	require.NoError(t, p.act(s))
	assert.Equal(t, combat.PhaseInitial, s.Phase())
	assert.Equal(t, 1, s.Pending())
}
