package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

func TestCounter_ChainLimitDisengagesToResolution(t *testing.T) {
	s, rec := start(t, setup{cfg: forced(false, true), enemies: []string{"brute"}})
	s.RunUntilIdle()

	require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionAttack}))
	require.True(t, s.Tick())
	c := s.Counter()
	require.True(t, c.Open)
	assert.Equal(t, 0, c.Chain)
	assert.Equal(t, 4, c.MaxChain)
	assert.Equal(t, combatant.SidePlayer, c.LastActor)
	assert.False(t, c.AwaitingPlayer)

	require.True(t, s.Tick())
	c = s.Counter()
	assert.Equal(t, 1, c.Chain)
	assert.Equal(t, combatant.SideEnemy, c.LastActor)
	assert.True(t, c.AwaitingPlayer)
	assert.True(t, s.AwaitingPlayer())

	err := s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionAttack})
	assert.ErrorIs(t, err, combat.ErrActionRejected)

	require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionCounter}))
	require.True(t, s.Tick())
	assert.Equal(t, 2, s.Counter().Chain)
	require.True(t, s.Tick())
	assert.Equal(t, 3, s.Counter().Chain)
	require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionCounter}))
	require.True(t, s.Tick())

	c = s.Counter()
	assert.False(t, c.Open)
	assert.Equal(t, combatant.SideNone, c.LastActor)
	assert.Equal(t, 0, c.Chain)
	assert.True(t, rec.said("disengage"))
	assert.Equal(t, []combat.Phase{
		combat.PhaseInitial, combat.PhasePlayer, combat.PhaseResolution, combat.PhasePlayer,
	}, s.PhaseHistory())
	assert.Equal(t, 2, s.Turn())
}

func TestCounter_HitClosesWindowAndResumesPhase(t *testing.T) {
	cfg := config.Defaults()
	cfg.Combat.CounterBase = 1
	cfg.Combat.CounterMaxChance = 1
	// player's hit roll misses, the counter roll succeeds, the riposte hits
	src := testutil.NewScriptedSource(0.99, 0.5, 0.0)
	s, _ := start(t, setup{cfg: cfg, enemies: []string{"brute"}, src: src})
	s.RunUntilIdle()

	require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionAttack}))
	require.True(t, s.Tick())
	require.True(t, s.Counter().Open)
	require.True(t, s.Tick())

	testutil.AssertDrained(t, src)
	c := s.Counter()
	assert.False(t, c.Open)
	assert.Equal(t, 0, c.Chain)
	assert.Equal(t, combatant.SideNone, c.LastActor)
	assert.Less(t, s.Player().Health, s.Player().MaxHealth)
	assert.Equal(t, combat.PhaseEnemy, s.Phase())
}

func TestCounter_RangedDefaultRiposteFallsBackToMelee(t *testing.T) {
	s, rec := start(t, setup{cfg: forced(false, true), enemies: []string{"thrower"}})
	s.RunUntilIdle()

	require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionAttack}))
	require.True(t, s.Tick())
	require.True(t, s.Counter().Open)
	require.True(t, s.Tick())

	assert.True(t, rec.said("Thrower cannot javelin at close range and uses slash instead"))
	assert.True(t, rec.said("Thrower's slash misses Hero"))
	assert.Equal(t, combatant.SideEnemy, s.Counter().LastActor)
}

func TestCounter_RiposteKillsPlayerBeforeAllies(t *testing.T) {
	cfg := config.Defaults()
	cfg.Combat.CounterBase = 1
	cfg.Combat.CounterMaxChance = 1
	// player's hit roll misses, the counter roll succeeds, the riposte hits
	src := testutil.NewScriptedSource(0.99, 0.5, 0.0)
	p := hero(30)
	p.Health = 1
	s, rec := start(t, setup{cfg: cfg, enemies: []string{"brute"}, allies: []string{"squire"}, player: p, src: src})
	s.RunUntilIdle()

	require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionAttack}))
	s.RunUntilIdle()

	require.True(t, p.IsDefeated())
	assert.False(t, s.Active())
	assert.Equal(t, combat.Defeat, s.Outcome())
	assert.Equal(t, []combat.Phase{
		combat.PhaseInitial, combat.PhasePlayer, combat.PhaseAlly, combat.PhaseEnemy, combat.PhaseResolution,
	}, s.PhaseHistory())
	assert.False(t, rec.said("Squire readies"))
	assert.False(t, rec.said("Brute readies"))
}

func TestCounter_DeadParticipantAborts(t *testing.T) {
	s, _ := start(t, setup{cfg: forced(false, true), enemies: []string{"brute"}})
	s.RunUntilIdle()

	require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionAttack}))
	s.Tick()
	s.Tick()
	require.True(t, s.Counter().AwaitingPlayer)

	s.Enemies()[0].Health = 0
	require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionCounter}))
	s.RunUntilIdle()

	assert.False(t, s.Counter().Open)
	assert.Equal(t, combat.Victory, s.Outcome())
}

func TestCounter_AIExchangeNeedsNoPlayer(t *testing.T) {
	s, _ := start(t, setup{cfg: forced(false, true), enemies: []string{"brute"}, allies: []string{"squire"}})
	s.RunUntilIdle()

	require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionChangeStance, Stance: combatant.StanceAggressive}))
	s.RunUntilIdle()

	assert.Equal(t, []combat.Phase{
		combat.PhaseInitial, combat.PhasePlayer, combat.PhaseAlly, combat.PhaseResolution, combat.PhasePlayer,
	}, s.PhaseHistory())
	assert.False(t, s.Counter().Open)
	assert.True(t, s.AwaitingPlayer())
}

func TestCounter_PlayerDefendsDuringEnemyPhase(t *testing.T) {
	s, _ := start(t, setup{cfg: forced(false, true), enemies: []string{"brute"}})
	s.RunUntilIdle()

	require.NoError(t, s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionChangeStance, Stance: combatant.StanceDefensive}))
	s.RunUntilIdle()

	c := s.Counter()
	require.True(t, c.Open)
	assert.True(t, c.AwaitingPlayer)
	assert.Equal(t, combatant.SideEnemy, c.LastActor)
	assert.Equal(t, combat.PhaseEnemy, s.Phase())

	drive(t, s)
	assert.False(t, s.Counter().Open)
	assert.Equal(t, 2, s.Turn())
	assert.Equal(t, combat.PhasePlayer, s.Phase())
}

func TestCounter_RiposteWithoutOpeningRejected(t *testing.T) {
	s, rec := start(t, setup{cfg: forced(false, false), enemies: []string{"brute"}})
	s.RunUntilIdle()
	err := s.HandlePlayerAction(combat.PlayerAction{Kind: combat.ActionCounter})
	assert.ErrorIs(t, err, combat.ErrActionRejected)
	assert.True(t, rec.said("no opening"))
}
