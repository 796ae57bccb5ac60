package combat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

func TestRealPacer_WaitsForDelay(t *testing.T) {
	began := time.Now()
	require.NoError(t, combat.RealPacer{}.Wait(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(began), 20*time.Millisecond)
}

func TestRealPacer_Scale(t *testing.T) {
	began := time.Now()
	require.NoError(t, combat.RealPacer{Scale: 0.5}.Wait(context.Background(), 40*time.Millisecond))
	elapsed := time.Since(began)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
}

func TestRealPacer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := combat.RealPacer{}.Wait(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_InstantPacerDrainsQueue(t *testing.T) {
	s, _ := start(t, setup{cfg: config.Defaults(), enemies: []string{"grunt"}})
	require.NoError(t, s.Run(context.Background(), combat.InstantPacer{}))
	assert.Equal(t, combat.PhasePlayer, s.Phase())
	assert.Equal(t, 0, s.Pending())
}

func TestRun_RealPacerHonoursIntroDelay(t *testing.T) {
	cfg := config.Defaults()
	cfg.Session.IntroDelayMs = 15
	s, _ := start(t, setup{cfg: cfg, enemies: []string{"grunt"}})

	begin := time.Now()
	require.NoError(t, s.Run(context.Background(), combat.RealPacer{}))
	assert.GreaterOrEqual(t, time.Since(begin), 15*time.Millisecond)
	assert.True(t, s.AwaitingPlayer())
}

func TestRun_CancelledContextLeavesTaskQueued(t *testing.T) {
	s, _ := start(t, setup{cfg: config.Defaults(), enemies: []string{"grunt"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, combat.RealPacer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, s.Pending())
	assert.Equal(t, combat.PhaseInitial, s.Phase())
}
