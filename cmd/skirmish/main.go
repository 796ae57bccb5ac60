// Package main runs a single skirmish from the command line. The player's
// side is flown by the same decision engine the AI units use; narration goes
// to stdout and structured logs to the configured sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/equipment"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/reward"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/scripting"
)

// Offsets keep the auxiliary random streams independent of the battle's own.
const (
	pilotSeedOffset   = 0x5eed
	rewardSeedOffset  = 0x10075
	scriptsSeedOffset = 0x5c1

	exitAborted = 1
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	enemies := flag.String("enemies", "bandit", "comma-separated enemy template IDs")
	allies := flag.String("allies", "", "comma-separated ally template IDs")
	playerID := flag.String("player", "player", "player template ID")
	seed := flag.Int64("seed", 0, "random seed; 0 picks one")
	realtime := flag.Bool("realtime", false, "honour the configured pacing delays")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if *seed == 0 {
		*seed = dice.NewSeed()
	}

	// Load content
	contentStart := time.Now()
	templates := npc.NewRegistry(logger.Named("npc"))
	if err := templates.LoadDir(cfg.Content.CombatantsDir); err != nil {
		logger.Fatal("loading combatants", zap.Error(err))
	}
	defs, err := equipment.LoadCatalog(cfg.Content.ItemsDir)
	if err != nil {
		logger.Fatal("loading items", zap.Error(err))
	}
	armory, err := equipment.NewArmory(defs, logger)
	if err != nil {
		logger.Fatal("building armory", zap.Error(err))
	}
	scripts := scripting.NewManager(
		dice.NewLoggedRoller(dice.NewSeededSource(*seed+scriptsSeedOffset), logger.Named("dice")),
		logger,
		cfg.Content.ScriptInstructionLimit,
	)
	defer scripts.Close()
	if err := scripts.LoadDir(cfg.Content.ScriptsDir); err != nil {
		logger.Fatal("loading scripts", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("templates", len(templates.IDs())),
		zap.Int("items", len(defs)),
		zap.Duration("elapsed", time.Since(contentStart)),
	)

	player := templates.Spawn(*playerID, combatant.KindPlayer)
	if t, ok := templates.Template(*playerID); ok {
		player.Behavior = t.Behavior.Clone()
	}
	armory.Outfit(player)

	rewards := reward.NewResolver(dice.NewSeededSource(*seed+rewardSeedOffset), logger)
	session := combat.InitiateCombat(splitIDs(*enemies), splitIDs(*allies), combat.Options{
		Session:   cfg.Session,
		Combat:    cfg.Combat,
		AI:        cfg.AI,
		Templates: templates,
		Player:    player,
		Gear:      armory,
		Source:    dice.NewSeededSource(*seed),
		Seed:      *seed,
		Hooks:     scripts,
		Narrator:  combat.NarratorFunc(func(m string) { fmt.Fprintln(os.Stdout, m) }),
		Rewards:   rewards,
		Logger:    logger,
	})
	flier := newPilot(cfg, armory, dice.NewSeededSource(*seed+pilotSeedOffset), scripts, logger)

	logger.Info("skirmish initialized",
		zap.String("session", session.ID()),
		zap.Int64("seed", *seed),
		zap.Duration("startup", time.Since(start)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pacer combat.Pacer = combat.InstantPacer{}
	if *realtime {
		pacer = combat.RealPacer{}
	}
	if err := fight(ctx, session, pacer, flier); err != nil {
		logger.Warn("skirmish aborted", zap.Error(err))
		stop()
		logger.Sync()
		os.Exit(exitAborted)
	}

	if sum, ok := rewards.Last(); ok {
		fmt.Fprintln(os.Stdout)
		fmt.Fprint(os.Stdout, sum.String())
	}
	logger.Info("skirmish finished",
		zap.String("outcome", session.Outcome().String()),
		zap.Int("turns", session.Turn()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// fight alternates between draining the session's task queue and letting the
// pilot answer, until the battle ends or ctx is cancelled.
//
// Postcondition: Returns nil iff the session is no longer active.
func fight(ctx context.Context, s *combat.Session, pacer combat.Pacer, p *pilot) error {
	for s.Active() {
		if err := s.Run(ctx, pacer); err != nil {
			return err
		}
		if !s.Active() {
			break
		}
		if err := p.act(s); err != nil {
			return fmt.Errorf("pilot: %w", err)
		}
		if s.Pending() == 0 {
			return fmt.Errorf("session stalled in %s phase on turn %d", s.Phase(), s.Turn())
		}
	}
	return nil
}

// splitIDs parses a comma-separated list, dropping blanks.
func splitIDs(list string) []string {
	var ids []string
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
