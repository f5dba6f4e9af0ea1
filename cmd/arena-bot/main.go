package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chain-arena/internal/arena"
	"chain-arena/internal/automation"
	"chain-arena/internal/config"
	"chain-arena/internal/logging"
	"chain-arena/internal/replica"

	"github.com/rs/zerolog/log"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}
	if cfg.CombatantA == "" || cfg.CombatantB == "" {
		log.Fatal().Msg("COMBATANT_A and COMBATANT_B are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := replica.NewClient(cfg.ServerURL, 10*time.Second)
	if err := client.Initialize(ctx, cfg.ArenaID, cfg.CombatantA, cfg.CombatantB); err != nil {
		log.Fatal().Err(err).Str("arena_id", cfg.ArenaID).Msg("initialize failed")
	}
	log.Info().
		Str("arena_id", cfg.ArenaID).
		Str("combatant_a", cfg.CombatantA).
		Str("combatant_b", cfg.CombatantB).
		Msg("arena initialized, watching")

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	client.Poll(pollCtx, cfg.ArenaID, time.Duration(cfg.PollSeconds)*time.Second,
		func(st automation.AutomationState) {
			logState(st)
			if st.Phase == arena.PhaseFinished {
				if cfg.AutoCleanup {
					if err := client.Cleanup(context.Background(), cfg.ArenaID); err != nil {
						log.Warn().Err(err).Msg("cleanup failed")
					}
				}
				cancel()
			}
		},
		func() {
			log.Info().Str("arena_id", cfg.ArenaID).Msg("automation gone")
			cancel()
		})
}

func logState(st automation.AutomationState) {
	evt := log.Info().
		Str("phase", string(st.Phase)).
		Int("round", st.RoundIndex).
		Int64("damage_a", st.DamageA).
		Int64("damage_b", st.DamageB).
		Int64("pot_a", st.PotA).
		Int64("pot_b", st.PotB).
		Float64("time_remaining", st.TimeRemaining)
	if st.Winner != nil {
		evt = evt.Str("winner", *st.Winner)
	}
	if st.Degraded {
		evt = evt.Str("degraded_cause", st.DegradedCause)
	}
	evt.Msg("arena state")
}
