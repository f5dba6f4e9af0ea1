package main

import (
	"context"
	"net/http"
	"time"

	"chain-arena/internal/arena"
	"chain-arena/internal/attest"
	"chain-arena/internal/automation"
	"chain-arena/internal/chain"
	"chain-arena/internal/config"
	"chain-arena/internal/identity"
	"chain-arena/internal/logging"
	"chain-arena/internal/proposal"
	"chain-arena/internal/store"
	"chain-arena/internal/submit"
	httptransport "chain-arena/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	appCfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(appCfg.Log)
	cfg := appCfg.Server

	signer, err := attest.NewSignerFromHex(cfg.SignerKey)
	if err != nil {
		log.Fatal().Err(err).Msg("load signer key failed")
	}
	log.Info().Str("signer", signer.Address().Hex()).Msg("trusted signer loaded")

	ledger := chain.NewSimLedger(chain.SimConfig{
		Trusted:         signer.Address(),
		BaseUnit:        cfg.BaseUnitAmount,
		MaxRounds:       cfg.MaxRounds,
		DamageThreshold: cfg.DamageThreshold,
		BettingWindow:   time.Duration(cfg.BettingWindowSeconds) * time.Second,
		RoundInterval:   time.Duration(cfg.RoundIntervalSeconds) * time.Second,
	})

	proposer := proposal.NewClient(cfg.DecisionServiceURL, time.Duration(cfg.ProposalTimeoutSeconds)*time.Second)
	submitter := submit.New(ledger)

	var resolver identity.Resolver
	if cfg.MetadataServiceURL != "" {
		resolver = identity.NewHTTPResolver(cfg.MetadataServiceURL, 10*time.Second)
	} else {
		resolver = identity.NewStaticResolver(defaultRoster()...)
		log.Warn().Msg("no metadata service configured; serving built-in roster")
	}

	ctrl := automation.NewController(ledger, signer, proposer, submitter, resolver, automation.Config{
		SubmitTimeout: time.Duration(cfg.SubmitTimeoutSeconds) * time.Second,
	})

	var st *store.Store
	if cfg.PostgresDSN != "" {
		st, err = store.New(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		if err := st.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := st.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("ensure schema failed")
		}
		ctrl.SetRecorder(store.NewRecorder(st))
	} else {
		log.Warn().Msg("no postgres dsn configured; battle history disabled")
	}

	r := httptransport.NewRouter(ctrl, ledger, st)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

// defaultRoster covers standalone runs where no metadata service exists.
func defaultRoster() []arena.Combatant {
	return []arena.Combatant{
		{
			ID:          "iron-golem",
			Name:        "Iron Golem",
			Traits:      arena.Traits{Power: 80, Speed: 20, Defense: 90, Accuracy: 60, Resilience: 85},
			Personality: "relentless, favors attrition",
		},
		{
			ID:          "swift-viper",
			Name:        "Swift Viper",
			Traits:      arena.Traits{Power: 55, Speed: 95, Defense: 30, Accuracy: 85, Resilience: 40},
			Personality: "evasive, strikes openings",
		},
		{
			ID:          "storm-caller",
			Name:        "Storm Caller",
			Traits:      arena.Traits{Power: 90, Speed: 50, Defense: 45, Accuracy: 70, Resilience: 55},
			Personality: "aggressive, burns hot early",
		},
		{
			ID:          "stone-monk",
			Name:        "Stone Monk",
			Traits:      arena.Traits{Power: 45, Speed: 60, Defense: 75, Accuracy: 75, Resilience: 90},
			Personality: "patient, recovers and counters",
		},
	}
}
