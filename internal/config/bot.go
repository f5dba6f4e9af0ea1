package config

import "github.com/caarlos0/env/v11"

type BotConfig struct {
	ServerURL   string `env:"SERVER_URL" envDefault:"http://localhost:8080"`
	ArenaID     string `env:"ARENA_ID" envDefault:"arena-1"`
	CombatantA  string `env:"COMBATANT_A"`
	CombatantB  string `env:"COMBATANT_B"`
	PollSeconds int    `env:"POLL_SECONDS" envDefault:"2"`
	AutoCleanup bool   `env:"AUTO_CLEANUP" envDefault:"true"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
