package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	// SignerKey is the hex-encoded private key of the single trusted
	// attestation signer.
	SignerKey          string `env:"SIGNER_KEY,required,notEmpty"`
	DecisionServiceURL string `env:"DECISION_SERVICE_URL,required,notEmpty"`
	MetadataServiceURL string `env:"METADATA_SERVICE_URL"`

	BaseUnitAmount       int64 `env:"BASE_UNIT_AMOUNT" envDefault:"5"`
	MaxRounds            int   `env:"MAX_ROUNDS" envDefault:"9"`
	DamageThreshold      int64 `env:"DAMAGE_THRESHOLD" envDefault:"100"`
	BettingWindowSeconds int   `env:"BETTING_WINDOW_SECONDS" envDefault:"60"`
	RoundIntervalSeconds int   `env:"ROUND_INTERVAL_SECONDS" envDefault:"30"`

	ProposalTimeoutSeconds int `env:"PROPOSAL_TIMEOUT_SECONDS" envDefault:"15"`
	SubmitTimeoutSeconds   int `env:"SUBMIT_TIMEOUT_SECONDS" envDefault:"30"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
