package config

import "testing"

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("SIGNER_KEY", "ab"+"cd")
	t.Setenv("DECISION_SERVICE_URL", "http://decider:9000/propose")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("addr = %q", cfg.HTTPAddr)
	}
	if cfg.BaseUnitAmount != 5 || cfg.MaxRounds != 9 || cfg.DamageThreshold != 100 {
		t.Fatalf("battle defaults = %d/%d/%d", cfg.BaseUnitAmount, cfg.MaxRounds, cfg.DamageThreshold)
	}
	if cfg.BettingWindowSeconds != 60 || cfg.RoundIntervalSeconds != 30 {
		t.Fatalf("timing defaults = %d/%d", cfg.BettingWindowSeconds, cfg.RoundIntervalSeconds)
	}
}

func TestLoadServerRequiresSignerKey(t *testing.T) {
	t.Setenv("SIGNER_KEY", "")
	t.Setenv("DECISION_SERVICE_URL", "http://decider:9000/propose")
	if _, err := LoadServer(); err == nil {
		t.Fatalf("empty SIGNER_KEY must fail")
	}
}

func TestLoadServerOverrides(t *testing.T) {
	t.Setenv("SIGNER_KEY", "deadbeef")
	t.Setenv("DECISION_SERVICE_URL", "http://decider:9000/propose")
	t.Setenv("BASE_UNIT_AMOUNT", "25")
	t.Setenv("BETTING_WINDOW_SECONDS", "0")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseUnitAmount != 25 {
		t.Fatalf("base unit = %d", cfg.BaseUnitAmount)
	}
	if cfg.BettingWindowSeconds != 0 {
		t.Fatalf("betting window = %d, zero must be honored", cfg.BettingWindowSeconds)
	}
}

func TestLoadBotDefaults(t *testing.T) {
	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerURL != "http://localhost:8080" || cfg.ArenaID != "arena-1" {
		t.Fatalf("defaults = %q %q", cfg.ServerURL, cfg.ArenaID)
	}
	if !cfg.AutoCleanup || cfg.PollSeconds != 2 {
		t.Fatalf("poll defaults = %v %d", cfg.AutoCleanup, cfg.PollSeconds)
	}
}

func TestLoadLogDefaults(t *testing.T) {
	cfg, err := LoadLog()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Level != "info" || cfg.Pretty {
		t.Fatalf("log defaults = %q %v", cfg.Level, cfg.Pretty)
	}
	if cfg.MaxMB != 10 {
		t.Fatalf("max mb = %d", cfg.MaxMB)
	}
}
