package config

import (
	"testing"
	"time"
)

type envTestConfig struct {
	DBPath        string        `env:"CONFIG_TEST_DB_PATH" envDefault:"data/treasury.db"`
	BurnInterval  time.Duration `env:"CONFIG_TEST_BURN_INTERVAL" envDefault:"1m"`
	OperatorsOnly bool          `env:"CONFIG_TEST_OPERATORS_ONLY" envDefault:"true"`
}

func TestParseEnvAppliesDefaults(t *testing.T) {
	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.DBPath != "data/treasury.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.BurnInterval != time.Minute {
		t.Fatalf("expected default burn interval, got %v", cfg.BurnInterval)
	}
	if !cfg.OperatorsOnly {
		t.Fatalf("expected operators-only default true")
	}
}

func TestParseEnvReadsEnvironment(t *testing.T) {
	t.Setenv("CONFIG_TEST_DB_PATH", "/tmp/override.db")
	t.Setenv("CONFIG_TEST_BURN_INTERVAL", "30s")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.DBPath != "/tmp/override.db" {
		t.Fatalf("expected overridden db path, got %q", cfg.DBPath)
	}
	if cfg.BurnInterval != 30*time.Second {
		t.Fatalf("expected overridden burn interval, got %v", cfg.BurnInterval)
	}
}
