package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Points int `env:"SWADE_TEST_POINTS" envDefault:"12"`
}

type prefixedTestConfig struct {
	Points int `env:"POINTS" envDefault:"5"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Points != 12 {
		t.Fatalf("expected default points 12, got %d", cfg.Points)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("SWADE_TEST_POINTS", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithPrefix(t *testing.T) {
	t.Setenv("HOUSE_POINTS", "7")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, "HOUSE_"); err != nil {
		t.Fatalf("parse env with prefix: %v", err)
	}
	if cfg.Points != 7 {
		t.Fatalf("expected prefixed value 7, got %d", cfg.Points)
	}
}
