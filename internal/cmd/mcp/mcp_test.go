package mcp

import (
	"context"
	"flag"
	"testing"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.ContentDBPath != "data/swade-content.db" {
		t.Fatalf("expected default content db path, got %q", cfg.ContentDBPath)
	}
	if cfg.CharactersDBPath != "data/swade-characters.db" {
		t.Fatalf("expected default characters db path, got %q", cfg.CharactersDBPath)
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("SWADE_CONTENT_DB_PATH", "env-content.db")
	t.Setenv("SWADE_MCP_HTTP_ADDR", "env-http")
	t.Setenv("SWADE_MCP_ALLOWED_HOSTS", "a.test,b.test")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	args := []string{"-http-addr", "flag-http", "-transport", "http"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.ContentDBPath != "env-content.db" {
		t.Fatalf("expected env content db path, got %q", cfg.ContentDBPath)
	}
	if cfg.HTTPAddr != "flag-http" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected transport http, got %q", cfg.Transport)
	}
	if len(cfg.AllowedHosts) != 2 || cfg.AllowedHosts[1] != "b.test" {
		t.Fatalf("expected allowed hosts from env, got %v", cfg.AllowedHosts)
	}
}

func TestRunRejectsInvalidRules(t *testing.T) {
	t.Setenv("SWADE_STARTING_SKILL_POINTS", "-3")
	err := Run(context.Background(), Config{Transport: "stdio"})
	if !apperrors.HasCode(err, apperrors.CodeInvalidConfig) {
		t.Fatalf("expected invalid rule config, got %v", err)
	}
}
