// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"strings"

	entrypoint "github.com/medinal/swade-character-creator/internal/platform/cmd"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	mcpservice "github.com/medinal/swade-character-creator/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	ContentDBPath    string   `env:"SWADE_CONTENT_DB_PATH"    envDefault:"data/swade-content.db"`
	CharactersDBPath string   `env:"SWADE_CHARACTERS_DB_PATH" envDefault:"data/swade-characters.db"`
	HTTPAddr         string   `env:"SWADE_MCP_HTTP_ADDR"      envDefault:"localhost:8081"`
	Transport        string   `env:"SWADE_MCP_TRANSPORT"      envDefault:"stdio"`
	AllowedHosts     []string `env:"SWADE_MCP_ALLOWED_HOSTS"  envSeparator:","`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.ContentDBPath, "content-db-path", cfg.ContentDBPath, "path to the reference content sqlite database")
	fs.StringVar(&cfg.CharactersDBPath, "characters-db-path", cfg.CharactersDBPath, "path to the character sqlite database")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the rule configuration and starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	rules, err := swade.LoadConfig()
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return mcpservice.Run(ctx, mcpservice.Config{
			ContentDBPath:    cfg.ContentDBPath,
			CharactersDBPath: cfg.CharactersDBPath,
			Transport:        mcpservice.TransportKind(strings.ToLower(strings.TrimSpace(cfg.Transport))),
			HTTPAddr:         cfg.HTTPAddr,
			AllowedHosts:     cfg.AllowedHosts,
			Rules:            rules,
		})
	})
}
