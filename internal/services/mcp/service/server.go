package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/medinal/swade-character-creator/internal/platform/branding"
	"github.com/medinal/swade-character-creator/internal/services/game/app"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/storage/sqlite"
	"github.com/medinal/swade-character-creator/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	ContentDBPath    string
	CharactersDBPath string
	Transport        TransportKind
	HTTPAddr         string // Defaults to localhost:8081 for HTTP transport.
	AllowedHosts     []string
	Rules            swade.GameConfig
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	service   domain.CharacterService
	closers   []func() error
}

// New opens the sqlite stores named by cfg, loads the catalog and binds the
// character builder tools.
func New(ctx context.Context, cfg Config) (*Server, error) {
	contentStore, err := sqlite.OpenContent(cfg.ContentDBPath)
	if err != nil {
		return nil, fmt.Errorf("open content store: %w", err)
	}
	characters, err := sqlite.OpenCharacters(cfg.CharactersDBPath)
	if err != nil {
		_ = contentStore.Close()
		return nil, fmt.Errorf("open character store: %w", err)
	}
	svc, err := app.NewService(ctx, cfg.Rules, contentStore, characters)
	if err != nil {
		_ = characters.Close()
		_ = contentStore.Close()
		return nil, err
	}
	server, err := newServer(svc)
	if err != nil {
		_ = characters.Close()
		_ = contentStore.Close()
		return nil, err
	}
	server.closers = []func() error{characters.Close, contentStore.Close}
	return server, nil
}

// newServer creates MCP tool/resource handler bindings once for svc.
func newServer(svc domain.CharacterService) (*Server, error) {
	if svc == nil {
		return nil, errors.New("character service is required")
	}
	server := &Server{service: svc}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		CompletionHandler:  server.completionHandler,
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})
	server.mcpServer = mcpServer

	notify := func(ctx context.Context, uri string) {
		if strings.TrimSpace(uri) == "" {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}
		if err := mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
		}
	}

	for _, module := range newMCPRegistrationModules(svc, notify) {
		if err := module.register(mcpServerRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}
	return server, nil
}
