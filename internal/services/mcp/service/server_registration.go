package service

import (
	"context"
	"fmt"

	"github.com/medinal/swade-character-creator/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationKind int

const (
	mcpRegistrationKindTools mcpRegistrationKind = iota
	mcpRegistrationKindResources
)

type mcpRegistrationModule struct {
	name     string
	kind     mcpRegistrationKind
	register func(mcpRegistrationTarget) error
}

const (
	mcpCharacterToolsModuleName     = "character-tools"
	mcpAdvancementToolsModuleName   = "advancement-tools"
	mcpCatalogToolsModuleName       = "catalog-tools"
	mcpCharacterResourcesModuleName = "character-resources"
)

// resourceNotifier tells subscribed clients that a resource changed.
type resourceNotifier func(ctx context.Context, uri string)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r mcpServerRegistrationAdapter) AddResourceTemplate(resourceTemplate *mcp.ResourceTemplate, handler mcp.ResourceHandler) {
	r.server.AddResourceTemplate(resourceTemplate, handler)
}

func (r mcpServerRegistrationAdapter) AddResource(resource *mcp.Resource, handler mcp.ResourceHandler) {
	r.server.AddResource(resource, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.CharacterCreateInput, domain.CharacterResult](),
	newMCPToolRegistrar[domain.CharacterIDInput, domain.CharacterResult](),
	newMCPToolRegistrar[domain.CharacterListInput, domain.CharacterListResult](),
	newMCPToolRegistrar[domain.CharacterApplyInput, domain.CharacterResult](),
	newMCPToolRegistrar[domain.AdvanceCommitInput, domain.CharacterResult](),
	newMCPToolRegistrar[domain.CharacterIDInput, domain.DerivedResult](),
	newMCPToolRegistrar[domain.AvailabilityInput, domain.AvailabilityResult](),
	newMCPToolRegistrar[domain.CatalogListInput, domain.CatalogListResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newMCPRegistrationModules(svc domain.CharacterService, notify resourceNotifier) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpCharacterToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerCharacterTools(registrar, svc, notify)
			},
		},
		{
			name: mcpAdvancementToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerAdvancementTools(registrar, svc, notify)
			},
		},
		{
			name: mcpCatalogToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerCatalogTools(registrar, svc)
			},
		},
		{
			name: mcpCharacterResourcesModuleName,
			kind: mcpRegistrationKindResources,
			register: func(registrar mcpRegistrationTarget) error {
				registerCharacterResources(registrar, svc)
				return nil
			},
		},
	}
}
