package service

import (
	"context"

	"github.com/medinal/swade-character-creator/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

func registerCharacterTools(registrar mcpRegistrationTarget, svc domain.CharacterService, notify resourceNotifier) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.CharacterCreateTool(), handler: notifyCharacterUpdate(domain.CharacterCreateHandler(svc), notify)},
		{tool: domain.CharacterGetTool(), handler: domain.CharacterGetHandler(svc)},
		{tool: domain.CharacterListTool(), handler: domain.CharacterListHandler(svc)},
		{tool: domain.CharacterApplyTool(), handler: notifyCharacterUpdate(domain.CharacterApplyHandler(svc), notify)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerAdvancementTools(registrar mcpRegistrationTarget, svc domain.CharacterService, notify resourceNotifier) error {
	if err := registerTool(registrar, domain.AdvanceAwardTool(), notifyCharacterUpdate(domain.AdvanceAwardHandler(svc), notify)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.AdvanceCommitTool(), notifyCharacterUpdate(domain.AdvanceCommitHandler(svc), notify)); err != nil {
		return err
	}
	return registerTool(registrar, domain.DerivedStatsTool(), domain.DerivedStatsHandler(svc))
}

func registerCatalogTools(registrar mcpRegistrationTarget, svc domain.CharacterService) error {
	if err := registerTool(registrar, domain.AvailabilityTool(), domain.AvailabilityHandler(svc)); err != nil {
		return err
	}
	return registerTool(registrar, domain.CatalogListTool(), domain.CatalogListHandler(svc))
}

func registerCharacterResources(registrar mcpRegistrationTarget, svc domain.CharacterService) {
	registrar.AddResource(domain.CharacterListResource(), domain.CharacterListResourceHandler(svc))
	registrar.AddResourceTemplate(domain.CharacterResourceTemplate(), domain.CharacterResourceHandler(svc))
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	return registrar.AddTool(tool, handler)
}

// notifyCharacterUpdate announces the sheet and the listing after a
// successful write.
func notifyCharacterUpdate[I any](handler mcp.ToolHandlerFor[I, domain.CharacterResult], notify resourceNotifier) mcp.ToolHandlerFor[I, domain.CharacterResult] {
	if notify == nil {
		return handler
	}
	return func(ctx context.Context, req *mcp.CallToolRequest, input I) (*mcp.CallToolResult, domain.CharacterResult, error) {
		result, output, err := handler(ctx, req, input)
		if err != nil {
			return result, output, err
		}
		notify(ctx, domain.CharacterResourceURI(output.ID))
		notify(ctx, domain.CharacterListResource().URI)
		return result, output, nil
	}
}
