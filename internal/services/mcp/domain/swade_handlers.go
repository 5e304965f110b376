package domain

import (
	"context"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/availability"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/ledger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CharacterCreateHandler executes a character create request.
func CharacterCreateHandler(svc CharacterService) mcp.ToolHandlerFor[CharacterCreateInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterCreateInput) (*mcp.CallToolResult, CharacterResult, error) {
		view, err := svc.CreateCharacter(ctx, input.CharacterID, input.Name)
		if err != nil {
			return nil, CharacterResult{}, toolError("character create", err)
		}
		return nil, characterResult(view), nil
	}
}

// CharacterGetHandler executes a character read request.
func CharacterGetHandler(svc CharacterService) mcp.ToolHandlerFor[CharacterIDInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterIDInput) (*mcp.CallToolResult, CharacterResult, error) {
		view, err := svc.GetCharacter(ctx, input.CharacterID)
		if err != nil {
			return nil, CharacterResult{}, toolError("character get", err)
		}
		return nil, characterResult(view), nil
	}
}

// CharacterListHandler executes a character list request.
func CharacterListHandler(svc CharacterService) mcp.ToolHandlerFor[CharacterListInput, CharacterListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterListInput) (*mcp.CallToolResult, CharacterListResult, error) {
		summaries, next, err := svc.ListCharacters(ctx, input.PageSize, input.PageToken)
		if err != nil {
			return nil, CharacterListResult{}, toolError("character list", err)
		}
		return nil, characterListResult(summaries, next), nil
	}
}

// CharacterApplyHandler executes one build change.
func CharacterApplyHandler(svc CharacterService) mcp.ToolHandlerFor[CharacterApplyInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterApplyInput) (*mcp.CallToolResult, CharacterResult, error) {
		req := ledger.Request{Kind: ledger.MutationKind(input.Mutation), Target: input.Target}
		opts := ledger.Options{BypassBudget: input.BypassBudget, BypassRequirements: input.BypassRequirements}
		view, err := svc.Apply(ctx, input.CharacterID, req, opts)
		if err != nil {
			return nil, CharacterResult{}, toolError("character apply", err)
		}
		return nil, characterResult(view), nil
	}
}

// AdvanceAwardHandler executes an advance award request.
func AdvanceAwardHandler(svc CharacterService) mcp.ToolHandlerFor[CharacterIDInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterIDInput) (*mcp.CallToolResult, CharacterResult, error) {
		view, err := svc.AwardAdvance(ctx, input.CharacterID)
		if err != nil {
			return nil, CharacterResult{}, toolError("advance award", err)
		}
		return nil, characterResult(view), nil
	}
}

// AdvanceCommitHandler executes an advance commit request.
func AdvanceCommitHandler(svc CharacterService) mcp.ToolHandlerFor[AdvanceCommitInput, CharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AdvanceCommitInput) (*mcp.CallToolResult, CharacterResult, error) {
		adv := character.Advance{
			Attribute:  input.Attribute,
			SkillSteps: input.SkillSteps,
			Edge:       input.Edge,
			Hindrance:  input.Hindrance,
		}
		view, err := svc.CommitAdvance(ctx, input.CharacterID, adv)
		if err != nil {
			return nil, CharacterResult{}, toolError("advance commit", err)
		}
		return nil, characterResult(view), nil
	}
}

// DerivedStatsHandler executes a derived statistics request.
func DerivedStatsHandler(svc CharacterService) mcp.ToolHandlerFor[CharacterIDInput, DerivedResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CharacterIDInput) (*mcp.CallToolResult, DerivedResult, error) {
		stats, err := svc.DerivedStats(ctx, input.CharacterID)
		if err != nil {
			return nil, DerivedResult{}, toolError("derived stats", err)
		}
		return nil, derivedResult(stats), nil
	}
}

// AvailabilityHandler executes an availability request.
func AvailabilityHandler(svc CharacterService) mcp.ToolHandlerFor[AvailabilityInput, AvailabilityResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AvailabilityInput) (*mcp.CallToolResult, AvailabilityResult, error) {
		kind, err := content.ParseKind(input.Kind)
		if err != nil {
			return nil, AvailabilityResult{}, toolError("availability", err)
		}
		results, err := svc.Availability(ctx, input.CharacterID, kind, input.EntityID)
		if err != nil {
			return nil, AvailabilityResult{}, toolError("availability", err)
		}
		if results == nil {
			results = []availability.Result{}
		}
		return nil, AvailabilityResult{Results: results}, nil
	}
}

// CatalogListHandler executes a catalog listing request.
func CatalogListHandler(svc CharacterService) mcp.ToolHandlerFor[CatalogListInput, CatalogListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CatalogListInput) (*mcp.CallToolResult, CatalogListResult, error) {
		kind, err := content.ParseKind(input.Kind)
		if err != nil {
			return nil, CatalogListResult{}, toolError("catalog list", err)
		}
		entries, err := svc.ListCatalog(ctx, kind, input.Filter)
		if err != nil {
			return nil, CatalogListResult{}, toolError("catalog list", err)
		}
		if entries == nil {
			entries = []content.Entry{}
		}
		return nil, CatalogListResult{Entries: entries}, nil
	}
}
