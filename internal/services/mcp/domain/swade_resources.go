package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const characterURIPrefix = "swade://characters/"

// CharacterListResource defines the readable character listing resource.
func CharacterListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "character_list",
		Title:       "Characters",
		Description: "Readable listing of stored characters",
		MIMEType:    "application/json",
		URI:         "swade://characters",
	}
}

// CharacterResourceTemplate defines the readable single-character resource.
func CharacterResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "character",
		Title:       "Character",
		Description: "Readable character sheet. URI format: swade://characters/{character_id}",
		MIMEType:    "application/json",
		URITemplate: characterURIPrefix + "{character_id}",
	}
}

// CharacterListResourceHandler returns the first page of stored characters.
func CharacterListResourceHandler(svc CharacterService) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := CharacterListResource().URI
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		summaries, next, err := svc.ListCharacters(ctx, 0, "")
		if err != nil {
			return nil, toolError("character list", err)
		}
		return jsonResource(uri, characterListResult(summaries, next))
	}
}

// CharacterResourceHandler returns one character sheet.
func CharacterResourceHandler(svc CharacterService) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("character ID is required; use URI format %s{character_id}", characterURIPrefix)
		}
		uri := req.Params.URI
		characterID, err := parseCharacterIDFromURI(uri)
		if err != nil {
			return nil, err
		}
		view, err := svc.GetCharacter(ctx, characterID)
		if err != nil {
			return nil, toolError("character get", err)
		}
		return jsonResource(uri, characterResult(view))
	}
}

// CharacterResourceURI returns the resource URI of one character sheet.
func CharacterResourceURI(characterID string) string {
	return characterURIPrefix + characterID
}

// parseCharacterIDFromURI extracts the id from swade://characters/{character_id}.
func parseCharacterIDFromURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, characterURIPrefix)
	if !ok {
		return "", fmt.Errorf("invalid URI format: expected %s{character_id}", characterURIPrefix)
	}
	characterID := strings.TrimSpace(rest)
	if characterID == "" || strings.Contains(characterID, "/") {
		return "", fmt.Errorf("invalid URI format: expected %s{character_id}", characterURIPrefix)
	}
	return characterID, nil
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
