package domain

import (
	"time"

	"github.com/medinal/swade-character-creator/internal/services/game/app"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/availability"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/ledger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CharacterCreateInput represents the MCP tool input for character creation.
type CharacterCreateInput struct {
	CharacterID string `json:"character_id,omitempty" jsonschema:"optional character identifier; generated when empty"`
	Name        string `json:"name" jsonschema:"display name for the character"`
}

// CharacterIDInput addresses one stored character.
type CharacterIDInput struct {
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
}

// CharacterListInput represents the MCP tool input for listing characters.
type CharacterListInput struct {
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum number of characters to return"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous page"`
}

// CharacterApplyInput represents the MCP tool input for one build change.
type CharacterApplyInput struct {
	CharacterID        string `json:"character_id" jsonschema:"character identifier"`
	Mutation           string `json:"mutation" jsonschema:"build change: set_ancestry, raise_attribute, lower_attribute, raise_skill, lower_skill, add_hindrance, remove_hindrance, convert_hindrance_points, revert_conversion, add_edge, remove_edge, add_arcane_background, remove_arcane_background, add_power, remove_power, add_gear, remove_gear or finalize_creation"`
	Target             string `json:"target,omitempty" jsonschema:"entity id the change applies to; for conversions one of attribute, skill or edge"`
	BypassBudget       bool   `json:"bypass_budget,omitempty" jsonschema:"accept the change even when it overspends a pool"`
	BypassRequirements bool   `json:"bypass_requirements,omitempty" jsonschema:"skip prerequisite checks"`
}

// AdvanceCommitInput represents the MCP tool input for committing an advance.
type AdvanceCommitInput struct {
	CharacterID string   `json:"character_id" jsonschema:"character identifier"`
	Attribute   string   `json:"attribute,omitempty" jsonschema:"attribute to raise one die step"`
	SkillSteps  []string `json:"skill_steps,omitempty" jsonschema:"skill ids, one per die step; list a skill twice to raise it two steps"`
	Edge        string   `json:"edge,omitempty" jsonschema:"edge to take"`
	Hindrance   string   `json:"hindrance,omitempty" jsonschema:"held hindrance to reduce (major) or remove (minor)"`
}

// AvailabilityInput represents the MCP tool input for availability checks.
type AvailabilityInput struct {
	CharacterID string `json:"character_id" jsonschema:"character identifier"`
	Kind        string `json:"kind" jsonschema:"entity kind: edge, hindrance, power, ancestry, arcane_background or gear"`
	EntityID    string `json:"entity_id,omitempty" jsonschema:"entity to check; every entity of kind when empty"`
}

// CatalogListInput represents the MCP tool input for catalog listings.
type CatalogListInput struct {
	Kind   string `json:"kind" jsonschema:"entity kind: attribute, skill, edge, hindrance, power, ancestry, arcane_background or gear"`
	Filter string `json:"filter,omitempty" jsonschema:"optional AIP-160 filter, e.g. rank <= 1 AND category = \"combat\""`
}

// SelectionResult is one attached reference entity.
type SelectionResult struct {
	ID         string `json:"id" jsonschema:"entity identifier"`
	Provenance string `json:"provenance" jsonschema:"how the entity was gained: creation, ancestry, advancement or editor"`
}

// DerivedResult holds derived statistics.
type DerivedResult struct {
	Pace      int                 `json:"pace" jsonschema:"movement in inches per turn"`
	Parry     int                 `json:"parry" jsonschema:"target number to hit in melee"`
	Toughness int                 `json:"toughness" jsonschema:"target number to wound"`
	Size      int                 `json:"size" jsonschema:"size modifier"`
	Rank      string              `json:"rank" jsonschema:"rank label"`
	Sources   map[string][]string `json:"sources,omitempty" jsonschema:"entities contributing to each statistic"`
}

// CharacterResult represents a character in MCP tool output.
type CharacterResult struct {
	ID                string                  `json:"id" jsonschema:"character identifier"`
	Name              string                  `json:"name" jsonschema:"display name"`
	Phase             string                  `json:"phase" jsonschema:"creation or play"`
	Rank              string                  `json:"rank" jsonschema:"rank label"`
	Ancestry          string                  `json:"ancestry,omitempty" jsonschema:"selected ancestry"`
	Attributes        map[string]string       `json:"attributes" jsonschema:"attribute dice by id"`
	Skills            map[string]string       `json:"skills" jsonschema:"trained skill dice by id"`
	Edges             []SelectionResult       `json:"edges" jsonschema:"selected edges"`
	Hindrances        []SelectionResult       `json:"hindrances" jsonschema:"selected hindrances"`
	Powers            []SelectionResult       `json:"powers" jsonschema:"known powers"`
	ArcaneBackgrounds []SelectionResult       `json:"arcane_backgrounds" jsonschema:"arcane backgrounds"`
	Gear              []SelectionResult       `json:"gear" jsonschema:"carried gear"`
	Budget            ledger.Budget           `json:"budget" jsonschema:"creation pools"`
	Creation          ledger.CreationProgress `json:"creation" jsonschema:"creation step progress"`
	Derived           DerivedResult           `json:"derived" jsonschema:"derived statistics"`
	AdvancementState  string                  `json:"advancement_state" jsonschema:"not_started, advance_available or advance_committed"`
	PendingAdvances   int                     `json:"pending_advances" jsonschema:"awarded advances not yet committed"`
	Advances          []AdvanceResult         `json:"advances" jsonschema:"committed advances"`
	Version           int64                   `json:"version" jsonschema:"stored record version"`
	UpdatedAt         string                  `json:"updated_at" jsonschema:"RFC3339 timestamp when the character was last updated"`
}

// AdvanceResult is one committed advance.
type AdvanceResult struct {
	Number  int    `json:"number" jsonschema:"advance number"`
	Pattern string `json:"pattern" jsonschema:"attribute, skills, edge or hindrance"`
	Summary string `json:"summary" jsonschema:"what the advance did"`
}

// CharacterSummaryResult is one listed character.
type CharacterSummaryResult struct {
	ID        string `json:"id" jsonschema:"character identifier"`
	Name      string `json:"name" jsonschema:"display name"`
	Phase     string `json:"phase" jsonschema:"creation or play"`
	Rank      string `json:"rank" jsonschema:"rank label"`
	Advances  int    `json:"advances" jsonschema:"committed advances"`
	UpdatedAt string `json:"updated_at" jsonschema:"RFC3339 timestamp when the character was last updated"`
}

// CharacterListResult represents a page of characters.
type CharacterListResult struct {
	Characters    []CharacterSummaryResult `json:"characters" jsonschema:"characters on this page"`
	NextPageToken string                   `json:"next_page_token,omitempty" jsonschema:"token for the next page"`
}

// AvailabilityResult lists availability per entity.
type AvailabilityResult struct {
	Results []availability.Result `json:"results" jsonschema:"availability per entity"`
}

// CatalogListResult lists catalog entities.
type CatalogListResult struct {
	Entries []content.Entry `json:"entries" jsonschema:"matching catalog entities"`
}

// CharacterCreateTool defines the MCP tool schema for creating a character.
func CharacterCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "swade_character_create",
		Description: "Creates a Savage Worlds character at the starting attribute and core skill dice",
	}
}

// CharacterGetTool defines the MCP tool schema for reading a character.
func CharacterGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "swade_character_get",
		Description: "Returns a character with its creation budgets, progress and derived statistics",
	}
}

// CharacterListTool defines the MCP tool schema for listing characters.
func CharacterListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "swade_character_list",
		Description: "Lists stored characters",
	}
}

// CharacterApplyTool defines the MCP tool schema for build changes.
func CharacterApplyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "swade_character_apply",
		Description: "Applies one build change under the point budgets; rejected changes leave the character untouched",
	}
}

// AdvanceAwardTool defines the MCP tool schema for awarding an advance.
func AdvanceAwardTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "swade_advance_award",
		Description: "Awards an advance to a character whose creation is finalized",
	}
}

// AdvanceCommitTool defines the MCP tool schema for committing an advance.
func AdvanceCommitTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "swade_advance_commit",
		Description: "Spends an awarded advance on an attribute, skill steps, an edge or a hindrance",
	}
}

// DerivedStatsTool defines the MCP tool schema for derived statistics.
func DerivedStatsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "swade_derived_stats",
		Description: "Computes Pace, Parry, Toughness and Size for a character",
	}
}

// AvailabilityTool defines the MCP tool schema for availability checks.
func AvailabilityTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "swade_availability",
		Description: "Reports whether a character may take an entity, with each requirement's status",
	}
}

// CatalogListTool defines the MCP tool schema for catalog listings.
func CatalogListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "swade_catalog_list",
		Description: "Lists reference entities of one kind, optionally filtered",
	}
}

func characterResult(view app.CharacterView) CharacterResult {
	s := view.Snapshot
	result := CharacterResult{
		ID:                s.ID,
		Name:              s.Name,
		Phase:             string(s.Phase),
		Rank:              view.Rank.Label(),
		Ancestry:          s.Ancestry,
		Attributes:        make(map[string]string, len(s.Attributes)),
		Skills:            make(map[string]string, len(s.Skills)),
		Edges:             selections(s.Edges),
		Hindrances:        selections(s.Hindrances),
		Powers:            selections(s.Powers),
		ArcaneBackgrounds: selections(s.ArcaneBackgrounds),
		Gear:              selections(s.Gear),
		Budget:            view.Budget,
		Creation:          view.Creation,
		Derived:           derivedResult(view.Derived),
		AdvancementState:  string(view.AdvancementState),
		PendingAdvances:   s.PendingAdvances,
		Advances:          make([]AdvanceResult, 0, len(s.Advances)),
		Version:           view.Version,
		UpdatedAt:         formatTime(view.UpdatedAt),
	}
	for id, d := range s.Attributes {
		result.Attributes[id] = d.String()
	}
	for id, d := range s.Skills {
		result.Skills[id] = d.String()
	}
	for _, rec := range s.Advances {
		result.Advances = append(result.Advances, AdvanceResult{Number: rec.Number, Pattern: rec.Pattern, Summary: rec.Summary})
	}
	return result
}

func characterListResult(summaries []app.CharacterSummary, next string) CharacterListResult {
	result := CharacterListResult{
		Characters:    make([]CharacterSummaryResult, 0, len(summaries)),
		NextPageToken: next,
	}
	for _, s := range summaries {
		result.Characters = append(result.Characters, CharacterSummaryResult{
			ID:        s.ID,
			Name:      s.Name,
			Phase:     string(s.Phase),
			Rank:      s.Rank.Label(),
			Advances:  s.Advances,
			UpdatedAt: formatTime(s.UpdatedAt),
		})
	}
	return result
}

func derivedResult(stats character.DerivedStats) DerivedResult {
	return DerivedResult{
		Pace:      stats.Pace,
		Parry:     stats.Parry,
		Toughness: stats.Toughness,
		Size:      stats.Size,
		Rank:      stats.Rank.Label(),
		Sources:   stats.Sources,
	}
}

func selections(in []character.Selection) []SelectionResult {
	out := make([]SelectionResult, 0, len(in))
	for _, sel := range in {
		out = append(out, SelectionResult{ID: sel.ID, Provenance: string(sel.Provenance)})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
