package catalogimporter

import (
	"fmt"
	"strings"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
)

// payloadHeader identifies the rule system and source of one payload file.
type payloadHeader struct {
	SystemID      string `json:"system_id"`
	SystemVersion string `json:"system_version"`
	Source        string `json:"source"`
}

func (h payloadHeader) validate() error {
	if h.SystemID != swade.SystemID {
		return fmt.Errorf("unsupported system id %s", h.SystemID)
	}
	if h.SystemVersion != defaultSystemVer {
		return fmt.Errorf("unsupported system version %s", h.SystemVersion)
	}
	if strings.TrimSpace(h.Source) == "" {
		return fmt.Errorf("source is required")
	}
	return nil
}

type payload[T any] struct {
	payloadHeader
	Items []T `json:"items"`
}

// payloadFiles holds every payload found in the import directory. A nil
// field means the file was absent.
type payloadFiles struct {
	Attributes        *payload[content.Attribute]
	Skills            *payload[content.Skill]
	Edges             *payload[content.Edge]
	Hindrances        *payload[content.Hindrance]
	Powers            *payload[content.Power]
	Ancestries        *payload[content.Ancestry]
	ArcaneBackgrounds *payload[content.ArcaneBackground]
	Gear              *payload[content.Gear]
}

func (p payloadFiles) empty() bool {
	return p.Attributes == nil && p.Skills == nil && p.Edges == nil && p.Hindrances == nil &&
		p.Powers == nil && p.Ancestries == nil && p.ArcaneBackgrounds == nil && p.Gear == nil
}

// validate checks every present header.
func (p payloadFiles) validate() error {
	headers := []struct {
		file   string
		header *payloadHeader
	}{
		{fileAttributes, headerOf(p.Attributes)},
		{fileSkills, headerOf(p.Skills)},
		{fileEdges, headerOf(p.Edges)},
		{fileHindrances, headerOf(p.Hindrances)},
		{filePowers, headerOf(p.Powers)},
		{fileAncestries, headerOf(p.Ancestries)},
		{fileArcaneBackgrounds, headerOf(p.ArcaneBackgrounds)},
		{fileGear, headerOf(p.Gear)},
	}
	for _, h := range headers {
		if h.header == nil {
			continue
		}
		if err := h.header.validate(); err != nil {
			return fmt.Errorf("%s: %w", h.file, err)
		}
	}
	return nil
}

func headerOf[T any](p *payload[T]) *payloadHeader {
	if p == nil {
		return nil
	}
	return &p.payloadHeader
}

func itemsOf[T any](p *payload[T]) []T {
	if p == nil {
		return nil
	}
	return p.Items
}

// data flattens the payloads into one content set.
func (p payloadFiles) data() content.Data {
	return content.Data{
		Attributes:        itemsOf(p.Attributes),
		Skills:            itemsOf(p.Skills),
		Edges:             itemsOf(p.Edges),
		Hindrances:        itemsOf(p.Hindrances),
		Powers:            itemsOf(p.Powers),
		Ancestries:        itemsOf(p.Ancestries),
		ArcaneBackgrounds: itemsOf(p.ArcaneBackgrounds),
		Gear:              itemsOf(p.Gear),
	}
}
