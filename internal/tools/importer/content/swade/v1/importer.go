package catalogimporter

import (
	"context"
	"fmt"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
	"github.com/medinal/swade-character-creator/internal/services/game/storage"
)

// mergeData overlays incoming on existing by id. Existing entities keep
// their position; new ones are appended in payload order.
func mergeData(existing, incoming content.Data) content.Data {
	return content.Data{
		Attributes:        mergeByID(existing.Attributes, incoming.Attributes, func(v content.Attribute) string { return v.ID }),
		Skills:            mergeByID(existing.Skills, incoming.Skills, func(v content.Skill) string { return v.ID }),
		Edges:             mergeByID(existing.Edges, incoming.Edges, func(v content.Edge) string { return v.ID }),
		Hindrances:        mergeByID(existing.Hindrances, incoming.Hindrances, func(v content.Hindrance) string { return v.ID }),
		Powers:            mergeByID(existing.Powers, incoming.Powers, func(v content.Power) string { return v.ID }),
		Ancestries:        mergeByID(existing.Ancestries, incoming.Ancestries, func(v content.Ancestry) string { return v.ID }),
		ArcaneBackgrounds: mergeByID(existing.ArcaneBackgrounds, incoming.ArcaneBackgrounds, func(v content.ArcaneBackground) string { return v.ID }),
		Gear:              mergeByID(existing.Gear, incoming.Gear, func(v content.Gear) string { return v.ID }),
	}
}

func mergeByID[T any](existing, incoming []T, id func(T) string) []T {
	out := append([]T(nil), existing...)
	index := make(map[string]int, len(out))
	for i, v := range out {
		index[id(v)] = i
	}
	for _, v := range incoming {
		if i, ok := index[id(v)]; ok {
			out[i] = v
			continue
		}
		index[id(v)] = len(out)
		out = append(out, v)
	}
	return out
}

// importContent validates the catalog the store would hold after the import
// and writes incoming. With replace the stored catalog is swapped wholesale.
func importContent(ctx context.Context, store storage.ContentStore, incoming content.Data, replace bool) (*content.Catalog, error) {
	if store == nil {
		return nil, fmt.Errorf("content store is not configured")
	}
	result := incoming
	if !replace {
		existing, err := store.LoadContent(ctx)
		if err != nil {
			return nil, fmt.Errorf("load stored content: %w", err)
		}
		result = mergeData(existing, incoming)
	}
	catalog, err := content.New(result)
	if err != nil {
		return nil, err
	}
	if replace {
		err = store.ReplaceContent(ctx, incoming)
	} else {
		err = store.UpsertContent(ctx, incoming)
	}
	if err != nil {
		return nil, fmt.Errorf("write content: %w", err)
	}
	return catalog, nil
}

func countEntities(data content.Data) int {
	return len(data.Attributes) + len(data.Skills) + len(data.Edges) + len(data.Hindrances) +
		len(data.Powers) + len(data.Ancestries) + len(data.ArcaneBackgrounds) + len(data.Gear)
}
