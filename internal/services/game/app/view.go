package app

import (
	"time"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/advancement"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/ledger"
	"github.com/medinal/swade-character-creator/internal/services/game/storage"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// CharacterView is a stored character with everything computed from it.
type CharacterView struct {
	Snapshot         character.Snapshot      `json:"snapshot"`
	Version          int64                   `json:"version"`
	Rank             swade.Rank              `json:"rank"`
	Budget           ledger.Budget           `json:"budget"`
	Creation         ledger.CreationProgress `json:"creation"`
	Derived          character.DerivedStats  `json:"derived"`
	AdvancementState advancement.State       `json:"advancement_state"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// CharacterSummary is the listing form of a character.
type CharacterSummary struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phase     character.Phase `json:"phase"`
	Rank      swade.Rank      `json:"rank"`
	Advances  int             `json:"advances"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (s *Service) view(record storage.CharacterRecord) CharacterView {
	snapshot := record.Snapshot
	return CharacterView{
		Snapshot:         snapshot,
		Version:          record.Version,
		Rank:             s.cfg.RankForAdvances(snapshot.AdvanceCount()),
		Budget:           s.ledger.Budget(snapshot),
		Creation:         ledger.EvaluateCreationProgress(snapshot, s.cfg, s.catalog),
		Derived:          character.Derive(snapshot, s.catalog, s.cfg),
		AdvancementState: s.machine.State(snapshot),
		UpdatedAt:        record.UpdatedAt,
	}
}

func (s *Service) summary(record storage.CharacterRecord) CharacterSummary {
	return CharacterSummary{
		ID:        record.Snapshot.ID,
		Name:      record.Snapshot.Name,
		Phase:     record.Snapshot.Phase,
		Rank:      s.cfg.RankForAdvances(record.Snapshot.AdvanceCount()),
		Advances:  record.Snapshot.AdvanceCount(),
		UpdatedAt: record.UpdatedAt,
	}
}
