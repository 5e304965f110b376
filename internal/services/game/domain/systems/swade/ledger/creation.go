package ledger

import (
	"fmt"

	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/character"
	"github.com/medinal/swade-character-creator/internal/services/game/domain/systems/swade/content"
)

const (
	// CreationStepAncestry selects an ancestry.
	CreationStepAncestry = 1
	// CreationStepAttributes spends the attribute points.
	CreationStepAttributes = 2
	// CreationStepSkills spends the skill points.
	CreationStepSkills = 3
	// CreationStepHindrances puts every usable hindrance point to use.
	CreationStepHindrances = 4
	// CreationStepEdges fills every edge slot.
	CreationStepEdges = 5
	// CreationStepPowers uses every power pick.
	CreationStepPowers = 6
)

var creationStepKeys = []string{
	"ancestry",
	"attributes",
	"skills",
	"hindrances",
	"edges",
	"powers",
}

// CreationStepProgress represents completion state for one creation step.
type CreationStepProgress struct {
	Step     int    `json:"step"`
	Key      string `json:"key"`
	Complete bool   `json:"complete"`
}

// CreationProgress describes end-to-end creation readiness.
type CreationProgress struct {
	Steps        []CreationStepProgress `json:"steps"`
	NextStep     int                    `json:"next_step"`
	Ready        bool                   `json:"ready"`
	UnmetReasons []string               `json:"unmet_reasons,omitempty"`
}

// EvaluateCreationProgress evaluates the creation steps of s.
//
// Steps complete strictly in order. A later step is not considered complete
// until all earlier steps are complete, even if its own pool is settled.
func EvaluateCreationProgress(s character.Snapshot, cfg swade.GameConfig, catalog *content.Catalog) CreationProgress {
	b := New(cfg, catalog).Budget(s)
	rawChecks := []bool{
		s.Ancestry != "" || len(catalog.Ancestries()) == 0,
		b.AttributeSpent == b.AttributePoints,
		b.SkillSpent == b.SkillPoints,
		b.HindranceAvailable == 0,
		b.EdgesTaken == b.EdgeSlots,
		b.PowersKnown == b.PowerPicks,
	}
	reasons := []string{
		"ancestry selection is required",
		poolReason("attribute points", b.AttributePoints-b.AttributeSpent),
		poolReason("skill points", b.SkillPoints-b.SkillSpent),
		poolReason("hindrance points", b.HindranceAvailable),
		poolReason("edge slots", b.EdgeSlots-b.EdgesTaken),
		poolReason("power picks", b.PowerPicks-b.PowersKnown),
	}

	steps := make([]CreationStepProgress, 0, len(creationStepKeys))
	allowComplete := true
	for i := range creationStepKeys {
		complete := rawChecks[i] && allowComplete
		steps = append(steps, CreationStepProgress{
			Step:     i + 1,
			Key:      creationStepKeys[i],
			Complete: complete,
		})
		if !complete {
			allowComplete = false
		}
	}

	nextStep := 0
	for _, step := range steps {
		if !step.Complete {
			nextStep = step.Step
			break
		}
	}

	unmet := make([]string, 0, len(reasons))
	for i, ok := range rawChecks {
		if !ok {
			unmet = append(unmet, reasons[i])
		}
	}

	return CreationProgress{
		Steps:        steps,
		NextStep:     nextStep,
		Ready:        nextStep == 0,
		UnmetReasons: unmet,
	}
}

func poolReason(pool string, remaining int) string {
	if remaining < 0 {
		return fmt.Sprintf("%s overspent by %d", pool, -remaining)
	}
	return fmt.Sprintf("%d %s unspent", remaining, pool)
}
