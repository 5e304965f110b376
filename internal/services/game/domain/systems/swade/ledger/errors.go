package ledger

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
)

// Budget pools named in INSUFFICIENT_POINTS rejections.
const (
	PoolAttribute = "attribute"
	PoolSkill     = "skill"
	PoolHindrance = "hindrance"
	PoolEdge      = "edge"
	PoolPower     = "power"
	PoolAdvance   = "advance skill"
)

// InsufficientPoints builds the rejection for a pool that cannot cover cost.
func InsufficientPoints(pool string, cost, available int) error {
	return apperrors.WithMetadata(apperrors.CodeInsufficientPoints,
		fmt.Sprintf("%s pool needs %d, has %d", pool, cost, available),
		map[string]string{
			"Pool":      pool,
			"Cost":      strconv.Itoa(cost),
			"Available": strconv.Itoa(available),
		})
}

// RequirementNotMet builds the rejection for an entity whose prerequisites
// fail. unmet is the evaluator's explanation list.
func RequirementNotMet(entity string, unmet []string) error {
	joined := strings.Join(unmet, "; ")
	return apperrors.WithMetadata(apperrors.CodeRequirementNotMet,
		fmt.Sprintf("%s requirements not met: %s", entity, joined),
		map[string]string{"Entity": entity, "Unmet": joined})
}

// DuplicateSelection builds the rejection for a non-repeatable entity that
// is already held.
func DuplicateSelection(entity string) error {
	return apperrors.WithMetadata(apperrors.CodeDuplicateSelection,
		fmt.Sprintf("%s is already selected", entity),
		map[string]string{"Entity": entity})
}

// CompanionConflict builds the rejection for taking both severities of a
// hindrance.
func CompanionConflict(entity, companion string) error {
	return apperrors.WithMetadata(apperrors.CodeCompanionConflict,
		fmt.Sprintf("%s conflicts with %s", entity, companion),
		map[string]string{"Entity": entity, "Companion": companion})
}

// InvalidMutation builds the rejection for a mutation the character's state
// cannot accept.
func InvalidMutation(reason string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidMutation, reason, map[string]string{"Reason": reason})
}

func creationIncomplete(unmet []string) error {
	joined := strings.Join(unmet, "; ")
	return apperrors.WithMetadata(apperrors.CodeCreationIncomplete,
		"character creation is not complete: "+joined,
		map[string]string{"Unmet": joined})
}
