package swade

import (
	"fmt"
	"strings"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
)

// Rank is the character's experience tier, ordered from Novice upward.
type Rank int

const (
	RankNovice Rank = iota
	RankSeasoned
	RankVeteran
	RankHeroic
	RankLegendary
)

var rankNames = [...]string{"novice", "seasoned", "veteran", "heroic", "legendary"}

// Ranks lists every rank in order.
func Ranks() []Rank {
	return []Rank{RankNovice, RankSeasoned, RankVeteran, RankHeroic, RankLegendary}
}

// String returns the lowercase rank identifier.
func (r Rank) String() string {
	if r < RankNovice || r > RankLegendary {
		return fmt.Sprintf("rank(%d)", int(r))
	}
	return rankNames[r]
}

// Label returns the display name of the rank.
func (r Rank) Label() string {
	if r < RankNovice || r > RankLegendary {
		return r.String()
	}
	return DisplayName(r.String())
}

// AtLeast reports whether r meets the minimum rank.
func (r Rank) AtLeast(minimum Rank) bool { return r >= minimum }

// ParseRank reads a rank identifier, case-insensitively.
func ParseRank(value string) (Rank, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for i, name := range rankNames {
		if name == normalized {
			return Rank(i), nil
		}
	}
	return RankNovice, apperrors.WithMetadata(apperrors.CodeInvalidReference,
		fmt.Sprintf("unknown rank %q", value), map[string]string{"Reason": "unknown rank " + value})
}

// MarshalText implements encoding.TextMarshaler.
func (r Rank) MarshalText() ([]byte, error) {
	if r < RankNovice || r > RankLegendary {
		return nil, fmt.Errorf("invalid rank %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rank) UnmarshalText(text []byte) error {
	parsed, err := ParseRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
