// Package die models Savage Worlds trait dice: a die size from d4 to d12 and,
// past d12, a count of +1 steps.
package die

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/medinal/swade-character-creator/internal/platform/errors"
)

// Sizes lists the valid die sizes in progression order.
var Sizes = [...]int{4, 6, 8, 10, 12}

const (
	minSize = 4
	maxSize = 12
)

var (
	// ErrNoPredecessor is returned when decrementing a d4.
	ErrNoPredecessor = errors.New("die: d4 has no predecessor")
	// ErrInvalidDirection is returned by StepsFrom when the receiver is below
	// the starting die.
	ErrInvalidDirection = errors.New("die: steps can only be counted upward")
)

// Die is an immutable trait die. The zero value is not a valid die; use the
// constructors.
type Die struct {
	size     int
	modifier int
}

// New returns the die with the given size and step modifier. The modifier may
// only be positive on a d12.
func New(size, modifier int) (Die, error) {
	if !validSize(size) {
		return Die{}, apperrors.WithMetadata(
			apperrors.CodeInvalidDieSize,
			fmt.Sprintf("die size %d is not one of 4, 6, 8, 10, 12", size),
			map[string]string{"Die": fmt.Sprintf("d%d", size)},
		)
	}
	if modifier < 0 || (modifier > 0 && size != maxSize) {
		return Die{}, apperrors.WithMetadata(
			apperrors.CodeInvalidDieSize,
			fmt.Sprintf("die modifier %+d is only allowed above d12", modifier),
			map[string]string{"Die": fmt.Sprintf("d%d%+d", size, modifier)},
		)
	}
	return Die{size: size, modifier: modifier}, nil
}

// MustNew is New for dice known at compile time. It panics on an invalid die.
func MustNew(size, modifier int) Die {
	d, err := New(size, modifier)
	if err != nil {
		panic(err)
	}
	return d
}

// D4 returns a d4.
func D4() Die { return Die{size: 4} }

// D6 returns a d6.
func D6() Die { return Die{size: 6} }

// D8 returns a d8.
func D8() Die { return Die{size: 8} }

// D10 returns a d10.
func D10() Die { return Die{size: 10} }

// D12 returns a d12.
func D12() Die { return Die{size: 12} }

// FromSteps returns the die reached after n increments from d4.
func FromSteps(n int) (Die, error) {
	if n < 0 {
		return Die{}, apperrors.New(apperrors.CodeInvalidDieSize, fmt.Sprintf("die step %d is below d4", n))
	}
	if n < len(Sizes) {
		return Die{size: Sizes[n]}, nil
	}
	return Die{size: maxSize, modifier: n - (len(Sizes) - 1)}, nil
}

// Parse reads the text form produced by String: "d8", "d12+2".
func Parse(value string) (Die, error) {
	raw := strings.ToLower(strings.TrimSpace(value))
	if !strings.HasPrefix(raw, "d") {
		return Die{}, apperrors.WithMetadata(apperrors.CodeInvalidDieSize,
			fmt.Sprintf("die %q must start with d", value), map[string]string{"Die": value})
	}
	raw = raw[1:]
	modifier := 0
	if sizePart, modPart, ok := strings.Cut(raw, "+"); ok {
		m, err := strconv.Atoi(modPart)
		if err != nil || m <= 0 {
			return Die{}, apperrors.WithMetadata(apperrors.CodeInvalidDieSize,
				fmt.Sprintf("die %q has an invalid modifier", value), map[string]string{"Die": value})
		}
		raw, modifier = sizePart, m
	}
	size, err := strconv.Atoi(raw)
	if err != nil {
		return Die{}, apperrors.WithMetadata(apperrors.CodeInvalidDieSize,
			fmt.Sprintf("die %q has an invalid size", value), map[string]string{"Die": value})
	}
	return New(size, modifier)
}

// Size returns the die size.
func (d Die) Size() int { return d.size }

// Modifier returns the number of steps past d12.
func (d Die) Modifier() int { return d.modifier }

// IsZero reports whether d is the unset zero value.
func (d Die) IsZero() bool { return d.size == 0 }

// Steps returns the number of increments needed to reach d from d4.
func (d Die) Steps() int {
	d.mustBeValid()
	return (d.size-minSize)/2 + d.modifier
}

// Increment returns the next die in the progression.
func (d Die) Increment() Die {
	d.mustBeValid()
	if d.size == maxSize {
		return Die{size: maxSize, modifier: d.modifier + 1}
	}
	return Die{size: d.size + 2}
}

// Decrement returns the previous die in the progression, or ErrNoPredecessor
// on a d4.
func (d Die) Decrement() (Die, error) {
	d.mustBeValid()
	switch {
	case d.modifier > 0:
		return Die{size: maxSize, modifier: d.modifier - 1}, nil
	case d.size == minSize:
		return d, ErrNoPredecessor
	default:
		return Die{size: d.size - 2}, nil
	}
}

// StepsFrom returns how many increments lead from other to d. It is defined
// only when d is at or above other; otherwise it returns ErrInvalidDirection.
func (d Die) StepsFrom(other Die) (int, error) {
	if d.Less(other) {
		return 0, ErrInvalidDirection
	}
	return d.Steps() - other.Steps(), nil
}

// Compare orders dice by size, then by modifier. It returns -1, 0 or +1.
func (d Die) Compare(other Die) int {
	switch {
	case d.size < other.size:
		return -1
	case d.size > other.size:
		return 1
	case d.modifier < other.modifier:
		return -1
	case d.modifier > other.modifier:
		return 1
	default:
		return 0
	}
}

// Less reports whether d precedes other.
func (d Die) Less(other Die) bool { return d.Compare(other) < 0 }

// AtLeast reports whether d is other or later in the progression.
func (d Die) AtLeast(other Die) bool { return d.Compare(other) >= 0 }

// Max returns the later of d and other.
func (d Die) Max(other Die) Die {
	if d.Less(other) {
		return other
	}
	return d
}

// Half returns half the die size plus half the step modifier, rounded down,
// as used for Parry and Toughness.
func (d Die) Half() int {
	d.mustBeValid()
	return d.size/2 + d.modifier/2
}

// String renders the die as "d8" or "d12+1".
func (d Die) String() string {
	if d.size == 0 {
		return "d?"
	}
	if d.modifier > 0 {
		return fmt.Sprintf("d%d+%d", d.size, d.modifier)
	}
	return fmt.Sprintf("d%d", d.size)
}

// MarshalText implements encoding.TextMarshaler.
func (d Die) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return nil, apperrors.New(apperrors.CodeInvalidDieSize, "cannot encode an unset die")
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Die) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// mustBeValid guards arithmetic against dice built outside the constructors.
// Such a die is a programming error, not a user input error.
func (d Die) mustBeValid() {
	if !validSize(d.size) || d.modifier < 0 || (d.modifier > 0 && d.size != maxSize) {
		panic(fmt.Sprintf("die: invalid die {size:%d modifier:%d}", d.size, d.modifier))
	}
}

func validSize(size int) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}
