package units

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrMissingWeight is returned when a weight field is empty.
	ErrMissingWeight = errors.New("weight is required")
	// ErrInvalidWeight is returned when a weight field is not a decimal number.
	ErrInvalidWeight = errors.New("weight must be a number")
	// ErrBelowBar is returned when the requested total is lighter than the empty bar.
	ErrBelowBar = errors.New("total weight is below the bar weight")
	// ErrAsymmetric is returned when the plates above the bar cannot be split into two identical sides.
	ErrAsymmetric = errors.New("total weight cannot be loaded symmetrically")
	// ErrTooHeavy is returned for weights beyond MaxKg.
	ErrTooHeavy = errors.New("weight is too large")
)

// MaxKg is the heaviest total accepted anywhere. Keeping weights below it
// keeps unit counts well inside int range and solver tables small.
var MaxKg = decimal.NewFromInt(10000)

// maxMagnitude bounds the integer digits ParseKg accepts before any arithmetic.
const maxMagnitude = 9

var two = decimal.NewFromInt(2)

// ParseKg parses a user supplied kilogram value.
func ParseKg(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, ErrMissingWeight
	}
	kg, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidWeight, trimmed)
	}
	// Exponent form such as "1e5000" must not reach rescaling arithmetic.
	if kg.NumDigits()+int(kg.Exponent()) > maxMagnitude {
		if kg.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: %q is out of range", ErrInvalidWeight, trimmed)
		}
		return decimal.Zero, fmt.Errorf("%w: at most %s kg", ErrTooHeavy, FormatKg(MaxKg))
	}
	return kg, nil
}

// ToUnits converts kilograms to half-kilogram units, rounding to the nearest unit.
// kg must not exceed MaxKg in magnitude.
func ToUnits(kg decimal.Decimal) int {
	return int(kg.Mul(two).Round(0).IntPart())
}

// FromUnits converts half-kilogram units back to kilograms.
func FromUnits(units int) decimal.Decimal {
	return decimal.NewFromInt(int64(units)).Div(two)
}

// FormatKg renders whole kilograms without a fraction and everything else with one decimal place.
func FormatKg(kg decimal.Decimal) string {
	if kg.IsInteger() {
		return kg.Truncate(0).String()
	}
	return kg.StringFixed(1)
}

// ValidateTotal checks that totalKg can be built on a bar of barKg with mirrored plates.
func ValidateTotal(totalKg, barKg decimal.Decimal) error {
	if totalKg.GreaterThan(MaxKg) || barKg.GreaterThan(MaxKg) {
		return fmt.Errorf("%w: at most %s kg", ErrTooHeavy, FormatKg(MaxKg))
	}
	if totalKg.LessThan(barKg) {
		return fmt.Errorf("%w: must be at least %s kg", ErrBelowBar, FormatKg(barKg))
	}
	delta := ToUnits(totalKg) - ToUnits(barKg)
	if delta < 0 {
		return fmt.Errorf("%w: must be at least %s kg", ErrBelowBar, FormatKg(barKg))
	}
	if delta%2 != 0 {
		return fmt.Errorf("%w with a %s kg bar: it would require a quarter-kilo per side", ErrAsymmetric, FormatKg(barKg))
	}
	return nil
}

// PerSideTargetUnits returns the half-kilogram units each side must carry.
// Callers must run ValidateTotal first.
func PerSideTargetUnits(totalKg, barKg decimal.Decimal) int {
	return (ToUnits(totalKg) - ToUnits(barKg)) / 2
}
