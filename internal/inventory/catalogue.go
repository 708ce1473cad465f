package inventory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eugenenazirov/plate-changer/internal/units"
)

// ErrInvalidCatalogue indicates the bar or plate weights violate validation rules.
var ErrInvalidCatalogue = errors.New("catalogue needs a non-negative bar weight and distinct positive plate weights in half-kilogram steps")

var (
	defaultBarKg    = decimal.NewFromInt(20)
	defaultPlatesKg = []string{"25", "20", "15", "10", "5", "2.5", "1", "0.5"}
	// Total plates owned, both sides combined.
	defaultTotals = map[string]int{
		"25":  2,
		"20":  4,
		"15":  4,
		"10":  8,
		"5":   8,
		"2.5": 8,
		"1":   8,
		"0.5": 8,
	}
)

// Catalogue is the bar weight and the ordered list of plate weights loaded per side.
type Catalogue struct {
	bar    decimal.Decimal
	plates []decimal.Decimal
	units  []int
	labels []string
}

// NewCatalogue validates the weights and precomputes their unit values.
func NewCatalogue(barKg decimal.Decimal, platesKg []decimal.Decimal) (Catalogue, error) {
	if barKg.IsNegative() || !isHalfKiloStep(barKg) || len(platesKg) == 0 {
		return Catalogue{}, ErrInvalidCatalogue
	}

	c := Catalogue{
		bar:    barKg,
		plates: make([]decimal.Decimal, 0, len(platesKg)),
		units:  make([]int, 0, len(platesKg)),
		labels: make([]string, 0, len(platesKg)),
	}
	seen := make(map[int]struct{}, len(platesKg))
	for _, kg := range platesKg {
		if !kg.IsPositive() || !isHalfKiloStep(kg) {
			return Catalogue{}, fmt.Errorf("%w: plate %s kg", ErrInvalidCatalogue, kg)
		}
		u := units.ToUnits(kg)
		if _, dup := seen[u]; dup {
			return Catalogue{}, fmt.Errorf("%w: duplicate plate %s kg", ErrInvalidCatalogue, kg)
		}
		seen[u] = struct{}{}
		c.plates = append(c.plates, kg)
		c.units = append(c.units, u)
		c.labels = append(c.labels, units.FormatKg(kg))
	}
	return c, nil
}

// DefaultCatalogue returns a 20 kg bar with 25 to 0.5 kg plates.
func DefaultCatalogue() Catalogue {
	c, err := NewCatalogue(defaultBarKg, DefaultPlatesKg())
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultBarKg returns the default bar weight.
func DefaultBarKg() decimal.Decimal {
	return defaultBarKg
}

// DefaultPlatesKg returns a copy of the default plate weights, heaviest first.
func DefaultPlatesKg() []decimal.Decimal {
	out := make([]decimal.Decimal, len(defaultPlatesKg))
	for i, raw := range defaultPlatesKg {
		out[i] = decimal.RequireFromString(raw)
	}
	return out
}

// DefaultTotals returns a copy of the default plate totals keyed by plate label.
func DefaultTotals() map[string]int {
	out := make(map[string]int, len(defaultTotals))
	for k, v := range defaultTotals {
		out[k] = v
	}
	return out
}

// BarKg returns the bar weight.
func (c Catalogue) BarKg() decimal.Decimal {
	return c.bar
}

// Len returns the number of plate denominations.
func (c Catalogue) Len() int {
	return len(c.plates)
}

// PlateKg returns the weight of the plate at index i.
func (c Catalogue) PlateKg(i int) decimal.Decimal {
	return c.plates[i]
}

// PlatesKg returns a copy of the plate weights.
func (c Catalogue) PlatesKg() []decimal.Decimal {
	out := make([]decimal.Decimal, len(c.plates))
	copy(out, c.plates)
	return out
}

// Units returns a copy of the plate weights in half-kilogram units.
func (c Catalogue) Units() []int {
	out := make([]int, len(c.units))
	copy(out, c.units)
	return out
}

// Labels returns the display labels of the plates ("25", "2.5", ...).
func (c Catalogue) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Index resolves a plate label such as "2.5" or "2.50" to its position.
func (c Catalogue) Index(label string) (int, bool) {
	kg, err := units.ParseKg(label)
	if err != nil {
		return 0, false
	}
	for i, plate := range c.plates {
		if plate.Equal(kg) {
			return i, true
		}
	}
	return 0, false
}

func isHalfKiloStep(kg decimal.Decimal) bool {
	return kg.Mul(decimal.NewFromInt(2)).IsInteger()
}
