package planner

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eugenenazirov/plate-changer/internal/units"
)

// FormatMoves renders moves as "1× 20 kg, 2× 2.5 kg" (pairs per plate).
func FormatMoves(moves []Move) string {
	parts := make([]string, 0, len(moves))
	for _, m := range moves {
		parts = append(parts, fmt.Sprintf("%d× %s kg", m.Pairs, units.FormatKg(m.PlateKg)))
	}
	return strings.Join(parts, ", ")
}

// FormatPlates renders one side of the bar as "20 + 10 + 2.5", or "empty".
func FormatPlates(list []decimal.Decimal) string {
	if len(list) == 0 {
		return "empty"
	}
	parts := make([]string, len(list))
	for i, kg := range list {
		parts[i] = units.FormatKg(kg)
	}
	return strings.Join(parts, " + ")
}
