package inventory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotWholeNumber is returned when a plate total is not a non-negative integer.
	ErrNotWholeNumber = errors.New("must be a non-negative whole number")
	// ErrUnpaired is returned when a plate total is odd.
	ErrUnpaired = errors.New("must be even (so you have matching pairs for both sides)")
	// ErrUnknownPlate is returned for totals keyed by a weight that is not in the catalogue.
	ErrUnknownPlate = errors.New("is not a plate in the catalogue")
	// ErrMalformedAssignment is returned by ParseAssignments for entries without a "plate=count" shape.
	ErrMalformedAssignment = errors.New("inventory entries must look like plate=count")
	// ErrInvalidTotals is returned by Storage when totals are missing entries, negative or odd.
	ErrInvalidTotals = errors.New("inventory must hold one even, non-negative total per plate")
)

// EntryError identifies the plate whose inventory entry was rejected.
type EntryError struct {
	Plate string
	Value string
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("inventory for %s kg %v", e.Plate, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// ParseCount parses a plate total. Values such as "4.0" are accepted as whole numbers.
func ParseCount(raw string) (int, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !value.IsInteger() || value.IsNegative() || !value.LessThan(decimal.NewFromInt(1<<31)) {
		return 0, ErrNotWholeNumber
	}
	return int(value.IntPart()), nil
}

// Resolve overlays raw totals keyed by plate label on base, validates every
// entry and returns the totals in catalogue order. base must hold one total
// per plate; entries absent from raw keep their base value.
func Resolve(c Catalogue, raw map[string]string, base []int) ([]int, error) {
	if len(base) != c.Len() {
		return nil, fmt.Errorf("base inventory has %d entries for %d plates", len(base), c.Len())
	}

	totals := make([]int, len(base))
	copy(totals, base)

	// Sorted so that the first reported error does not depend on map order.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	overrides := make(map[int]string, len(raw))
	for _, key := range keys {
		idx, ok := c.Index(key)
		if !ok {
			return nil, &EntryError{Plate: strings.TrimSpace(key), Value: raw[key], Err: ErrUnknownPlate}
		}
		overrides[idx] = raw[key]
	}

	for i := range totals {
		value, ok := overrides[i]
		if !ok {
			if err := checkTotal(totals[i]); err != nil {
				return nil, &EntryError{Plate: c.labels[i], Value: fmt.Sprint(totals[i]), Err: err}
			}
			continue
		}
		count, err := ParseCount(value)
		if err == nil {
			err = checkTotal(count)
		}
		if err != nil {
			return nil, &EntryError{Plate: c.labels[i], Value: value, Err: err}
		}
		totals[i] = count
	}

	return totals, nil
}

// Pairs converts validated totals into pairs available per plate.
func Pairs(totals []int) []int {
	pairs := make([]int, len(totals))
	for i, total := range totals {
		pairs[i] = total / 2
	}
	return pairs
}

// FromMap converts totals keyed by plate label into catalogue order; plates
// missing from the map get zero.
func FromMap(c Catalogue, totals map[string]int) ([]int, error) {
	raw := make(map[string]string, len(totals))
	for k, v := range totals {
		raw[k] = fmt.Sprint(v)
	}
	return Resolve(c, raw, make([]int, c.Len()))
}

// ToMap keys totals by plate label.
func ToMap(c Catalogue, totals []int) map[string]int {
	out := make(map[string]int, len(totals))
	for i, total := range totals {
		out[c.labels[i]] = total
	}
	return out
}

// ParseAssignments parses "25=2, 20=4" into raw totals keyed by plate label.
func ParseAssignments(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		plate, count, ok := strings.Cut(part, "=")
		plate = strings.TrimSpace(plate)
		if !ok || plate == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAssignment, part)
		}
		out[plate] = strings.TrimSpace(count)
	}
	return out, nil
}

func checkTotal(total int) error {
	if total < 0 {
		return ErrNotWholeNumber
	}
	if total%2 != 0 {
		return ErrUnpaired
	}
	return nil
}
