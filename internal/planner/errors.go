package planner

import (
	"errors"
	"fmt"

	"github.com/eugenenazirov/plate-changer/internal/inventory"
	"github.com/eugenenazirov/plate-changer/internal/plates"
	"github.com/eugenenazirov/plate-changer/internal/units"
)

// Kind classifies why a plan could not be produced.
type Kind string

const (
	KindMissingWeight    Kind = "missing_weight"
	KindInvalidWeight    Kind = "invalid_weight"
	KindBelowBar         Kind = "below_bar"
	KindAboveLimit       Kind = "above_limit"
	KindAsymmetric       Kind = "asymmetric"
	KindInvalidInventory Kind = "invalid_inventory"
	KindUnreachable      Kind = "unreachable"
	KindInternal         Kind = "internal"
)

// ErrAboveLimit is returned when a total exceeds the configured maximum.
var ErrAboveLimit = errors.New("total weight exceeds the supported maximum")

// Error is the single error type returned by Plan. Side is set for weight and
// reachability errors, Plate for inventory errors.
type Error struct {
	Kind  Kind
	Side  plates.Side
	Plate string
	Err   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnreachable:
		return fmt.Sprintf("%s weight can't be made with the available plates", e.Side)
	case KindInvalidInventory:
		return e.Err.Error()
	}
	if e.Side != 0 {
		return fmt.Sprintf("%s: %v", e.Side, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func weightError(side plates.Side, err error) *Error {
	kind := KindInternal
	switch {
	case errors.Is(err, units.ErrMissingWeight):
		kind = KindMissingWeight
	case errors.Is(err, units.ErrInvalidWeight):
		kind = KindInvalidWeight
	case errors.Is(err, units.ErrBelowBar):
		kind = KindBelowBar
	case errors.Is(err, units.ErrAsymmetric):
		kind = KindAsymmetric
	case errors.Is(err, ErrAboveLimit), errors.Is(err, units.ErrTooHeavy):
		kind = KindAboveLimit
	}
	return &Error{Kind: kind, Side: side, Err: err}
}

func inventoryError(err error) *Error {
	e := &Error{Kind: KindInvalidInventory, Err: err}
	var entryErr *inventory.EntryError
	if errors.As(err, &entryErr) {
		e.Plate = entryErr.Plate
	}
	return e
}

func solveError(err error) *Error {
	var targetErr *plates.TargetError
	if errors.As(err, &targetErr) && errors.Is(err, plates.ErrUnreachable) {
		return &Error{Kind: KindUnreachable, Side: targetErr.Side, Err: err}
	}
	return &Error{Kind: KindInternal, Err: err}
}
