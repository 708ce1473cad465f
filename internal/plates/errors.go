package plates

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDenominations is returned when denominations are missing, non-positive or duplicated.
	ErrInvalidDenominations = errors.New("denominations must contain between 1 and 16 distinct positive unit weights")
	// ErrInvalidInput is returned for negative targets or availability that does not match the denominations.
	ErrInvalidInput = errors.New("target must be non-negative and availability must hold one non-negative count per denomination")
	// ErrUnreachable is returned when no combination of the available plates builds the target exactly.
	ErrUnreachable = errors.New("target cannot be built with the available plates")
)

// TargetError reports which side of a transition failed to solve.
type TargetError struct {
	Side   Side
	Target int
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s target of %d units: %v", e.Side, e.Target, e.Err)
}

func (e *TargetError) Unwrap() error {
	return e.Err
}
