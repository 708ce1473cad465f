// Package inventory describes the bar and plate catalogue and turns the plate
// totals a gym owns into the pairs the solver may use. Totals must be even
// because every plate on one side needs a twin on the other.
package inventory
