// Package plates finds minimum-plate loadings for a per-side target and picks
// the pair of loadings that needs the fewest plate-pair moves to go from one
// target to another.
//
// Weights are integer half-kilogram units. Availability is counted in pairs
// because plates are always loaded on both sides.
package plates
