// Package units converts kilogram inputs into integer half-kilogram units and
// validates that a requested total can be loaded symmetrically on a bar.
// Everything downstream of this package works on exact integers.
package units
