// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. Besides server settings it carries the
// bar and plate catalogue, the default plate inventory and the solver limits,
// all of which are handed to the solver explicitly rather than read from
// package state.
package config
