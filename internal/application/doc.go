// Package application provides application initialization and dependency wiring.
// It builds the plate catalogue, inventory storage, solver, planner, metrics,
// handlers, routers and HTTP server from a config.Config, keeping the main
// package focused on CLI parsing and orchestration.
package application
