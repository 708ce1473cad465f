// Package planner turns a pair of kilogram totals and a plate inventory into
// a loading recommendation. It validates input in the order a user fixes it
// (inventory first, then each weight) and reports every failure as *Error so
// callers can render a specific message without parsing strings.
package planner
