// Package metrics exposes Prometheus collectors for plans and HTTP traffic.
package metrics
