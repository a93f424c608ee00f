// Package metrics provides driven.Metrics implementations.
//
// Prometheus keeps counters in its own registry and can write them in the
// node-exporter textfile format after a run. Noop discards everything.
package metrics
