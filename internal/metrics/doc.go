// Package metrics exposes Prometheus instrumentation for module invocations
// and point-in-time runtime memory readings for health reporting.
package metrics
