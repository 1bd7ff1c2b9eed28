// Package telemetry groups the observability packages: structured
// logging (logging) and Prometheus metrics (metrics).
package telemetry
