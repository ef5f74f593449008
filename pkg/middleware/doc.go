// Package middleware provides HTTP middleware for framework servers:
// Prometheus request metrics and OpenTelemetry request tracing. Both
// follow the functional-options pattern and plug into any chi or
// net/http mux.
package middleware
