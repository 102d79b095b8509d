// Package observability provides structured logging, Prometheus metrics
// and dependency health checks for the service.
package observability
