// Package metrics records scan run metrics in a dedicated Prometheus registry
// and serves them over HTTP.
package metrics
