// Package orchestrator coordinates adapters, the executable resolver and the
// process runner into single-run scan sessions driven by a presentation layer.
package orchestrator
