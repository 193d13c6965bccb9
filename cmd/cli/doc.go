// Package cli constructs the redboar command-line interface. It wires the
// Cobra command hierarchy, the layered configuration loader and the zap
// loggers, and registers the scan commands.
package cli
