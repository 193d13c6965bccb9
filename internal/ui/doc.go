// Package ui renders scan runs for the console.
//
// OutputRenderer prints classified tool output with per-category styling,
// while ConsoleRunEventLogger reports run lifecycle events through a zap
// logger so that operator feedback and structured telemetry stay separate.
package ui
