// Package flags provides helpers for binding standardized scan flags to Cobra commands.
package flags
