// Package resolver locates the installed executables behind wrapped security tools.
//
// A Resolver walks each ToolSpec's ordered candidates, resolves an interpreter
// for script candidates, and caches the outcome (including "not found") until
// Refresh is called after a remediation step.
package resolver
