// Package adapters converts structured scan parameters into validated argument
// vectors for the wrapped security tools.
//
// Each Adapter decodes a ParameterSet into its own typed parameters, rejects
// invalid combinations with a *ValidationError, and appends the fixed flags
// that keep the tool non-interactive. Adapters perform no I/O apart from
// checking that referenced files exist.
package adapters
