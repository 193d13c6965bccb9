// Package scan provides the Cobra commands that list wrapped tools, preview
// their command lines and run one scan to completion.
package scan
