// Package pathutils expands user home shortcuts in configured tool paths and
// file-valued scan parameters.
package pathutils
