// Package execshell runs wrapped tools as child processes.
//
// ProcessRunner spawns an ArgumentVector in its own process group, merges
// standard output and standard error into one pipe, and streams the lines as
// OutputEvent values followed by exactly one terminal event. Cancellation
// escalates from the termination signal to the kill signal with bounded waits
// so that no child outlives its execution unnoticed.
package execshell
