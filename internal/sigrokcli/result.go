package sigrokcli

import "time"

// Result holds the captured output of one sigrok-cli invocation.
// A non-zero ExitCode is not an error at this layer; sigrok-cli's exit
// code conventions vary by sub-command, so interpretation is left to
// the caller.
type Result struct {
	RunID     string        // unique identifier for this invocation
	ExitCode  int           // process exit code
	Stdout    string        // captured stdout (may be truncated)
	Stderr    string        // captured stderr (may be truncated)
	Truncated bool          // true if either stream exceeded the size cap
	Duration  time.Duration // wall time of the invocation
}
