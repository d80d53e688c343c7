package sigrokcli

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when the sigrok-cli executable cannot be
// resolved, either because the search came up empty or because an
// explicit path does not reference an existing executable file.
var ErrNotFound = errors.New("sigrok-cli not found")

// TimeoutError is returned when an invocation exceeds its allotted
// duration. The child process has been killed by the time it is returned.
type TimeoutError struct {
	Path    string
	Args    []string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s timed out after %s", e.Path, strings.Join(e.Args, " "), e.Timeout)
}

// ExecError is returned when the process cannot be started at all
// (permission denied, binary removed between resolution and launch).
// It wraps the underlying OS error.
type ExecError struct {
	Path string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("executing %s: %v", e.Path, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
