// Package sigrokcli locates and invokes the external sigrok-cli
// executable, capturing exit codes and output streams with timeouts
// and per-stream size caps. All signal-capture, decoding, and
// file-format logic lives inside sigrok-cli itself; this package only
// marshals arguments and reports what the tool said.
package sigrokcli

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/google/uuid"
)

// Defaults for invocation limits.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxOutput = 1 << 20 // 1 MB per stream
)

// CLI is a reusable client for the sigrok-cli executable: create once,
// use many times. The executable path is resolved at construction time
// and never changes. Safe for concurrent use; each call spawns an
// independent child process and shares no mutable state.
type CLI struct {
	path string

	// Timeout is the default per-invocation timeout, applied when a
	// call does not supply its own. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxOutput caps each captured stream in bytes. Zero means
	// DefaultMaxOutput.
	MaxOutput int
}

// New creates a CLI around the executable at path. An empty path
// triggers the standard search (PATH, then common install locations).
func New(path string) (*CLI, error) {
	return NewWithLocator(Locator{Path: path})
}

// NewWithLocator creates a CLI using a custom Locator.
func NewWithLocator(l Locator) (*CLI, error) {
	resolved, err := l.Locate()
	if err != nil {
		return nil, err
	}
	return &CLI{path: resolved}, nil
}

// Path returns the resolved executable path.
func (c *CLI) Path() string { return c.path }

// Run invokes sigrok-cli with the given argument vector and waits up
// to timeout for completion. A timeout <= 0 falls back to c.Timeout,
// then DefaultTimeout.
//
// The returned Result carries the exit code and both output streams;
// a non-zero exit code is not an error. Run fails with *TimeoutError
// when the deadline passes (the child is killed, not left running) and
// with *ExecError when the process cannot be started at all.
func (c *CLI) Run(ctx context.Context, args []string, timeout time.Duration) (*Result, error) {
	if timeout <= 0 {
		timeout = c.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxOutput := c.MaxOutput
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.path, args...)
	// Descendants holding the output pipes must not stall the return
	// after the child itself has been killed.
	cmd.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: maxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: maxOutput}

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	// CommandContext kills the child on deadline; by the time Run
	// returns, the process has been reaped.
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &TimeoutError{Path: c.path, Args: args, Timeout: timeout}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return nil, &ExecError{Path: c.path, Err: runErr}
		}
	}

	return &Result{
		RunID:     uuid.New().String(),
		ExitCode:  exitCode,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Truncated: stdout.Len() >= maxOutput || stderr.Len() >= maxOutput,
		Duration:  elapsed,
	}, nil
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from io.Copy.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
