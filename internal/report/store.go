// Package report provides structured persistence and retrieval of
// sigrok-cli invocation records, so past runs can be inspected by ID.
package report

import (
	"time"

	"github.com/okolodkin/sigrokdev/internal/sigrokcli"
)

// Kind identifies the type of an invocation.
type Kind string

const (
	// Run is a raw argument-vector invocation.
	Run Kind = "run"
	// Import is an import-and-convert invocation.
	Import Kind = "import"
)

// Store persists and retrieves invocation records.
type Store interface {
	Save(rec *Record) error
	Load(runID string) (*Record, error)
}

// Record holds everything worth keeping about one invocation.
type Record struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Argv      []string  `json:"argv"`
	ExitCode  int       `json:"exit_code"`
	Stdout    string    `json:"stdout,omitempty"`
	Stderr    string    `json:"stderr,omitempty"`
	Truncated bool      `json:"truncated,omitempty"`
	Time      time.Time `json:"time"`
	Duration  string    `json:"duration"`
}

// FromResult builds a Record from an invocation result.
func FromResult(kind Kind, argv []string, res *sigrokcli.Result) *Record {
	return &Record{
		ID:        res.RunID,
		Kind:      kind,
		Argv:      argv,
		ExitCode:  res.ExitCode,
		Stdout:    res.Stdout,
		Stderr:    res.Stderr,
		Truncated: res.Truncated,
		Time:      time.Now().UTC(),
		Duration:  res.Duration.String(),
	}
}
