package sigrokcli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ImportRequest describes one import-and-convert invocation: read
// InputFile in InputFormat and write the converted capture to
// OutputFile.
type ImportRequest struct {
	InputFile  string
	OutputFile string

	// InputFormat is a free-form identifier (e.g. "vcd", "csv").
	// The set of valid identifiers is owned by sigrok-cli and changes
	// with its versions, so it is not validated here.
	InputFormat string

	// OutputFormat is optional. When empty the -O flag is omitted
	// entirely and sigrok-cli infers the format from the output
	// filename extension.
	OutputFormat string
}

// Args returns the argument vector for the request:
// -i <input> -I <input-format> -o <output> [-O <output-format>].
func (r ImportRequest) Args() []string {
	args := []string{"-i", r.InputFile, "-I", r.InputFormat, "-o", r.OutputFile}
	if r.OutputFormat != "" {
		args = append(args, "-O", r.OutputFormat)
	}
	return args
}

func (r ImportRequest) validate() error {
	if r.InputFile == "" {
		return errors.New("input file is required")
	}
	if r.OutputFile == "" {
		return errors.New("output file is required")
	}
	if r.InputFormat == "" {
		return errors.New("input format is required")
	}

	info, err := os.Stat(r.InputFile)
	if err != nil {
		return fmt.Errorf("input file %s: %w", r.InputFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("input file %s is a directory", r.InputFile)
	}
	f, err := os.Open(r.InputFile)
	if err != nil {
		return fmt.Errorf("input file %s: %w", r.InputFile, err)
	}
	_ = f.Close()

	// The output file is written by sigrok-cli, but its directory must
	// already exist; it is never created implicitly.
	dir := filepath.Dir(r.OutputFile)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("output directory %s: %w", dir, err)
	}
	return nil
}

// ImportFile validates req and delegates to Run with the argument
// vector from req.Args. Validation fails fast, before any subprocess
// is spawned: a missing or unreadable input file surfaces an error
// satisfying errors.Is(err, fs.ErrNotExist) rather than a sigrok-cli
// exit code.
func (c *CLI) ImportFile(ctx context.Context, req ImportRequest, timeout time.Duration) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	return c.Run(ctx, req.Args(), timeout)
}
