package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/okolodkin/sigrokdev/internal/report"
)

type inspectParams struct {
	RunID string `json:"run_id" jsonschema:"the run ID from an srk_run or srk_import result"`
}

func (h *handler) inspectHandler(ctx context.Context, req *sdkmcp.CallToolRequest, params inspectParams) (*sdkmcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}

	rec, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}

	return textResult(FormatRecord(rec))
}

// FormatRecord renders a stored invocation for display. Shared with
// the CLI's inspect command.
func FormatRecord(rec *report.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s (%s)\n", rec.ID, rec.Kind)
	fmt.Fprintf(&b, "Argv: sigrok-cli %s\n", strings.Join(rec.Argv, " "))
	fmt.Fprintf(&b, "Exit code: %d\n", rec.ExitCode)
	if !rec.Time.IsZero() {
		fmt.Fprintf(&b, "Time: %s\n", rec.Time.Format("2006-01-02 15:04:05 MST"))
	}
	if rec.Duration != "" {
		fmt.Fprintf(&b, "Duration: %s\n", rec.Duration)
	}
	if rec.Truncated {
		fmt.Fprintln(&b, "Output truncated at the configured cap.")
	}

	if out := strings.TrimRight(rec.Stdout, "\n"); out != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "stdout:")
		for _, line := range strings.Split(out, "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	if errOut := strings.TrimRight(rec.Stderr, "\n"); errOut != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "stderr:")
		for _, line := range strings.Split(errOut, "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	return b.String()
}
