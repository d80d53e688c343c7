package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/okolodkin/sigrokdev/internal/report"
	"github.com/okolodkin/sigrokdev/internal/sigrokcli"
)

type runParams struct {
	Args    []string `json:"args,omitempty" jsonschema:"argument vector passed to sigrok-cli (e.g. [\"--show\", \"-i\", \"capture.sr\"])"`
	Timeout string   `json:"timeout,omitempty" jsonschema:"per-invocation timeout as a Go duration (e.g. \"45s\"); defaults to the configured timeout"`
}

func (h *handler) runHandler(ctx context.Context, req *sdkmcp.CallToolRequest, params runParams) (*sdkmcp.CallToolResult, any, error) {
	if len(params.Args) == 0 {
		return errorResult("args is required")
	}

	timeout, err := parseTimeout(params.Timeout)
	if err != nil {
		return errorResult(err.Error())
	}

	cli, err := h.ensureCLI()
	if err != nil {
		if errors.Is(err, sigrokcli.ErrNotFound) {
			return errorResult(notInstalledText)
		}
		return errorResult(fmt.Sprintf("resolving sigrok-cli: %v", err))
	}

	res, err := cli.Run(ctx, params.Args, timeout)
	if err != nil {
		return errorResult(fmt.Sprintf("running sigrok-cli: %v", err))
	}

	// Save for srk_inspect.
	_ = h.store.Save(report.FromResult(report.Run, params.Args, res))

	return textResult(formatResult(res))
}

func parseTimeout(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q (use a Go duration like \"45s\")", raw)
	}
	return d, nil
}

func formatResult(res *sigrokcli.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s\n", res.RunID)
	fmt.Fprintf(&b, "Exit code: %d\n", res.ExitCode)
	if res.Truncated {
		fmt.Fprintln(&b, "Output truncated at the configured cap.")
	}

	if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "stdout:")
		for _, line := range strings.Split(out, "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	if errOut := strings.TrimRight(res.Stderr, "\n"); errOut != "" {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "stderr:")
		for _, line := range strings.Split(errOut, "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}

	return b.String()
}
