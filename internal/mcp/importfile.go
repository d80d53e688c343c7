package mcp

import (
	"context"
	"errors"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/okolodkin/sigrokdev/internal/report"
	"github.com/okolodkin/sigrokdev/internal/sigrokcli"
)

type importParams struct {
	InputFile    string `json:"input_file" jsonschema:"path to the signal file to import"`
	OutputFile   string `json:"output_file" jsonschema:"path to write the converted capture to; its directory must exist"`
	InputFormat  string `json:"input_format,omitempty" jsonschema:"sigrok-cli input format identifier (e.g. vcd, csv); defaults to the configured import format"`
	OutputFormat string `json:"output_format,omitempty" jsonschema:"sigrok-cli output format identifier; omitted when empty so the tool infers it from the output filename"`
	Timeout      string `json:"timeout,omitempty" jsonschema:"per-invocation timeout as a Go duration (e.g. \"2m\"); defaults to the configured timeout"`
}

func (h *handler) importHandler(ctx context.Context, req *sdkmcp.CallToolRequest, params importParams) (*sdkmcp.CallToolResult, any, error) {
	if params.InputFile == "" {
		return errorResult("input_file is required")
	}
	if params.OutputFile == "" {
		return errorResult("output_file is required")
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

	h.mu.Lock()
	cfg := h.cfg
	h.mu.Unlock()

	imp := sigrokcli.ImportRequest{
		InputFile:    params.InputFile,
		OutputFile:   params.OutputFile,
		InputFormat:  params.InputFormat,
		OutputFormat: params.OutputFormat,
	}
	if imp.InputFormat == "" {
		imp.InputFormat = cfg.InputFormat()
	}
	if imp.OutputFormat == "" {
		imp.OutputFormat = cfg.Import.OutputFormat
	}

	res, err := cli.ImportFile(ctx, imp, timeout)
	if err != nil {
		return errorResult(fmt.Sprintf("import failed: %v", err))
	}

	// Save for srk_inspect.
	_ = h.store.Save(report.FromResult(report.Import, imp.Args(), res))

	if res.ExitCode != 0 {
		return textResult(fmt.Sprintf("Import FAILED (exit %d).\n\n%s", res.ExitCode, formatResult(res)))
	}
	return textResult(fmt.Sprintf("Imported %s -> %s.\n\n%s", imp.InputFile, imp.OutputFile, formatResult(res)))
}
