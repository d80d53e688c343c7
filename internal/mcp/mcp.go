// Package mcp provides the sigrokdev MCP server, exposing sigrok-cli
// detection, invocation, and the import pipeline as tools.
package mcp

import (
	"context"
	_ "embed"
	"net/url"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/okolodkin/sigrokdev"
	"github.com/okolodkin/sigrokdev/internal/config"
	"github.com/okolodkin/sigrokdev/internal/report"
	"github.com/okolodkin/sigrokdev/internal/sigrokcli"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	mu        sync.Mutex
	cfg       *config.Config
	cli       *sigrokcli.CLI // lazily resolved; nil until first use
	store     report.Store
	workspace string
}

// NewServer creates an MCP server with all sigrokdev tools registered.
// cli may be nil: the executable is then resolved lazily on first tool
// use, so the server starts (and reports a useful error) even on hosts
// where sigrok-cli is not installed yet.
func NewServer(cfg *config.Config, cli *sigrokcli.CLI, store report.Store, workspace string) *mcp.Server {
	h := &handler{
		cfg:       cfg,
		cli:       cli,
		store:     store,
		workspace: workspace,
	}

	mcpOpts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
		InitializedHandler: func(ctx context.Context, req *mcp.InitializedRequest) {
			h.updateWorkspaceFromRoots(ctx, req.Session)
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "sigrokdev", Version: sigrokdev.Version}, mcpOpts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "srk_detect",
		Description: `Locate the sigrok-cli executable and report its version and capabilities.

Returns the resolved path, the tool and library versions, and the supported
input formats, output formats, transform modules, and hardware drivers.`,
	}, h.detectHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "srk_run",
		Description: `Run sigrok-cli with a raw argument vector.

Returns the exit code and both output streams. A non-zero exit code is
reported as data, not as a tool error. The invocation is recorded and can
be revisited via srk_inspect.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "srk_import",
		Description: `Import a signal file and convert it to another format.

Builds the sigrok-cli import pipeline (-i/-I/-o and optionally -O). The
input file must exist; the output directory must exist; when no output
format is given, sigrok-cli infers it from the output filename. The
invocation is recorded and can be revisited via srk_inspect.`,
	}, h.importHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "srk_inspect",
		Description: `Show a recorded invocation by run ID.

Use the run_id from an srk_run or srk_import result to see the full
argument vector, exit code, and captured output.`,
	}, h.inspectHandler)

	return s
}

// ensureCLI returns the resolved CLI, locating the executable on first
// use according to the current config.
func (h *handler) ensureCLI() (*sigrokcli.CLI, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cli != nil {
		return h.cli, nil
	}
	cli, err := sigrokcli.NewWithLocator(sigrokcli.Locator{
		Path: h.cfg.SigrokCLI,
		Dirs: h.cfg.SearchDirs,
	})
	if err != nil {
		return nil, err
	}
	cli.Timeout = h.cfg.Timeout()
	cli.MaxOutput = h.cfg.MaxOutputBytes()
	h.cli = cli
	return cli, nil
}

// updateWorkspaceFromRoots queries the client for MCP roots and reloads
// the configuration from the first valid root. The cached executable is
// dropped so the next tool call re-resolves under the new config.
// Called during session initialization, before any tool calls.
func (h *handler) updateWorkspaceFromRoots(ctx context.Context, session *mcp.ServerSession) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	roots, err := session.ListRoots(ctx, &mcp.ListRootsParams{})
	if err != nil {
		return
	}
	if len(roots.Roots) == 0 {
		return
	}

	u, err := url.Parse(roots.Roots[0].URI)
	if err != nil || u.Scheme != "file" {
		return
	}
	workspace := u.Path

	loaded, err := config.Load(workspace)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.cfg = loaded.Config
	h.workspace = workspace
	h.cli = nil
	h.mu.Unlock()
}

// notInstalledText is the actionable error shown when sigrok-cli
// cannot be resolved.
const notInstalledText = `sigrok-cli is required but was not found.

Install it from https://sigrok.org/wiki/Downloads or your distribution's
package manager (package "sigrok-cli"), or set sigrok_cli in .sigrokdev
to an explicit path.`

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
