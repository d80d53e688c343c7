package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/okolodkin/sigrokdev/internal/config"
	"github.com/okolodkin/sigrokdev/internal/report"
	"github.com/okolodkin/sigrokdev/internal/sigrokcli"
)

// stubScript answers --version, -L, and import invocations the way a
// real sigrok-cli would, well enough for the parsers.
const stubScript = `#!/bin/sh
case "$1" in
--version)
cat <<'EOF'
sigrok-cli 0.7.2

Using libraries:
- libsigrok 0.5.2/4:0:0 (rt: 0.5.2/4:0:0).
EOF
;;
-L)
cat <<'EOF'
Supported input formats:
  vcd                  Value Change Dump data

Supported output formats:
  srzip                srzip session file format data
EOF
;;
-i)
echo "import ok"
;;
*)
echo "unknown arguments: $@" >&2
exit 1
;;
esac
`

// setup creates a sigrokdev MCP server backed by a stub executable and
// connects a client over in-memory transports.
func setup(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	stub := filepath.Join(dir, "sigrok-cli")
	if err := os.WriteFile(stub, []byte(stubScript), 0o755); err != nil {
		t.Fatal(err)
	}

	cli, err := sigrokcli.New(stub)
	if err != nil {
		t.Fatalf("sigrokcli.New: %v", err)
	}

	store := report.NewLRUStore(5, report.NewDiskStoreIn(t.TempDir()))
	server := NewServer(&config.Config{}, cli, store, dir)

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})

	return cs
}

// callTool invokes a tool and returns its text content.
func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	for _, c := range res.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			return tc.Text, res.IsError
		}
	}
	return "", res.IsError
}

func TestDetectTool(t *testing.T) {
	cs := setup(t)

	text, isErr := callTool(t, cs, "srk_detect", nil)
	if isErr {
		t.Fatalf("srk_detect returned error: %s", text)
	}
	if !strings.Contains(text, "Version: 0.7.2") {
		t.Errorf("detect output missing version:\n%s", text)
	}
	if !strings.Contains(text, "vcd") || !strings.Contains(text, "srzip") {
		t.Errorf("detect output missing formats:\n%s", text)
	}
}

func TestRunTool(t *testing.T) {
	cs := setup(t)

	text, isErr := callTool(t, cs, "srk_run", map[string]any{
		"args": []string{"--version"},
	})
	if isErr {
		t.Fatalf("srk_run returned error: %s", text)
	}
	if !strings.Contains(text, "Exit code: 0") {
		t.Errorf("run output missing exit code:\n%s", text)
	}
	if !strings.Contains(text, "sigrok-cli 0.7.2") {
		t.Errorf("run output missing stdout:\n%s", text)
	}
}

func TestRunTool_NonZeroExitIsData(t *testing.T) {
	cs := setup(t)

	text, isErr := callTool(t, cs, "srk_run", map[string]any{
		"args": []string{"--bogus"},
	})
	if isErr {
		t.Fatalf("srk_run must not flag non-zero exit as tool error: %s", text)
	}
	if !strings.Contains(text, "Exit code: 1") {
		t.Errorf("run output missing exit code:\n%s", text)
	}
	if !strings.Contains(text, "unknown arguments") {
		t.Errorf("run output missing stderr:\n%s", text)
	}
}

func TestRunTool_MissingArgs(t *testing.T) {
	cs := setup(t)

	text, isErr := callTool(t, cs, "srk_run", nil)
	if !isErr {
		t.Fatalf("expected error result, got: %s", text)
	}
}

func TestImportAndInspect(t *testing.T) {
	cs := setup(t)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.vcd")
	if err := os.WriteFile(in, []byte("$timescale 1ns $end\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.sr")

	text, isErr := callTool(t, cs, "srk_import", map[string]any{
		"input_file":  in,
		"output_file": out,
	})
	if isErr {
		t.Fatalf("srk_import returned error: %s", text)
	}
	if !strings.Contains(text, "Imported") {
		t.Errorf("import output missing status:\n%s", text)
	}

	runID := extractRunID(t, text)
	inspected, isErr := callTool(t, cs, "srk_inspect", map[string]any{
		"run_id": runID,
	})
	if isErr {
		t.Fatalf("srk_inspect returned error: %s", inspected)
	}
	if !strings.Contains(inspected, "(import)") {
		t.Errorf("inspect output missing kind:\n%s", inspected)
	}
	if !strings.Contains(inspected, "-I vcd") {
		t.Errorf("inspect output missing argv:\n%s", inspected)
	}
}

func TestImportTool_MissingInput(t *testing.T) {
	cs := setup(t)
	dir := t.TempDir()

	text, isErr := callTool(t, cs, "srk_import", map[string]any{
		"input_file":  filepath.Join(dir, "absent.vcd"),
		"output_file": filepath.Join(dir, "out.sr"),
	})
	if !isErr {
		t.Fatalf("expected error result for missing input, got: %s", text)
	}
}

func TestInspectTool_UnknownRun(t *testing.T) {
	cs := setup(t)

	text, isErr := callTool(t, cs, "srk_inspect", map[string]any{
		"run_id": "does-not-exist",
	})
	if !isErr {
		t.Fatalf("expected error result, got: %s", text)
	}
}

// extractRunID pulls the run ID from a "Run: <id>" line.
func extractRunID(t *testing.T, text string) string {
	t.Helper()
	for _, line := range strings.Split(text, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Run: "); ok {
			return strings.TrimSpace(rest)
		}
	}
	t.Fatalf("no run ID in output:\n%s", text)
	return ""
}
