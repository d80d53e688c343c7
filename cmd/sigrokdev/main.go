// Command sigrokdev wraps the external sigrok-cli tool: locate it,
// invoke it, and run the import-and-convert pipeline.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/okolodkin/sigrokdev"
	"github.com/okolodkin/sigrokdev/internal/config"
	srkmcp "github.com/okolodkin/sigrokdev/internal/mcp"
	"github.com/okolodkin/sigrokdev/internal/report"
	"github.com/okolodkin/sigrokdev/internal/scan"
	"github.com/okolodkin/sigrokdev/internal/sigrokcli"
)

var (
	statusOK   = color.New(color.FgGreen)
	statusFail = color.New(color.FgRed)
	statusInfo = color.New(color.FgCyan)
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sigrokdev: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "detect":
		err = detectMain(args)
	case "run":
		err = runMain(args)
	case "import":
		err = importMain(args)
	case "inspect":
		err = inspectMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(sigrokdev.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "sigrokdev: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: sigrokdev <command> [flags]

Commands:
  detect      Locate sigrok-cli and report its version and capabilities
  run         Run sigrok-cli with a raw argument vector (after --)
  import      Import a signal file and convert it (e.g. VCD to .sr)
  inspect     Show a recorded invocation by run ID
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Use "sigrokdev <command> -h" for command-specific flags.`)
}

// --- detect ---

func detectMain(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	cliPath := fs.String("cli", "", "explicit path to the sigrok-cli executable")
	jsonFlag := fs.Bool("json", false, "output as JSON")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli, _, err := newCLI(*cliPath, 0)
	if err != nil {
		return err
	}

	info, err := scan.Detect(ctx, cli)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	statusOK.Printf("Found sigrok-cli: %s\n", cli.Path())
	fmt.Print(info.String())
	return nil
}

// --- run ---

func runMain(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cliPath := fs.String("cli", "", "explicit path to the sigrok-cli executable")
	jsonFlag := fs.Bool("json", false, "output the invocation record as JSON")
	timeoutFlag := fs.Duration("timeout", 0, "override the configured timeout (e.g. 45s)")
	_ = fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		return fmt.Errorf("no arguments to pass; use: sigrokdev run [flags] -- <sigrok-cli args>")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli, _, err := newCLI(*cliPath, *timeoutFlag)
	if err != nil {
		return err
	}

	if !*jsonFlag {
		statusInfo.Fprintf(os.Stderr, "Running sigrok-cli %v\n", argv)
	}

	res, err := cli.Run(ctx, argv, 0)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	rec := report.FromResult(report.Run, argv, res)
	_ = report.NewDiskStore().Save(rec)

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return err
		}
	} else {
		fmt.Print(res.Stdout)
		fmt.Fprint(os.Stderr, res.Stderr)
		if res.ExitCode == 0 {
			statusOK.Fprintf(os.Stderr, "ok (run %s)\n", res.RunID)
		} else {
			statusFail.Fprintf(os.Stderr, "exit %d (run %s)\n", res.ExitCode, res.RunID)
		}
	}

	// The child's exit code is the caller's to interpret; pass it through.
	if res.ExitCode != 0 {
		os.Exit(res.ExitCode)
	}
	return nil
}

// --- import ---

func importMain(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	cliPath := fs.String("cli", "", "explicit path to the sigrok-cli executable")
	inFile := fs.String("in", "", "input signal file (required)")
	outFile := fs.String("out", "", "output capture file (required)")
	inFormat := fs.String("I", "", "input format identifier (default: configured, else vcd)")
	outFormat := fs.String("O", "", "output format identifier (default: inferred from output filename)")
	jsonFlag := fs.Bool("json", false, "output the invocation record as JSON")
	timeoutFlag := fs.Duration("timeout", 0, "override the configured timeout (e.g. 2m)")
	_ = fs.Parse(args)

	if *inFile == "" || *outFile == "" {
		return fmt.Errorf("both -in and -out are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli, cfg, err := newCLI(*cliPath, *timeoutFlag)
	if err != nil {
		return err
	}

	req := sigrokcli.ImportRequest{
		InputFile:    *inFile,
		OutputFile:   *outFile,
		InputFormat:  *inFormat,
		OutputFormat: *outFormat,
	}
	if req.InputFormat == "" {
		req.InputFormat = cfg.InputFormat()
	}
	if req.OutputFormat == "" {
		req.OutputFormat = cfg.Import.OutputFormat
	}

	res, err := cli.ImportFile(ctx, req, 0)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	rec := report.FromResult(report.Import, req.Args(), res)
	_ = report.NewDiskStore().Save(rec)

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return err
		}
	} else if res.ExitCode == 0 {
		statusOK.Printf("Imported %s -> %s (run %s)\n", req.InputFile, req.OutputFile, res.RunID)
	} else {
		fmt.Fprint(os.Stderr, res.Stderr)
		statusFail.Fprintf(os.Stderr, "import failed with exit %d (run %s)\n", res.ExitCode, res.RunID)
	}

	if res.ExitCode != 0 {
		os.Exit(1)
	}
	return nil
}

// --- inspect ---

func inspectMain(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: sigrokdev inspect <run-id>")
	}

	rec, err := report.NewDiskStore().Load(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	fmt.Print(srkmcp.FormatRecord(rec))
	return nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(srkmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return serve(ctx, *httpAddr)
}

func serve(ctx context.Context, httpAddr string) error {
	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config

	// The executable is resolved lazily by the server, so MCP startup
	// succeeds even when sigrok-cli is not installed yet.
	store := report.NewLRUStore(5, report.NewDiskStore())
	server := srkmcp.NewServer(cfg, nil, store, workspace)

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- shared ---

// newCLI resolves the executable using the explicit path, the loaded
// configuration, and the standard search, in that order of precedence.
func newCLI(cliPath string, timeoutOverride time.Duration) (*sigrokcli.CLI, *config.Config, error) {
	workspace, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config

	path := cliPath
	if path == "" {
		path = cfg.SigrokCLI
	}

	cli, err := sigrokcli.NewWithLocator(sigrokcli.Locator{
		Path: path,
		Dirs: cfg.SearchDirs,
	})
	if err != nil {
		return nil, nil, err
	}

	cli.Timeout = cfg.Timeout()
	if timeoutOverride > 0 {
		cli.Timeout = timeoutOverride
	}
	cli.MaxOutput = cfg.MaxOutputBytes()

	return cli, cfg, nil
}
