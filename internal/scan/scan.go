// Package scan detects what the installed sigrok-cli supports: its
// version, the libraries it was built against, and the input/output
// formats, transform modules, and hardware drivers it advertises.
// The parsers are pure functions over captured stdout so they can be
// tested without the real tool.
package scan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okolodkin/sigrokdev/internal/sigrokcli"
)

// Invoker runs the sigrok-cli executable. Implemented by *sigrokcli.CLI.
type Invoker interface {
	Path() string
	Run(ctx context.Context, args []string, timeout time.Duration) (*sigrokcli.Result, error)
}

// Info aggregates everything Detect learns about the installed tool.
type Info struct {
	Path    string       `json:"path"`
	Version *VersionInfo `json:"version"`
	Support *SupportInfo `json:"support"`
}

// Detect runs --version and -L against the resolved executable and
// parses both outputs.
func Detect(ctx context.Context, cli Invoker) (*Info, error) {
	vres, err := cli.Run(ctx, []string{"--version"}, 0)
	if err != nil {
		return nil, err
	}
	if vres.ExitCode != 0 {
		return nil, fmt.Errorf("sigrok-cli --version exited %d: %s", vres.ExitCode, strings.TrimSpace(vres.Stderr))
	}

	sres, err := cli.Run(ctx, []string{"-L"}, 0)
	if err != nil {
		return nil, err
	}
	if sres.ExitCode != 0 {
		return nil, fmt.Errorf("sigrok-cli -L exited %d: %s", sres.ExitCode, strings.TrimSpace(sres.Stderr))
	}

	return &Info{
		Path:    cli.Path(),
		Version: ParseVersion(vres.Stdout),
		Support: ParseSupport(sres.Stdout),
	}, nil
}

func (i *Info) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Executable: %s\n", i.Path)
	if i.Version != nil {
		fmt.Fprintf(&b, "Version: %s\n", i.Version.Version)
		if len(i.Version.Libraries) > 0 {
			fmt.Fprintln(&b, "Libraries:")
			for _, lib := range i.Version.Libraries {
				fmt.Fprintf(&b, "  %s %s\n", lib.Name, lib.Version)
			}
		}
	}
	if i.Support != nil {
		fmt.Fprintln(&b)
		fmt.Fprint(&b, i.Support.String())
	}
	return b.String()
}
