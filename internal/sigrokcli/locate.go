package sigrokcli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

// binaryName is the bare name of the external executable.
const binaryName = "sigrok-cli"

// defaultProbeTimeout bounds the --version probe of common-location
// candidates during the search.
const defaultProbeTimeout = 10 * time.Second

// Locator controls how the sigrok-cli executable is resolved.
// The zero value performs the standard search: PATH first, then a set
// of well-known install locations.
type Locator struct {
	// Path is an explicit executable path. When set, it is validated
	// and used as-is; no search happens.
	Path string

	// Dirs overrides the executable search directories. When non-empty,
	// neither PATH nor the common install locations are consulted. This
	// exists so tests can resolve deterministically without mutating
	// the process environment.
	Dirs []string

	// ProbeTimeout bounds the --version probe of common-location
	// candidates. Zero means defaultProbeTimeout.
	ProbeTimeout time.Duration
}

// Locate resolves the full path to the sigrok-cli executable.
// Returns an error wrapping ErrNotFound when resolution fails.
func (l Locator) Locate() (string, error) {
	if l.Path != "" {
		if err := validateExecutable(l.Path); err != nil {
			return "", err
		}
		return l.Path, nil
	}

	if len(l.Dirs) > 0 {
		for _, dir := range l.Dirs {
			candidate := filepath.Join(dir, exeName())
			if validateExecutable(candidate) == nil {
				return candidate, nil
			}
		}
		return "", fmt.Errorf("%w in search dirs %v", ErrNotFound, l.Dirs)
	}

	if path, err := exec.LookPath(binaryName); err == nil {
		return path, nil
	}

	// PATH came up empty. Probe well-known install locations; a
	// candidate only counts if it answers --version with exit 0.
	for _, candidate := range commonLocations() {
		if validateExecutable(candidate) != nil {
			continue
		}
		if l.probe(candidate) {
			return candidate, nil
		}
	}

	return "", ErrNotFound
}

// probe runs "<path> --version" and reports whether it exited cleanly.
func (l Locator) probe(path string) bool {
	timeout := l.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "--version")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run() == nil
}

// exeName returns the platform-appropriate executable file name.
func exeName() string {
	if runtime.GOOS == "windows" {
		return binaryName + ".exe"
	}
	return binaryName
}

// commonLocations lists well-known sigrok-cli install paths for the
// current platform, including portable/development layouts.
func commonLocations() []string {
	if runtime.GOOS == "windows" {
		return []string{
			`C:\Program Files\sigrok\sigrok-cli\sigrok-cli.exe`,
			`C:\Program Files (x86)\sigrok\sigrok-cli\sigrok-cli.exe`,
			`C:\sigrok\sigrok-cli\sigrok-cli.exe`,
			`.\sigrok-cli.exe`,
		}
	}
	return []string{
		"/usr/bin/sigrok-cli",
		"/usr/local/bin/sigrok-cli",
		"/opt/sigrok/bin/sigrok-cli",
		"./sigrok-cli",
		"../sigrok-cli/sigrok-cli",
	}
}

// validateExecutable checks that path references an existing regular
// file that the process may execute.
func validateExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file: %w", path, ErrNotFound)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%s is not executable: %w", path, ErrNotFound)
	}
	return nil
}
