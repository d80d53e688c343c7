package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FromWorkspace(t *testing.T) {
	dir := t.TempDir()
	content := "version: 1\ntimeout: 2m\nsigrok_cli: /opt/sigrok/bin/sigrok-cli\n"
	if err := os.WriteFile(filepath.Join(dir, ".sigrokdev"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Root != dir {
		t.Errorf("Root = %q, want %q", res.Root, dir)
	}
	if res.Config.Version != 1 {
		t.Errorf("Version = %d, want 1", res.Config.Version)
	}
	if res.Config.Timeout() != 2*time.Minute {
		t.Errorf("Timeout() = %s, want 2m", res.Config.Timeout())
	}
	if res.Config.SigrokCLI != "/opt/sigrok/bin/sigrok-cli" {
		t.Errorf("SigrokCLI = %q", res.Config.SigrokCLI)
	}
}

func TestLoad_FromSubdirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".sigrokdev"), []byte("version: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "captures", "session1")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Load(sub)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Root != root {
		t.Errorf("Root = %q, want %q", res.Root, root)
	}
	if res.Config.Version != 2 {
		t.Errorf("Version = %d, want 2", res.Config.Version)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	dir := t.TempDir()

	res, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Root != dir {
		t.Errorf("Root = %q, want %q (fallback to workspace)", res.Root, dir)
	}
	if res.Config.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %s, want default", res.Config.Timeout())
	}
	if res.Config.InputFormat() != "vcd" {
		t.Errorf("InputFormat() = %q, want vcd", res.Config.InputFormat())
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{RawTimeout: "garbage", RawMaxOutput: -1}
	if cfg.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %s, want default for unparseable value", cfg.Timeout())
	}
	if cfg.MaxOutputBytes() != DefaultMaxOutput {
		t.Errorf("MaxOutputBytes() = %d, want default", cfg.MaxOutputBytes())
	}
}

func TestConfig_ImportDefaults(t *testing.T) {
	cfg := &Config{Import: ImportConfig{InputFormat: "csv", OutputFormat: "srzip"}}
	if cfg.InputFormat() != "csv" {
		t.Errorf("InputFormat() = %q, want csv", cfg.InputFormat())
	}
	if cfg.Import.OutputFormat != "srzip" {
		t.Errorf("OutputFormat = %q, want srzip", cfg.Import.OutputFormat)
	}
}
