package scan

import (
	"testing"
)

const versionOutput = `sigrok-cli 0.7.2

Using libraries:
- libsigrok 0.5.2/4:0:0 (rt: 0.5.2/4:0:0).
 - Libs:
  - glib 2.66.8 (rt: 2.66.8/6608:8)
  - libzip 1.7.3
- libsigrokdecode 0.5.3/6:0:2 (rt: 0.5.3/6:0:2).
`

func TestParseVersion(t *testing.T) {
	info := ParseVersion(versionOutput)

	if info.Version != "0.7.2" {
		t.Errorf("Version = %q, want %q", info.Version, "0.7.2")
	}
	if len(info.Libraries) != 2 {
		t.Fatalf("Libraries = %v, want 2 top-level entries", info.Libraries)
	}
	if info.Libraries[0].Name != "libsigrok" {
		t.Errorf("Libraries[0].Name = %q, want libsigrok", info.Libraries[0].Name)
	}
	if info.Libraries[1].Name != "libsigrokdecode" {
		t.Errorf("Libraries[1].Name = %q, want libsigrokdecode", info.Libraries[1].Name)
	}
}

func TestParseVersion_Empty(t *testing.T) {
	info := ParseVersion("")
	if info.Version != "" {
		t.Errorf("Version = %q, want empty", info.Version)
	}
	if len(info.Libraries) != 0 {
		t.Errorf("Libraries = %v, want none", info.Libraries)
	}
}

const supportOutput = `sigrok-cli 0.7.2

Supported hardware drivers:
  demo                 Demo driver and pattern generator
  fx2lafw              fx2lafw (generic driver for FX2 based LAs)

Supported input formats:
  binary               Raw binary
  csv                  Comma-separated values
  vcd                  Value Change Dump data

Supported output formats:
  bits                 ASCII rendering with 0/1
  csv                  Comma-separated values
  srzip                srzip session file format data
  vcd                  Value Change Dump data

Supported transform modules:
  invert               Invert values
  nop                  Do nothing
  scale                Scale values by factor
`

func TestParseSupport(t *testing.T) {
	info := ParseSupport(supportOutput)

	if got := len(info.Drivers); got != 2 {
		t.Errorf("len(Drivers) = %d, want 2", got)
	}
	if got := len(info.InputFormats); got != 3 {
		t.Errorf("len(InputFormats) = %d, want 3", got)
	}
	if got := len(info.OutputFormats); got != 4 {
		t.Errorf("len(OutputFormats) = %d, want 4", got)
	}
	if got := len(info.Transforms); got != 3 {
		t.Errorf("len(Transforms) = %d, want 3", got)
	}

	if !info.InputFormat("vcd") {
		t.Error("InputFormat(vcd) = false, want true")
	}
	if info.InputFormat("wav") {
		t.Error("InputFormat(wav) = true, want false")
	}

	want := Entry{Name: "vcd", Description: "Value Change Dump data"}
	if info.InputFormats[2] != want {
		t.Errorf("InputFormats[2] = %+v, want %+v", info.InputFormats[2], want)
	}
}

func TestParseSupport_NoSections(t *testing.T) {
	info := ParseSupport("sigrok-cli 0.7.2\n\nnothing to see here\n")
	if len(info.InputFormats) != 0 || len(info.OutputFormats) != 0 {
		t.Errorf("expected no entries, got %+v", info)
	}
}

func TestParseSupport_EntriesOutsideSectionIgnored(t *testing.T) {
	out := "  stray entry before any header\n" + supportOutput
	info := ParseSupport(out)
	if got := len(info.Drivers); got != 2 {
		t.Errorf("len(Drivers) = %d, want 2", got)
	}
}
