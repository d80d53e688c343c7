package scan

import (
	"fmt"
	"strings"
)

// VersionInfo holds the parsed output of `sigrok-cli --version`.
type VersionInfo struct {
	Version   string    `json:"version"`
	Libraries []Library `json:"libraries,omitempty"`
}

// Library is one entry from the library list of `sigrok-cli --version`.
type Library struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Entry is one name/description line from a `sigrok-cli -L` section.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SupportInfo holds the parsed output of `sigrok-cli -L`.
type SupportInfo struct {
	Drivers       []Entry `json:"drivers,omitempty"`
	InputFormats  []Entry `json:"input_formats,omitempty"`
	OutputFormats []Entry `json:"output_formats,omitempty"`
	Transforms    []Entry `json:"transforms,omitempty"`
}

// ParseVersion parses `sigrok-cli --version` output. The first line is
// "sigrok-cli <version>"; top-level "- <name> <version>" lines below
// list the libraries the tool was built against. Unrecognised lines
// are skipped so the parser survives format drift between releases.
func ParseVersion(output string) *VersionInfo {
	info := &VersionInfo{}

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if info.Version == "" {
			if rest, ok := strings.CutPrefix(trimmed, "sigrok-cli "); ok {
				info.Version = strings.TrimSpace(rest)
				continue
			}
		}

		// Top-level library entries only; nested lines are indented
		// before the dash and fall through here untouched.
		if rest, ok := strings.CutPrefix(line, "- "); ok {
			name, version, found := strings.Cut(strings.TrimSpace(rest), " ")
			if !found {
				continue
			}
			info.Libraries = append(info.Libraries, Library{
				Name:    name,
				Version: strings.TrimSuffix(strings.TrimSpace(version), "."),
			})
		}
	}

	return info
}

// Section headers emitted by `sigrok-cli -L`.
const (
	driversHeader    = "Supported hardware drivers:"
	inputsHeader     = "Supported input formats:"
	outputsHeader    = "Supported output formats:"
	transformsHeader = "Supported transform modules:"
)

// ParseSupport parses `sigrok-cli -L` output into per-section entry
// lists. Entries are indented "name description" lines under a known
// section header; everything else is skipped.
func ParseSupport(output string) *SupportInfo {
	info := &SupportInfo{}

	var section *[]Entry
	for _, line := range strings.Split(output, "\n") {
		switch strings.TrimSpace(line) {
		case driversHeader:
			section = &info.Drivers
			continue
		case inputsHeader:
			section = &info.InputFormats
			continue
		case outputsHeader:
			section = &info.OutputFormats
			continue
		case transformsHeader:
			section = &info.Transforms
			continue
		}

		if section == nil || !strings.HasPrefix(line, " ") {
			// Unindented non-header lines end the current section.
			if strings.TrimSpace(line) != "" {
				section = nil
			}
			continue
		}

		name, desc, _ := strings.Cut(strings.TrimSpace(line), " ")
		if name == "" {
			continue
		}
		*section = append(*section, Entry{
			Name:        name,
			Description: strings.TrimSpace(desc),
		})
	}

	return info
}

// InputFormat reports whether the tool advertises the named input format.
func (s *SupportInfo) InputFormat(name string) bool {
	for _, e := range s.InputFormats {
		if e.Name == name {
			return true
		}
	}
	return false
}

func (s *SupportInfo) String() string {
	var b strings.Builder

	writeSection := func(header string, entries []Entry) {
		if len(entries) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s (%d):\n", strings.TrimSuffix(header, ":"), len(entries))
		for _, e := range entries {
			if e.Description != "" {
				fmt.Fprintf(&b, "  %-12s %s\n", e.Name, e.Description)
			} else {
				fmt.Fprintf(&b, "  %s\n", e.Name)
			}
		}
		fmt.Fprintln(&b)
	}

	writeSection(inputsHeader, s.InputFormats)
	writeSection(outputsHeader, s.OutputFormats)
	writeSection(transformsHeader, s.Transforms)
	writeSection(driversHeader, s.Drivers)

	return b.String()
}
