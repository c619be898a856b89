package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Constraint is the version relation a requirement pins.
type Constraint string

const (
	// ConstraintAny accepts any installed version (bare package name).
	ConstraintAny Constraint = ""
	// ConstraintMinimum accepts the pinned version or newer (">=").
	ConstraintMinimum Constraint = ">="
	// ConstraintExact accepts only the pinned version ("==").
	ConstraintExact Constraint = "=="
)

// Requirement is one parsed manifest line.
type Requirement struct {
	// Name is the package name exactly as written in the manifest.
	Name string
	// Constraint is the version relation; ConstraintAny means no version pin.
	Constraint Constraint
	// Version is the pinned version; empty when Constraint is ConstraintAny.
	Version string
	// Line is the 1-based manifest line the requirement came from.
	Line int
}

func (r Requirement) String() string {
	if r.Constraint == ConstraintAny {
		return r.Name
	}
	return r.Name + string(r.Constraint) + r.Version
}

// Manifest is an ordered, read-only list of requirements.
type Manifest struct {
	// Path is the file the manifest was loaded from ("" when parsed from a reader).
	Path         string
	Requirements []Requirement
}

// Package names per PEP 508: letters, digits, and interior ._- runs.
var nameRe = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)

// Parse reads a line-oriented requirements manifest.
//
// Blank lines and lines starting with '#' are ignored. A trailing " #" comment
// is stripped. Each remaining line must be NAME, NAME==VERSION, or
// NAME>=VERSION. Any other operator or malformed line is an error; the
// installer never gets a manifest it cannot hand to pip verbatim.
func Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, " #"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		req, err := parseRequirement(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		req.Line = lineNo
		m.Requirements = append(m.Requirements, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return m, nil
}

func parseRequirement(line string) (Requirement, error) {
	for _, op := range []Constraint{ConstraintMinimum, ConstraintExact} {
		name, version, ok := strings.Cut(line, string(op))
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		version = strings.TrimSpace(version)
		if !nameRe.MatchString(name) {
			return Requirement{}, fmt.Errorf("invalid package name %q", name)
		}
		if _, err := ParseVersion(version); err != nil {
			return Requirement{}, fmt.Errorf("requirement %q: %w", line, err)
		}
		return Requirement{Name: name, Constraint: op, Version: version}, nil
	}

	// Reject other PEP 440 operators explicitly rather than passing them
	// through to pip with semantics this tool does not verify.
	if strings.ContainsAny(line, "<>=!~") {
		return Requirement{}, fmt.Errorf("unsupported version specifier in %q (only >= and == are accepted)", line)
	}
	if !nameRe.MatchString(line) {
		return Requirement{}, fmt.Errorf("invalid package name %q", line)
	}
	return Requirement{Name: line, Constraint: ConstraintAny}, nil
}

// Load reads and parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}
