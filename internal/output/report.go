package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"envmedic/internal/checks"
	"envmedic/internal/pip"
)

// ReportSink collects results and lifecycle events during a run and renders a
// Markdown setup report on Close.
type ReportSink struct {
	path         string
	file         *os.File
	mu           sync.Mutex
	results      []checks.Result
	env          string
	requirements int
	steps        []stepRecord
	packages     []pip.InstalledPackage
	havePackages bool
	exitCode     int
	haveExitCode bool
}

type stepRecord struct {
	Step    string
	Outcome string
	Detail  string
}

func NewReportSink(path string) (*ReportSink, error) {
	if path == "" {
		return nil, fmt.Errorf("report path required")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}

	return &ReportSink{
		path: path,
		file: f,
	}, nil
}

func (s *ReportSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch t := v.(type) {
	case checks.Result:
		s.results = append(s.results, t)
	case Event:
		if t.Env != "" {
			s.env = t.Env
		}
		switch t.Type {
		case "run.started":
			s.requirements = t.Requirements
		case "step.finished":
			s.steps = append(s.steps, stepRecord{Step: t.Step, Outcome: t.Outcome, Detail: t.Detail})
		case "env.packages":
			s.packages = t.Packages
			s.havePackages = true
		case "run.finished":
			s.exitCode = t.ExitCode
			s.haveExitCode = true
		}
	}
	return nil
}

func (s *ReportSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	b.WriteString("# Environment Setup Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339))

	// --- Run Summary ---
	b.WriteString("## Summary\n\n")
	if s.env != "" {
		fmt.Fprintf(&b, "- Environment: `%s`\n", s.env)
	}
	if s.requirements > 0 {
		fmt.Fprintf(&b, "- Manifest requirements: %d\n", s.requirements)
	}
	if s.haveExitCode {
		fmt.Fprintf(&b, "- Outcome: %s (exit code %d)\n", outcomeLabel(s.exitCode), s.exitCode)
	}
	b.WriteString("\n")

	// --- Pipeline Steps ---
	if len(s.steps) > 0 {
		b.WriteString("## Steps\n\n")
		b.WriteString("| Step | Outcome | Detail |\n")
		b.WriteString("|------|---------|--------|\n")
		for _, st := range s.steps {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", st.Step, st.Outcome, st.Detail)
		}
		b.WriteString("\n")
	}

	// --- Check Results ---
	if len(s.results) > 0 {
		pass, fail, skipped, errc := 0, 0, 0, 0
		for _, r := range s.results {
			switch r.Status {
			case checks.StatusPass:
				pass++
			case checks.StatusFail:
				fail++
			case checks.StatusSkipped:
				skipped++
			case checks.StatusError:
				errc++
			}
		}

		b.WriteString("## Verification\n\n")
		fmt.Fprintf(&b, "%d passed, %d failed, %d skipped, %d errored.\n\n", pass, fail, skipped, errc)
		b.WriteString("| Check | Status | Message |\n")
		b.WriteString("|-------|--------|---------|\n")
		for _, r := range s.results {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", r.CheckID, r.Status, escapeCell(r.Message))
		}
		b.WriteString("\n")

		// Evidence for failures, so the report stands alone.
		for _, r := range s.results {
			if r.Status != checks.StatusFail || len(r.Evidence) == 0 {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n", r.CheckID)
			keys := make([]string, 0, len(r.Evidence))
			for k := range r.Evidence {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(&b, "- `%s`: %s\n", k, r.Evidence[k])
			}
			b.WriteString("\n")
		}
	}

	// --- Installed Packages ---
	if s.havePackages {
		fmt.Fprintf(&b, "## Installed Packages (%d)\n\n", len(s.packages))
		if len(s.packages) == 0 {
			b.WriteString("None.\n")
		} else {
			b.WriteString("| Package | Version |\n")
			b.WriteString("|---------|--------|\n")
			for _, p := range s.packages {
				fmt.Fprintf(&b, "| %s | %s |\n", p.Name, p.Version)
			}
		}
		b.WriteString("\n")
	}

	if _, err := s.file.WriteString(b.String()); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}

func outcomeLabel(exitCode int) string {
	switch exitCode {
	case 0:
		return "ok"
	case 1:
		return "repaired"
	case 2:
		return "degraded"
	case 3:
		return "failed"
	}
	return "unknown"
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
