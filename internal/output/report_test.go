package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"envmedic/internal/checks"
	"envmedic/internal/pip"
)

func renderReport(t *testing.T, writes ...any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.md")
	s, err := NewReportSink(path)
	if err != nil {
		t.Fatalf("NewReportSink returned error: %v", err)
	}
	for _, v := range writes {
		if err := s.Write(v); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	return string(out)
}

func TestReportSink_FullRun(t *testing.T) {
	got := renderReport(t,
		Event{Type: "run.started", Env: "venv", Requirements: 2, Checks: 3},
		Event{Type: "step.finished", Step: "provision", Outcome: "succeeded", Detail: "created"},
		Event{Type: "step.finished", Step: "install", Outcome: "succeeded"},
		checks.Result{CheckID: "requirements-satisfied", Status: checks.StatusPass, Message: "All 2 manifest requirements satisfied"},
		checks.Result{CheckID: "pip-available", Status: checks.StatusFail, Message: "pip responded without a version",
			Evidence: map[string]string{"pip --version": "empty output"}},
		Event{Type: "env.packages", Packages: []pip.InstalledPackage{{Name: "numpy", Version: "1.26.4"}}},
		Event{Type: "run.finished", ExitCode: 2},
	)

	for _, want := range []string{
		"# Environment Setup Report",
		"- Environment: `venv`",
		"- Manifest requirements: 2",
		"- Outcome: degraded (exit code 2)",
		"| provision | succeeded | created |",
		"1 passed, 1 failed, 0 skipped, 0 errored.",
		"| requirements-satisfied | PASS |",
		"### pip-available",
		"- `pip --version`: empty output",
		"## Installed Packages (1)",
		"| numpy | 1.26.4 |",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in report:\n%s", want, got)
		}
	}
}

func TestReportSink_EmptyPackageListing(t *testing.T) {
	got := renderReport(t,
		Event{Type: "env.packages", Env: "venv", Packages: nil},
	)
	if !strings.Contains(got, "## Installed Packages (0)") || !strings.Contains(got, "None.") {
		t.Fatalf("expected explicit empty package section:\n%s", got)
	}
}

func TestReportSink_EscapesTableCells(t *testing.T) {
	got := renderReport(t,
		checks.Result{CheckID: "requirements-satisfied", Status: checks.StatusFail, Message: "bad | pipe\nsecond line"},
	)
	if !strings.Contains(got, `bad \| pipe second line`) {
		t.Fatalf("expected escaped cell content:\n%s", got)
	}
}

func TestOutcomeLabel(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "ok"}, {1, "repaired"}, {2, "degraded"}, {3, "failed"}, {9, "unknown"},
	}
	for _, tt := range tests {
		if got := outcomeLabel(tt.code); got != tt.want {
			t.Fatalf("outcomeLabel(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
