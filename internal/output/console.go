package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"envmedic/internal/checks"
)

// stepEmoji prefixes lifecycle steps in text mode, matching the operator
// console style of the setup scripts this tool replaces.
var stepEmoji = map[string]string{
	"provision": "🔧",
	"install":   "📦",
	"repair":    "♻️",
	"verify":    "🔎",
	"report":    "📋",
}

type ConsoleSink struct {
	writer          io.Writer
	format          string // "text", "json", "ndjson"
	mu              sync.Mutex
	results         []checks.Result // For JSON array output
	allowedStatuses map[string]bool
}

func NewConsoleSink(w io.Writer, format string, filterStatuses []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}

	if len(filterStatuses) > 0 {
		s.allowedStatuses = make(map[string]bool)
		for _, st := range filterStatuses {
			// Normalize to uppercase for case-insensitive comparison.
			// The status types are "PASS", "FAIL", "SKIPPED", "ERROR".
			s.allowedStatuses[strings.ToUpper(st)] = true
		}
	}

	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	// Apply filtering if configured
	if len(s.allowedStatuses) > 0 {
		if r, ok := v.(checks.Result); ok {
			if !s.allowedStatuses[string(r.Status)] {
				return nil
			}
		}
	}

	switch s.format {
	case "json":
		r, ok := v.(checks.Result)
		if !ok {
			// Ignore non-result events in JSON console mode.
			return nil
		}
		s.results = append(s.results, r)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case checks.Result:
			e := eventFromResult(t)
			if err := encoder.Encode(e); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		switch t := v.(type) {
		case checks.Result:
			if err := s.writeTextResult(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case Event:
			if err := s.writeTextEvent(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeTextResult(r checks.Result) error {
	if _, err := fmt.Fprintf(s.writer, "[%s] %s", statusSprint(r.Status), r.CheckID); err != nil {
		return err
	}
	if r.Message != "" {
		if _, err := fmt.Fprintf(s.writer, " - %s", r.Message); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(s.writer)
	return err
}

func (s *ConsoleSink) writeTextEvent(e Event) error {
	switch e.Type {
	case "run.started":
		_, err := fmt.Fprintf(s.writer, "🐍 Setting up %s (%d requirements, %d checks)\n", e.Env, e.Requirements, e.Checks)
		return err
	case "step.started":
		emoji := stepEmoji[e.Step]
		if emoji == "" {
			emoji = "•"
		}
		detail := ""
		if e.Detail != "" {
			detail = " (" + e.Detail + ")"
		}
		_, err := fmt.Fprintf(s.writer, "%s %s...%s\n", emoji, stepLabel(e.Step), detail)
		return err
	case "step.finished":
		mark := "✅"
		if e.Outcome == "failed" {
			mark = "❌"
		}
		detail := ""
		if e.Detail != "" {
			detail = " - " + e.Detail
		}
		_, err := fmt.Fprintf(s.writer, "%s %s %s%s\n", mark, stepLabel(e.Step), e.Outcome, detail)
		return err
	case "env.packages":
		if _, err := fmt.Fprintf(s.writer, "📦 Installed packages (%d):\n", len(e.Packages)); err != nil {
			return err
		}
		for _, p := range e.Packages {
			if _, err := fmt.Fprintf(s.writer, "  %s==%s\n", p.Name, p.Version); err != nil {
				return err
			}
		}
		return nil
	default:
		// run.finished and unknown events are silent in text mode.
		return nil
	}
}

func stepLabel(step string) string {
	switch step {
	case "provision":
		return "Provisioning environment"
	case "install":
		return "Installing requirements"
	case "repair":
		return "Repairing (cache purge + no-cache reinstall)"
	case "verify":
		return "Verifying environment"
	case "report":
		return "Reporting"
	}
	return step
}

func statusSprint(st checks.Status) string {
	switch st {
	case checks.StatusPass:
		return color.GreenString(string(st))
	case checks.StatusFail, checks.StatusError:
		return color.RedString(string(st))
	case checks.StatusSkipped:
		return color.YellowString(string(st))
	}
	return string(st)
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.results); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
