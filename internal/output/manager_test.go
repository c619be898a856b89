package output

import (
	"errors"
	"testing"

	"envmedic/internal/checks"
)

type memorySink struct {
	writes   []any
	closed   bool
	writeErr error
	closeErr error
}

func (s *memorySink) Write(v any) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.writes = append(s.writes, v)
	return nil
}

func (s *memorySink) Close() error {
	s.closed = true
	return s.closeErr
}

func TestManager_FansOutToAllSinks(t *testing.T) {
	m := NewManager()
	a, b := &memorySink{}, &memorySink{}
	if err := m.AddSink(a); err != nil {
		t.Fatalf("AddSink returned error: %v", err)
	}
	if err := m.AddSink(b); err != nil {
		t.Fatalf("AddSink returned error: %v", err)
	}

	if err := m.Write(checks.Result{CheckID: "x", Status: checks.StatusPass}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if len(a.writes) != 1 || len(b.writes) != 1 {
		t.Fatalf("expected one write per sink, got %d and %d", len(a.writes), len(b.writes))
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !a.closed || !b.closed {
		t.Fatalf("expected both sinks closed")
	}
}

func TestManager_CollectsWriteErrors(t *testing.T) {
	m := NewManager()
	broken := &memorySink{writeErr: errors.New("disk full")}
	healthy := &memorySink{}
	_ = m.AddSink(broken)
	_ = m.AddSink(healthy)

	err := m.Write(Event{Type: "run.started"})
	if err == nil {
		t.Fatalf("expected error from broken sink")
	}
	if len(healthy.writes) != 1 {
		t.Fatalf("healthy sink should still receive the write")
	}
}

func TestManager_RejectsNilSink(t *testing.T) {
	m := NewManager()
	if err := m.AddSink(nil); err == nil {
		t.Fatalf("expected error for nil sink")
	}
}
