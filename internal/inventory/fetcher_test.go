package inventory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"envmedic/internal/data"
	"envmedic/internal/pip"
	"envmedic/internal/python"
)

type nopRunner struct{}

func (nopRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return nil, nil
}

type countingProbe struct {
	key   data.DependencyKey
	count atomic.Int64
	err   error
}

func (p *countingProbe) Key() data.DependencyKey { return p.key }

func (p *countingProbe) Fetch(ctx context.Context, f *Fetcher) (any, error) {
	n := p.count.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return n, nil
}

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	env := &python.Env{Root: "venv"}
	client, err := pip.NewClient(env, nopRunner{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return NewFetcher(env, client)
}

func TestFetch_CachesProbeResult(t *testing.T) {
	probe := &countingProbe{key: "test.cached"}
	RegisterProbe(probe)

	f := newTestFetcher(t)

	for i := 0; i < 3; i++ {
		val, err := f.Fetch(context.Background(), probe.key)
		if err != nil {
			t.Fatalf("Fetch returned error: %v", err)
		}
		if val.(int64) != 1 {
			t.Fatalf("expected cached first result, got %v", val)
		}
	}
	if got := probe.count.Load(); got != 1 {
		t.Fatalf("probe ran %d times, want 1", got)
	}
}

func TestFetch_ErrorsAreNotCached(t *testing.T) {
	probe := &countingProbe{key: "test.flaky", err: errors.New("pip exploded")}
	RegisterProbe(probe)

	f := newTestFetcher(t)

	if _, err := f.Fetch(context.Background(), probe.key); err == nil {
		t.Fatalf("expected probe error")
	}

	probe.err = nil
	val, err := f.Fetch(context.Background(), probe.key)
	if err != nil {
		t.Fatalf("Fetch after recovery returned error: %v", err)
	}
	if val.(int64) != 2 {
		t.Fatalf("expected probe to re-run after error, got %v", val)
	}
}

func TestFetch_UnknownKey(t *testing.T) {
	f := newTestFetcher(t)
	if _, err := f.Fetch(context.Background(), "test.unregistered"); err == nil {
		t.Fatalf("expected error for unregistered key")
	}
}

func TestFetch_EmptyKey(t *testing.T) {
	f := newTestFetcher(t)
	if _, err := f.Fetch(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestRegisterProbe_DuplicatePanics(t *testing.T) {
	RegisterProbe(&countingProbe{key: "test.duplicate"})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	RegisterProbe(&countingProbe{key: "test.duplicate"})
}
