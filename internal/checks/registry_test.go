package checks

import (
	"context"
	"testing"

	"envmedic/internal/data"
)

type stubCheck struct {
	id string
}

func (c *stubCheck) ID() string          { return c.id }
func (c *stubCheck) Title() string       { return "Stub" }
func (c *stubCheck) Description() string { return "Stub check for registry tests" }

func (c *stubCheck) Dependencies(ctx context.Context, target Target) ([]data.DependencyKey, error) {
	return nil, nil
}

func (c *stubCheck) Evaluate(ctx context.Context, target Target, dc data.DataContext) (Result, error) {
	return PassResult(target, c.id), nil
}

func TestRegisterAndResolve(t *testing.T) {
	Register(&stubCheck{id: "stub-alpha"})
	Register(&stubCheck{id: "stub-beta"})

	got, err := Resolve("stub-beta, stub-alpha")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(got))
	}
	if got[0].ID() != "stub-beta" || got[1].ID() != "stub-alpha" {
		t.Fatalf("selector order not preserved: %s, %s", got[0].ID(), got[1].ID())
	}
}

func TestResolve_UnknownCheck(t *testing.T) {
	if _, err := Resolve("no-such-check"); err == nil {
		t.Fatalf("expected error for unknown check")
	}
}

func TestResolve_EmptySelectorReturnsAll(t *testing.T) {
	Register(&stubCheck{id: "stub-gamma"})

	got, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	found := false
	for _, c := range got {
		if c.ID() == "stub-gamma" {
			found = true
		}
	}
	if !found {
		t.Fatalf("empty selector should include every registered check")
	}
}

func TestList_SortedByID(t *testing.T) {
	all := List()
	for i := 1; i < len(all); i++ {
		if all[i-1].ID() > all[i].ID() {
			t.Fatalf("List not sorted: %s before %s", all[i-1].ID(), all[i].ID())
		}
	}
}

func TestRegister_DuplicatePanics(t *testing.T) {
	Register(&stubCheck{id: "stub-dup"})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	Register(&stubCheck{id: "stub-dup"})
}
