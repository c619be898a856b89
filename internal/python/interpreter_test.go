package python

import (
	"errors"
	"testing"
)

func TestResolveInterpreter_PrefersExplicit(t *testing.T) {
	t.Setenv("ENVMEDIC_PYTHON", "/from/env/python")

	path, source, err := ResolveInterpreter("  /explicit/python3  ")
	if err != nil {
		t.Fatalf("ResolveInterpreter returned error: %v", err)
	}
	if path != "/explicit/python3" {
		t.Fatalf("expected explicit path, got %q", path)
	}
	if source != InterpreterSourceExplicit {
		t.Fatalf("expected explicit source, got %q", source)
	}
}

func TestResolveInterpreter_EnvVar(t *testing.T) {
	t.Setenv("ENVMEDIC_PYTHON", "/from/env/python")

	path, source, err := ResolveInterpreter("")
	if err != nil {
		t.Fatalf("ResolveInterpreter returned error: %v", err)
	}
	if path != "/from/env/python" {
		t.Fatalf("expected env path, got %q", path)
	}
	if source != InterpreterSourceEnv {
		t.Fatalf("expected env source, got %q", source)
	}
}

func TestResolveInterpreter_PathFallsBackToPython(t *testing.T) {
	t.Setenv("ENVMEDIC_PYTHON", "")

	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(name string) (string, error) {
		if name == "python" {
			return "/usr/bin/python", nil
		}
		return "", errors.New("not found")
	}

	path, source, err := ResolveInterpreter("")
	if err != nil {
		t.Fatalf("ResolveInterpreter returned error: %v", err)
	}
	if path != "/usr/bin/python" {
		t.Fatalf("expected /usr/bin/python, got %q", path)
	}
	if source != InterpreterSourcePath {
		t.Fatalf("expected path source, got %q", source)
	}
}

func TestResolveInterpreter_NothingFound(t *testing.T) {
	t.Setenv("ENVMEDIC_PYTHON", "")

	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(name string) (string, error) {
		return "", errors.New("not found")
	}

	path, _, err := ResolveInterpreter("")
	if err != nil {
		t.Fatalf("ResolveInterpreter returned error: %v", err)
	}
	if path != "" {
		t.Fatalf("expected empty path, got %q", path)
	}
}
