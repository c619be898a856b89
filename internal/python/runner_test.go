package python

import (
	"errors"
	"strings"
	"testing"
)

func TestRunError_ErrorIncludesStderr(t *testing.T) {
	err := &RunError{
		Cmd:      "pip install -r requirements_list.txt",
		ExitCode: 1,
		Stderr:   []byte("ERROR: No matching distribution found for nonexistent-package\n"),
		Err:      errors.New("exit status 1"),
	}

	msg := err.Error()
	if !strings.Contains(msg, "pip install") {
		t.Fatalf("expected command in message, got: %s", msg)
	}
	if !strings.Contains(msg, "No matching distribution") {
		t.Fatalf("expected stderr in message, got: %s", msg)
	}
}

func TestRunError_ErrorWithoutStderr(t *testing.T) {
	inner := errors.New("exit status 2")
	err := &RunError{Cmd: "python -m venv venv", ExitCode: 2, Err: inner}

	if !strings.Contains(err.Error(), "exit status 2") {
		t.Fatalf("expected wrapped error in message, got: %s", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Fatalf("expected Unwrap to expose inner error")
	}
}
