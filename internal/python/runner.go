package python

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner executes external commands. The engine and pip client depend on this
// interface instead of os/exec so tests can script subprocess behavior.
type Runner interface {
	// Run executes name with args and returns captured stdout. Stderr is
	// captured separately and attached to the returned error on failure.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// RunError is returned when a command exits non-zero. It keeps the captured
// stderr so callers can decide how much of it to surface.
type RunError struct {
	Cmd      string
	ExitCode int
	Stderr   []byte
	Err      error
}

func (e *RunError) Error() string {
	msg := strings.TrimSpace(string(e.Stderr))
	if msg == "" {
		return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Cmd, e.Err, msg)
}

func (e *RunError) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Verbose prints every command before it runs, plus full stderr on
	// failure, to Log.
	Verbose bool
	// Log receives verbose diagnostics; nil means discard.
	Log io.Writer
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("run: nil context")
	}
	if r.Verbose && r.Log != nil {
		fmt.Fprintf(r.Log, "+ %s %s\n", name, strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// Surface cancellation/timeouts as such rather than as a tool failure.
		if ctx.Err() != nil {
			return stdout.Bytes(), ctx.Err()
		}
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		if r.Verbose && r.Log != nil && stderr.Len() > 0 {
			fmt.Fprintf(r.Log, "%s", stderr.String())
		}
		return stdout.Bytes(), &RunError{
			Cmd:      name + " " + strings.Join(args, " "),
			ExitCode: code,
			Stderr:   stderr.Bytes(),
			Err:      err,
		}
	}
	return stdout.Bytes(), nil
}
