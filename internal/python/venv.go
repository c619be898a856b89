package python

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Env is an explicit handle to a provisioned virtual environment. Later
// pipeline stages receive an Env instead of relying on an "activated"
// interpreter in ambient process state.
type Env struct {
	// Root is the virtual environment directory.
	Root string
}

// binDir returns the environment's executable directory ("bin" on POSIX,
// "Scripts" on Windows).
func (e *Env) binDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(e.Root, "Scripts")
	}
	return filepath.Join(e.Root, "bin")
}

// Python returns the path to the environment's own interpreter.
func (e *Env) Python() string {
	name := "python"
	if runtime.GOOS == "windows" {
		name = "python.exe"
	}
	return filepath.Join(e.binDir(), name)
}

// Pip returns the path to the environment's own pip executable.
func (e *Env) Pip() string {
	name := "pip"
	if runtime.GOOS == "windows" {
		name = "pip.exe"
	}
	return filepath.Join(e.binDir(), name)
}

// Exists reports whether root already holds a virtual environment, detected
// via the pyvenv.cfg marker the venv module writes.
func Exists(root string) bool {
	info, err := os.Stat(filepath.Join(root, "pyvenv.cfg"))
	return err == nil && !info.IsDir()
}

// Provision creates a virtual environment at root using the given base
// interpreter, or reuses an existing one. Reuse keeps repeated runs
// idempotent; a half-deleted directory without pyvenv.cfg is recreated by
// `python -m venv`, which tolerates an existing directory.
//
// Returned envs are valid only if err is nil.
func Provision(ctx context.Context, r Runner, interpreter, root string) (*Env, bool, error) {
	if r == nil {
		return nil, false, errors.New("provision: nil runner")
	}
	if interpreter == "" {
		return nil, false, errors.New("provision: no interpreter")
	}
	if root == "" {
		return nil, false, errors.New("provision: empty environment root")
	}

	if Exists(root) {
		return &Env{Root: root}, true, nil
	}

	if _, err := r.Run(ctx, interpreter, "-m", "venv", root); err != nil {
		return nil, false, fmt.Errorf("create virtual environment at %s: %w", root, err)
	}
	return &Env{Root: root}, false, nil
}
