package pip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"envmedic/internal/python"
)

// Client drives the pip executable belonging to one virtual environment.
// All commands go through the env's own pip, never a global one.
type Client struct {
	env    *python.Env
	runner python.Runner
}

func NewClient(env *python.Env, r python.Runner) (*Client, error) {
	if env == nil {
		return nil, errors.New("pip: nil environment")
	}
	if r == nil {
		return nil, errors.New("pip: nil runner")
	}
	return &Client{env: env, runner: r}, nil
}

// InstallOptions control a manifest install.
type InstallOptions struct {
	// NoCache disables pip's local cache (--no-cache-dir); set on the repair
	// attempt.
	NoCache bool
}

// Install runs `pip install -r manifestPath`. A non-zero pip exit is returned
// as an error wrapping *python.RunError.
func (c *Client) Install(ctx context.Context, manifestPath string, opts InstallOptions) error {
	args := []string{"install"}
	if opts.NoCache {
		args = append(args, "--no-cache-dir")
	}
	args = append(args, "-r", manifestPath)
	if _, err := c.runner.Run(ctx, c.env.Pip(), args...); err != nil {
		return fmt.Errorf("pip install: %w", err)
	}
	return nil
}

// CachePurge clears pip's local wheel/http cache. pip exits non-zero when the
// cache is already empty or cache support is disabled; both are fine for the
// repair path, so that failure is ignored.
func (c *Client) CachePurge(ctx context.Context) error {
	_, err := c.runner.Run(ctx, c.env.Pip(), "cache", "purge")
	if err != nil {
		var runErr *python.RunError
		if errors.As(err, &runErr) {
			return nil
		}
		return fmt.Errorf("pip cache purge: %w", err)
	}
	return nil
}

// InstalledPackage is one entry of `pip list --format=json`.
type InstalledPackage struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// List enumerates packages installed in the environment.
func (c *Client) List(ctx context.Context) ([]InstalledPackage, error) {
	out, err := c.runner.Run(ctx, c.env.Pip(), "list", "--format=json")
	if err != nil {
		return nil, fmt.Errorf("pip list: %w", err)
	}
	var pkgs []InstalledPackage
	if err := json.Unmarshal(out, &pkgs); err != nil {
		return nil, fmt.Errorf("parse pip list output: %w", err)
	}
	return pkgs, nil
}

// Version returns pip's own version string, e.g. "24.2".
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, c.env.Pip(), "--version")
	if err != nil {
		return "", fmt.Errorf("pip --version: %w", err)
	}
	// Output shape: "pip 24.2 from /path (python 3.12)".
	fields := strings.Fields(string(out))
	if len(fields) < 2 || fields[0] != "pip" {
		return "", fmt.Errorf("unexpected pip --version output %q", strings.TrimSpace(string(out)))
	}
	return fields[1], nil
}

// PythonVersion returns the env interpreter's version string, e.g. "3.12.1".
func (c *Client) PythonVersion(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, c.env.Python(), "--version")
	if err != nil {
		return "", fmt.Errorf("python --version: %w", err)
	}
	// Output shape: "Python 3.12.1".
	fields := strings.Fields(string(out))
	if len(fields) < 2 || fields[0] != "Python" {
		return "", fmt.Errorf("unexpected python --version output %q", strings.TrimSpace(string(out)))
	}
	return fields[1], nil
}
