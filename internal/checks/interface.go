package checks

import (
	"context"

	"envmedic/internal/data"
	"envmedic/internal/manifest"
)

// Target is what a check evaluates: one provisioned environment and the
// manifest it was installed from.
type Target struct {
	// EnvRoot is the virtual environment directory.
	EnvRoot string
	// Manifest is the parsed requirements manifest.
	Manifest *manifest.Manifest
}

type Check interface {
	ID() string
	Title() string
	Description() string

	// Dependencies declares required environment diagnostics for this target.
	Dependencies(ctx context.Context, target Target) ([]data.DependencyKey, error)

	// Evaluate runs check logic using only DataContext.
	// Checks MUST NOT spawn subprocesses.
	Evaluate(ctx context.Context, target Target, data data.DataContext) (Result, error)
}

type Option struct {
	Name        string
	Description string
	Default     string
}

type ConfigurableCheck interface {
	Check
	Options() []Option
	Configure(opts map[string]string) error
}
