package verify

import (
	"context"
	"fmt"
	"strings"

	"envmedic/internal/checks"
	"envmedic/internal/data"
	"envmedic/internal/manifest"
)

type InterpreterWorksCheck struct {
	minVersion string
}

func (c *InterpreterWorksCheck) ID() string {
	return "interpreter-works"
}

func (c *InterpreterWorksCheck) Title() string {
	return "Environment Interpreter Works"
}

func (c *InterpreterWorksCheck) Description() string {
	return "Verifies that the virtual environment's own interpreter runs and reports a parseable version, optionally at or above a configured minimum."
}

func (c *InterpreterWorksCheck) Options() []checks.Option {
	return []checks.Option{
		{
			Name:        "min_version",
			Description: "Minimum acceptable interpreter version (e.g. 3.9); empty disables the version gate",
			Default:     "",
		},
	}
}

func (c *InterpreterWorksCheck) Configure(opts map[string]string) error {
	for name, value := range opts {
		switch name {
		case "min_version":
			v := strings.TrimSpace(value)
			if v != "" {
				if _, err := manifest.ParseVersion(v); err != nil {
					return fmt.Errorf("invalid min_version: %w", err)
				}
			}
			c.minVersion = v
		default:
			return fmt.Errorf("unknown option %q", name)
		}
	}
	return nil
}

func (c *InterpreterWorksCheck) Dependencies(ctx context.Context, target checks.Target) ([]data.DependencyKey, error) {
	return []data.DependencyKey{data.DepInterpreterVersion}, nil
}

func (c *InterpreterWorksCheck) Evaluate(ctx context.Context, target checks.Target, dc data.DataContext) (checks.Result, error) {
	val, ok := dc.Get(data.DepInterpreterVersion)
	if !ok {
		return checks.ErrorResult(target, c.ID(), "Dependency missing"), nil
	}
	version, ok := val.(string)
	if !ok {
		return checks.ErrorResult(target, c.ID(), "Invalid dependency type"), nil
	}

	got, err := manifest.ParseVersion(version)
	if err != nil {
		return checks.FailResult(target, c.ID(), "Interpreter reported unparseable version "+version), nil
	}

	if c.minVersion != "" {
		want, err := manifest.ParseVersion(c.minVersion)
		if err != nil {
			return checks.ErrorResult(target, c.ID(), "Invalid min_version option: "+c.minVersion), nil
		}
		if got.Compare(want) < 0 {
			return checks.FailResult(target, c.ID(),
				fmt.Sprintf("Interpreter version %s is below required minimum %s", version, c.minVersion)), nil
		}
	}

	return checks.PassResultWithMessage(target, c.ID(), "Interpreter responds (Python "+version+")"), nil
}

func init() {
	checks.Register(&InterpreterWorksCheck{})
}
