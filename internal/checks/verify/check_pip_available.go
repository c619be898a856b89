package verify

import (
	"context"

	"envmedic/internal/checks"
	"envmedic/internal/data"
)

type PipAvailableCheck struct{}

func (c *PipAvailableCheck) ID() string {
	return "pip-available"
}

func (c *PipAvailableCheck) Title() string {
	return "Environment Pip Available"
}

func (c *PipAvailableCheck) Description() string {
	return "Verifies that the virtual environment carries its own working pip executable."
}

func (c *PipAvailableCheck) Dependencies(ctx context.Context, target checks.Target) ([]data.DependencyKey, error) {
	return []data.DependencyKey{data.DepPipVersion}, nil
}

func (c *PipAvailableCheck) Evaluate(ctx context.Context, target checks.Target, dc data.DataContext) (checks.Result, error) {
	val, ok := dc.Get(data.DepPipVersion)
	if !ok {
		return checks.ErrorResult(target, c.ID(), "Dependency missing"), nil
	}
	version, ok := val.(string)
	if !ok {
		return checks.ErrorResult(target, c.ID(), "Invalid dependency type"), nil
	}
	if version == "" {
		return checks.FailResult(target, c.ID(), "pip responded without a version"), nil
	}
	return checks.PassResultWithMessage(target, c.ID(), "pip "+version+" available"), nil
}

func init() {
	checks.Register(&PipAvailableCheck{})
}
