package engine

import (
	"fmt"

	"envmedic/internal/checks"
	"envmedic/internal/config"
	"envmedic/internal/manifest"
	"envmedic/internal/python"
)

// SetupPlan is everything resolved before the pipeline touches the
// filesystem: the base interpreter, the target environment, the parsed
// manifest, and the selected verification checks.
type SetupPlan struct {
	Interpreter       string
	InterpreterSource python.InterpreterSource
	EnvRoot           string
	EnvExists         bool
	Manifest          *manifest.Manifest
	Checks            []checks.Check
}

// BuildPlan resolves and validates all run inputs. Any error here is fatal
// and happens before provisioning, so a bad manifest never leaves a
// half-built environment behind.
func BuildPlan(cfg *config.Config) (*SetupPlan, error) {
	interp, source, err := python.ResolveInterpreter(cfg.Environment.Python)
	if err != nil {
		return nil, fmt.Errorf("resolve interpreter: %w", err)
	}
	if interp == "" {
		return nil, fmt.Errorf("no Python interpreter found (install python3, or set --python or ENVMEDIC_PYTHON)")
	}

	m, err := manifest.Load(cfg.Manifest.Path)
	if err != nil {
		return nil, err
	}
	if len(m.Requirements) == 0 {
		return nil, fmt.Errorf("%s: manifest contains no requirements", cfg.Manifest.Path)
	}

	selected, err := checks.Resolve(cfg.Checks.Selector)
	if err != nil {
		return nil, fmt.Errorf("resolve checks: %w", err)
	}
	if err := applyCheckOptionsIfAny(cfg); err != nil {
		return nil, fmt.Errorf("configure checks: %w", err)
	}

	return &SetupPlan{
		Interpreter:       interp,
		InterpreterSource: source,
		EnvRoot:           cfg.Environment.Root,
		EnvExists:         python.Exists(cfg.Environment.Root),
		Manifest:          m,
		Checks:            selected,
	}, nil
}

func applyCheckOptionsIfAny(cfg *config.Config) error {
	// applyCheckOptionsIfAny applies per-check configuration supplied via
	// repeated --set flags.
	//
	// --set values are parsed as "checkID.option=value" and routed to the
	// matching check's Configure method (only checks that implement
	// checks.ConfigurableCheck).
	//
	// Example:
	//   envmedic setup --set interpreter-works.min_version=3.9

	if len(cfg.Checks.Set) == 0 {
		return nil
	}

	assignments, err := config.ParseCheckOptionAssignments(cfg.Checks.Set)
	if err != nil {
		return err
	}

	all := checks.List()
	byID := make(map[string]checks.Check, len(all))
	for _, c := range all {
		byID[c.ID()] = c
	}

	for checkID, opts := range assignments {
		c, ok := byID[checkID]
		if !ok {
			return fmt.Errorf("unknown check ID %q", checkID)
		}
		cc, ok := c.(checks.ConfigurableCheck)
		if !ok {
			return fmt.Errorf("check %q does not support options", checkID)
		}

		allowed := make(map[string]struct{})
		for _, opt := range cc.Options() {
			allowed[opt.Name] = struct{}{}
		}
		for name := range opts {
			if _, ok := allowed[name]; !ok {
				return fmt.Errorf("unknown option %q for check %q", name, checkID)
			}
		}

		if err := cc.Configure(opts); err != nil {
			return fmt.Errorf("configure check %q: %w", checkID, err)
		}
	}

	return nil
}
