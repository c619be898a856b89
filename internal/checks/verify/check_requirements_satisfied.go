package verify

import (
	"context"
	"fmt"
	"strings"

	"envmedic/internal/checks"
	"envmedic/internal/data"
	"envmedic/internal/manifest"
	"envmedic/internal/pip"
)

const (
	modeMinimum = "minimum"
	modeExact   = "exact"
)

type RequirementsSatisfiedCheck struct {
	// mode is "minimum" (honor manifest operators) or "exact" (treat every
	// version pin as an exact pin).
	mode string
}

func (c *RequirementsSatisfiedCheck) ID() string {
	return "requirements-satisfied"
}

func (c *RequirementsSatisfiedCheck) Title() string {
	return "Manifest Requirements Satisfied"
}

func (c *RequirementsSatisfiedCheck) Description() string {
	return "Verifies that every package listed in the manifest is installed in the environment at a version satisfying its pin (at-or-above for >=, exact for ==). Package names are compared case-insensitively with -, _ and . treated as equivalent."
}

func (c *RequirementsSatisfiedCheck) Options() []checks.Option {
	return []checks.Option{
		{
			Name:        "mode",
			Description: "Version matching mode: minimum honors manifest operators, exact requires installed versions to equal every pin",
			Default:     modeMinimum,
		},
	}
}

func (c *RequirementsSatisfiedCheck) Configure(opts map[string]string) error {
	for name, value := range opts {
		switch name {
		case "mode":
			v := strings.ToLower(strings.TrimSpace(value))
			if v != modeMinimum && v != modeExact {
				return fmt.Errorf("invalid mode %q (must be %s or %s)", value, modeMinimum, modeExact)
			}
			c.mode = v
		default:
			return fmt.Errorf("unknown option %q", name)
		}
	}
	return nil
}

func (c *RequirementsSatisfiedCheck) Dependencies(ctx context.Context, target checks.Target) ([]data.DependencyKey, error) {
	return []data.DependencyKey{data.DepInstalledPackages}, nil
}

func (c *RequirementsSatisfiedCheck) Evaluate(ctx context.Context, target checks.Target, dc data.DataContext) (checks.Result, error) {
	val, ok := dc.Get(data.DepInstalledPackages)
	if !ok {
		return checks.ErrorResult(target, c.ID(), "Dependency missing"), nil
	}
	pkgs, ok := val.([]pip.InstalledPackage)
	if !ok {
		return checks.ErrorResult(target, c.ID(), "Invalid dependency type"), nil
	}
	if target.Manifest == nil {
		return checks.ErrorResult(target, c.ID(), "No manifest on target"), nil
	}

	installed := make(map[string]string, len(pkgs))
	for _, p := range pkgs {
		installed[manifest.NormalizeName(p.Name)] = p.Version
	}

	var missing []string
	unsatisfied := make(map[string]string)
	for _, req := range target.Manifest.Requirements {
		got, ok := installed[manifest.NormalizeName(req.Name)]
		if !ok {
			missing = append(missing, req.String())
			continue
		}
		if !c.effective(req).Satisfies(got) {
			unsatisfied[req.String()] = "installed " + got
		}
	}

	if len(missing) == 0 && len(unsatisfied) == 0 {
		n := len(target.Manifest.Requirements)
		return checks.PassResultWithMetadata(target, c.ID(),
			fmt.Sprintf("All %d manifest requirements satisfied", n),
			map[string]any{"requirements": n, "installed_packages": len(pkgs)}), nil
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d missing (%s)", len(missing), strings.Join(missing, ", ")))
	}
	if len(unsatisfied) > 0 {
		parts = append(parts, fmt.Sprintf("%d at wrong version", len(unsatisfied)))
	}
	return checks.FailResultWithEvidence(target, c.ID(),
		"Manifest not satisfied: "+strings.Join(parts, ", "), unsatisfied), nil
}

// effective applies the mode option to a requirement.
func (c *RequirementsSatisfiedCheck) effective(req manifest.Requirement) manifest.Requirement {
	if c.mode == modeExact && req.Constraint == manifest.ConstraintMinimum {
		req.Constraint = manifest.ConstraintExact
	}
	return req
}

func init() {
	checks.Register(&RequirementsSatisfiedCheck{mode: modeMinimum})
}
