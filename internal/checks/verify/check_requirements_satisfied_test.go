package verify

import (
	"context"
	"strings"
	"testing"

	"envmedic/internal/checks"
	"envmedic/internal/data"
	"envmedic/internal/manifest"
	"envmedic/internal/pip"
)

func reqTarget(reqs ...manifest.Requirement) checks.Target {
	return checks.Target{
		EnvRoot:  "venv",
		Manifest: &manifest.Manifest{Path: "requirements_list.txt", Requirements: reqs},
	}
}

func packagesContext(pkgs ...pip.InstalledPackage) data.DataContext {
	return data.NewMapDataContext(map[data.DependencyKey]any{
		data.DepInstalledPackages: pkgs,
	})
}

func TestRequirementsSatisfied_AllPresent(t *testing.T) {
	c := &RequirementsSatisfiedCheck{mode: "minimum"}
	target := reqTarget(
		manifest.Requirement{Name: "numpy", Constraint: manifest.ConstraintMinimum, Version: "1.24"},
		manifest.Requirement{Name: "requests"},
	)
	dc := packagesContext(
		pip.InstalledPackage{Name: "numpy", Version: "1.26.4"},
		pip.InstalledPackage{Name: "requests", Version: "2.32.3"},
	)

	res, err := c.Evaluate(context.Background(), target, dc)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if res.Status != checks.StatusPass {
		t.Fatalf("expected PASS, got %s: %s", res.Status, res.Message)
	}
}

func TestRequirementsSatisfied_MissingPackage(t *testing.T) {
	c := &RequirementsSatisfiedCheck{mode: "minimum"}
	target := reqTarget(manifest.Requirement{Name: "faiss-cpu", Constraint: manifest.ConstraintExact, Version: "1.8.0"})
	dc := packagesContext(pip.InstalledPackage{Name: "numpy", Version: "1.26.4"})

	res, err := c.Evaluate(context.Background(), target, dc)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if res.Status != checks.StatusFail {
		t.Fatalf("expected FAIL, got %s", res.Status)
	}
	if !strings.Contains(res.Message, "faiss-cpu==1.8.0") {
		t.Fatalf("expected missing requirement in message, got: %s", res.Message)
	}
}

func TestRequirementsSatisfied_WrongVersionCarriesEvidence(t *testing.T) {
	c := &RequirementsSatisfiedCheck{mode: "minimum"}
	target := reqTarget(manifest.Requirement{Name: "numpy", Constraint: manifest.ConstraintMinimum, Version: "2.0"})
	dc := packagesContext(pip.InstalledPackage{Name: "numpy", Version: "1.26.4"})

	res, err := c.Evaluate(context.Background(), target, dc)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if res.Status != checks.StatusFail {
		t.Fatalf("expected FAIL, got %s", res.Status)
	}
	if res.Evidence["numpy>=2.0"] != "installed 1.26.4" {
		t.Fatalf("unexpected evidence: %v", res.Evidence)
	}
}

func TestRequirementsSatisfied_NameNormalization(t *testing.T) {
	c := &RequirementsSatisfiedCheck{mode: "minimum"}
	target := reqTarget(manifest.Requirement{Name: "Python_Dateutil", Constraint: manifest.ConstraintMinimum, Version: "2.8"})
	dc := packagesContext(pip.InstalledPackage{Name: "python-dateutil", Version: "2.9.0"})

	res, err := c.Evaluate(context.Background(), target, dc)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if res.Status != checks.StatusPass {
		t.Fatalf("expected PASS via normalized names, got %s: %s", res.Status, res.Message)
	}
}

func TestRequirementsSatisfied_ExactModeTightensMinimumPins(t *testing.T) {
	c := &RequirementsSatisfiedCheck{}
	if err := c.Configure(map[string]string{"mode": "exact"}); err != nil {
		t.Fatalf("Configure returned error: %v", err)
	}

	target := reqTarget(manifest.Requirement{Name: "numpy", Constraint: manifest.ConstraintMinimum, Version: "1.24"})
	dc := packagesContext(pip.InstalledPackage{Name: "numpy", Version: "1.26.4"})

	res, err := c.Evaluate(context.Background(), target, dc)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if res.Status != checks.StatusFail {
		t.Fatalf("exact mode should fail a newer-than-pinned version, got %s", res.Status)
	}
}

func TestRequirementsSatisfied_ConfigureRejectsBadMode(t *testing.T) {
	c := &RequirementsSatisfiedCheck{}
	if err := c.Configure(map[string]string{"mode": "strictest"}); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
	if err := c.Configure(map[string]string{"severity": "high"}); err == nil {
		t.Fatalf("expected error for unknown option")
	}
}

func TestRequirementsSatisfied_MissingDependency(t *testing.T) {
	c := &RequirementsSatisfiedCheck{mode: "minimum"}
	res, err := c.Evaluate(context.Background(), reqTarget(), data.NewMapDataContext(nil))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if res.Status != checks.StatusError {
		t.Fatalf("expected ERROR without dependency, got %s", res.Status)
	}
}
