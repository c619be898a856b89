package verify

import (
	"context"
	"testing"

	"envmedic/internal/checks"
	"envmedic/internal/data"
)

func interpreterContext(version string) data.DataContext {
	return data.NewMapDataContext(map[data.DependencyKey]any{
		data.DepInterpreterVersion: version,
	})
}

func TestInterpreterWorks(t *testing.T) {
	tests := []struct {
		name       string
		minVersion string
		version    string
		want       checks.Status
	}{
		{name: "responds", version: "3.12.1", want: checks.StatusPass},
		{name: "meets minimum", minVersion: "3.9", version: "3.12.1", want: checks.StatusPass},
		{name: "equals minimum", minVersion: "3.12.1", version: "3.12.1", want: checks.StatusPass},
		{name: "below minimum", minVersion: "3.12", version: "3.8.10", want: checks.StatusFail},
		{name: "unparseable version", version: "dev-build", want: checks.StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &InterpreterWorksCheck{}
			if tt.minVersion != "" {
				if err := c.Configure(map[string]string{"min_version": tt.minVersion}); err != nil {
					t.Fatalf("Configure returned error: %v", err)
				}
			}

			res, err := c.Evaluate(context.Background(), checks.Target{EnvRoot: "venv"}, interpreterContext(tt.version))
			if err != nil {
				t.Fatalf("Evaluate returned error: %v", err)
			}
			if res.Status != tt.want {
				t.Fatalf("status = %s, want %s (message: %s)", res.Status, tt.want, res.Message)
			}
		})
	}
}

func TestInterpreterWorks_ConfigureRejectsBadMinimum(t *testing.T) {
	c := &InterpreterWorksCheck{}
	if err := c.Configure(map[string]string{"min_version": "three"}); err == nil {
		t.Fatalf("expected error for non-numeric min_version")
	}
}

func TestInterpreterWorks_MissingDependency(t *testing.T) {
	c := &InterpreterWorksCheck{}
	res, err := c.Evaluate(context.Background(), checks.Target{EnvRoot: "venv"}, data.NewMapDataContext(nil))
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if res.Status != checks.StatusError {
		t.Fatalf("expected ERROR without dependency, got %s", res.Status)
	}
}
