package manifest

import "testing"

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.21.0", "1.21.0", 0},
		{"1.21", "1.21.0", 0},
		{"1.21.1", "1.21.0", 1},
		{"1.20.9", "1.21.0", -1},
		{"2", "1.99.99", 1},
		{"0.1", "0.1.1", -1},
	}

	for _, tt := range tests {
		a, err := ParseVersion(tt.a)
		if err != nil {
			t.Fatalf("ParseVersion(%q) returned error: %v", tt.a, err)
		}
		b, err := ParseVersion(tt.b)
		if err != nil {
			t.Fatalf("ParseVersion(%q) returned error: %v", tt.b, err)
		}
		if got := a.Compare(b); got != tt.want {
			t.Fatalf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseVersion_Rejects(t *testing.T) {
	for _, s := range []string{"", "1.0rc1", "1..2", "v1.0", "-1.0"} {
		if _, err := ParseVersion(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestRequirementSatisfies(t *testing.T) {
	tests := []struct {
		name      string
		req       Requirement
		installed string
		want      bool
	}{
		{"minimum_met_exactly", Requirement{Name: "numpy", Constraint: ConstraintMinimum, Version: "1.21.0"}, "1.21.0", true},
		{"minimum_exceeded", Requirement{Name: "numpy", Constraint: ConstraintMinimum, Version: "1.21.0"}, "1.26.4", true},
		{"minimum_not_met", Requirement{Name: "numpy", Constraint: ConstraintMinimum, Version: "1.21.0"}, "1.20.3", false},
		{"exact_match", Requirement{Name: "requests", Constraint: ConstraintExact, Version: "2.31.0"}, "2.31.0", true},
		{"exact_mismatch", Requirement{Name: "requests", Constraint: ConstraintExact, Version: "2.31.0"}, "2.32.0", false},
		{"any_accepts_prerelease", Requirement{Name: "pyyaml", Constraint: ConstraintAny}, "6.0rc1", true},
		{"pin_rejects_prerelease", Requirement{Name: "pyyaml", Constraint: ConstraintMinimum, Version: "6.0"}, "6.1rc1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Satisfies(tt.installed); got != tt.want {
				t.Fatalf("Satisfies(%q) = %v, want %v", tt.installed, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Flask", "flask"},
		{"python_dateutil", "python-dateutil"},
		{"zope.interface", "zope-interface"},
		{"  Django  ", "django"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
