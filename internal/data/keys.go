package data

// DependencyKey uniquely identifies an environment diagnostic a check can
// depend on.
type DependencyKey string

const (
	// DepInstalledPackages is the environment's installed package inventory
	// ([]pip.InstalledPackage from `pip list --format=json`).
	DepInstalledPackages DependencyKey = "env.packages"

	// DepInterpreterVersion is the version string reported by the
	// environment's own interpreter ("3.12.1").
	DepInterpreterVersion DependencyKey = "env.python_version"

	// DepPipVersion is the version string reported by the environment's own
	// pip ("24.2").
	DepPipVersion DependencyKey = "env.pip_version"
)
