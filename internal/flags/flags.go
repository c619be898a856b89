package flags

// Package flags defines canonical CLI flag names shared across the CLI and engine.
// Keeping these as constants helps avoid drift between Cobra flag wiring and other
// code paths that need to reference flags (e.g. the report reproducibility
// command generation).
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Environment.Root, flags.FlagVenv, "venv", "...")
//	arg := "--" + flags.FlagVenv
const (
	// Environment
	FlagVenv   = "venv"
	FlagPython = "python"

	// Manifest
	FlagRequirements = "requirements"

	// Checks
	FlagChecks = "checks"
	FlagSet    = "set"

	// Output
	FlagConsoleFormat       = "console-format"
	FlagConsoleFilterStatus = "console-filter-status"
	FlagReport              = "report"
	FlagOut                 = "out"
	FlagOutFormat           = "out-format"
	FlagEmit                = "emit"
	FlagNoConsole           = "no-console"

	// Runtime
	FlagConfig   = "config"
	FlagTimeout  = "timeout"
	FlagNoRepair = "no-repair"
	FlagDryRun   = "dry-run"
)
