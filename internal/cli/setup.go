package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"envmedic/internal/config"
	"envmedic/internal/engine"
	"envmedic/internal/flags"
	"envmedic/internal/python"
)

var cfg = config.New()

var configPath string

const setupHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Environment:
	EnvMedic needs a base Python interpreter to create the virtual environment.

	Sources (in order):
	1) --python flag
	2) ENVMEDIC_PYTHON environment variable
	3) python3, then python, on PATH

  Examples:
    # macOS/Linux
    envmedic setup

    # Explicit interpreter
    envmedic setup --python /usr/local/bin/python3.12

    # Windows PowerShell
    $env:ENVMEDIC_PYTHON = "C:\Python312\python.exe"
    envmedic setup

{{if .HasAvailableSubCommands}}Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasHelpSubCommands}}Additional help topics:
{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the environment and install the manifest",
	Long: `Provision a Python virtual environment and install the requirements manifest.

The pipeline is strictly sequential: provision, install, repair (only after a
failed install), verify, report. Provisioning is idempotent; an existing
environment at the target path is reused. The repair branch runs exactly once:
pip's cache is purged and the install is retried with caching disabled. The
final installed-package report always runs, whichever branch preceded it.

Configuration:
	Flags may also be set in a YAML config file (--config; envmedic.yaml is
	picked up automatically if present). Explicit flags win over file values.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --emit: write an additional structured stream to stdout (json or ndjson)
	- --report: write a Markdown setup report to a file
	- --no-console: suppress the console sink (use with --emit/--out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with a
	"type" field (run.started, step.started, step.finished, check.result,
	env.packages, run.finished). Check results are represented as an Event with
	type "check.result" and a nested "result" object.

Exit codes:
	0 = clean setup, install succeeded on the first attempt
	1 = repaired, install succeeded only after the cache-purge reinstall
	2 = degraded, install succeeded but verification failed
	3 = fatal (bad config, provisioning failure, or install failed after repair)

Examples:
  # Provision venv/ and install requirements_list.txt
  envmedic setup

  # Custom environment root and manifest
  envmedic setup --venv .venv --requirements requirements.txt

  # Require Python 3.10+ in verification
  envmedic setup --set interpreter-works.min_version=3.10

	# AI Agent: stream machine-readable events to stdout
	envmedic setup --no-console --emit ndjson
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := applyConfigFile(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.Timeout)

		runner := &python.ExecRunner{Verbose: cfg.Runtime.Verbose, Log: os.Stderr}
		eng := engine.NewEngine(runner)
		code := eng.Run(ctx, cfg)
		cancel()
		os.Exit(code)
	},
}

// applyConfigFile merges envmedic.yaml (or --config) into cfg, letting
// explicitly set flags win.
func applyConfigFile(cmd *cobra.Command) error {
	path := configPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultFileName
	}

	file, err := config.LoadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return file.Apply(cfg, cmd.Flags().Changed)
}

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.SetHelpTemplate(setupHelpTemplate)

	// Environment
	setupCmd.Flags().StringVar(&cfg.Environment.Root, flags.FlagVenv, cfg.Environment.Root, "Virtual environment directory (created if missing, reused if present)")
	setupCmd.Flags().StringVar(&cfg.Environment.Python, flags.FlagPython, "", "Base Python interpreter (default: ENVMEDIC_PYTHON, then python3/python on PATH)")

	// Manifest
	setupCmd.Flags().StringVar(&cfg.Manifest.Path, flags.FlagRequirements, cfg.Manifest.Path, "Requirements manifest file")

	// Checks
	setupCmd.Flags().StringVar(&cfg.Checks.Selector, flags.FlagChecks, "", "Check selector: comma-separated check IDs (empty = all checks)")
	setupCmd.Flags().StringSliceVar(&cfg.Checks.Set, flags.FlagSet, nil, "Per-check options as checkID.option=value (repeatable; comma-separated accepted)")

	// Output
	setupCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson (default: text)")
	setupCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterStatus, flags.FlagConsoleFilterStatus, nil, "Filter console check output by status (PASS, FAIL, SKIPPED, ERROR). Comma-separated.")
	setupCmd.Flags().StringVar(&cfg.Output.Report, flags.FlagReport, "", "Write a Markdown report to this path")
	setupCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured output to this path")
	setupCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	setupCmd.Flags().StringSliceVar(&cfg.Output.Emit, flags.FlagEmit, nil, "Emit additional structured stream to stdout: json|ndjson (repeatable; comma-separated accepted)")
	setupCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --emit/--out/--report)")

	// Runtime
	setupCmd.Flags().StringVar(&configPath, flags.FlagConfig, "", "YAML config file (default: envmedic.yaml if present)")
	setupCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout (default: 15m)")
	setupCmd.Flags().BoolVar(&cfg.Runtime.NoRepair, flags.FlagNoRepair, false, "Disable the cache-purge repair attempt after a failed install")
	setupCmd.Flags().BoolVar(&cfg.Runtime.DryRun, flags.FlagDryRun, false, "Resolve the interpreter and manifest and print the setup plan without executing")
}
