package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "envmedic",
	Short: "Provision and repair Python virtual environments from a pinned manifest",
	Long: `EnvMedic provisions an isolated Python virtual environment, installs a pinned
requirements manifest into it, and repairs failed installs with a single
cache-purge reinstall attempt. Every run ends with an installed-package report.

EnvMedic never activates an environment: it always drives the environment's own
python and pip executables directly.

Examples:
	# Show available commands and global flags
	envmedic --help

	# Provision venv/ and install requirements_list.txt
	envmedic setup

	# List packages installed in an existing environment
	envmedic list

	# List verification checks
	envmedic checks list

	# Print build info
	envmedic version

Output:
	By default, commands write human-readable output to stdout.
	Some commands support structured output via emitter flags (see each command's --help).`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints every subprocess invocation and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
