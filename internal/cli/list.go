package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"envmedic/internal/flags"
	"envmedic/internal/pip"
	"envmedic/internal/python"
)

var (
	listVenv   string
	listFormat string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List packages installed in an existing environment",
	Long: `List the packages installed in an already-provisioned virtual environment.

This is the standalone form of the report every "envmedic setup" run ends
with. It never creates or modifies the environment.

Examples:
  # List packages in venv/
  envmedic list

  # Machine-readable output
  envmedic list --format json
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listFormat != "text" && listFormat != "json" {
			return fmt.Errorf("unsupported --format: %s (must be text or json)", listFormat)
		}
		if !python.Exists(listVenv) {
			return fmt.Errorf("no virtual environment at %s (run 'envmedic setup' first)", listVenv)
		}

		runner := &python.ExecRunner{Verbose: cfg.Runtime.Verbose, Log: os.Stderr}
		client, err := pip.NewClient(&python.Env{Root: listVenv}, runner)
		if err != nil {
			return err
		}

		pkgs, err := client.List(cmd.Context())
		if err != nil {
			return err
		}

		switch listFormat {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(pkgs)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "📦 Installed packages (%d):\n", len(pkgs))
			for _, p := range pkgs {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s==%s\n", p.Name, p.Version)
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listVenv, flags.FlagVenv, "venv", "Virtual environment directory to inspect")
	listCmd.Flags().StringVar(&listFormat, "format", "text", "Output format: text|json")
}
