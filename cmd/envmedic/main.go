package main

import (
	_ "envmedic/internal/checks/verify"
	"envmedic/internal/cli"
	_ "envmedic/internal/inventory/providers"
)

// These variables are populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
