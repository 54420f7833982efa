package main

import (
	"github.com/spf13/cobra"
)

// Build metadata, overridden with -ldflags "-X main.version=...".
var (
	version = "0.1.0"
	commit  = "none"
	date    = "unknown"
)

// BuildInfo is the version command output.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Built   string `json:"built"`
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	})
}

func runVersion() error {
	info := BuildInfo{Version: version, Commit: commit, Built: date}
	if jsonOut {
		return printJSON(info)
	}
	printInfo("stlctl %s (commit %s, built %s)\n", info.Version, info.Commit, info.Built)
	return nil
}
