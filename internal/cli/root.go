// Package cli implements the standbyd command-line interface using
// Cobra. Each subcommand maps to one operation exposed by the engine
// (§6): running the daemon, forcing a scan, reading or writing a
// bucket, and injecting synthetic usage events for local testing.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "standbyd",
	Short: "standbyd — the app standby controller",
	Long: `standbyd classifies installed apps into standby buckets
(active, working_set, frequent, rare, never) based on recent usage,
device state, and optional external predictions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
