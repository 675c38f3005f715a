// Package cli implements the Stridr command-line interface using Cobra.
// Each subcommand maps to a core operation (serve, sync, status, ...).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stridr",
	Short: "Stridr — Walk real steps, hike virtual trails",
	Long: `Stridr turns your daily step count into progress along curated
hiking trails, with badges, streaks, and milestones along the way.

The daemon ingests pedometer samples, reconciles them into trail
progress, and serves the companion app over a local REST API.`,
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
