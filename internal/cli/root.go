// Package cli implements the WordKite command-line interface using Cobra.
// Subcommands run against the local store directly; the daemon does not
// need to be running for inspection commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wordkite",
	Short: "WordKite — progression and streak engine",
	Long: `WordKite is the progression engine for the WordKite learning game.
It tracks daily streaks, awards completion rewards and milestone bonuses,
and syncs player state to the authoritative backend.`,
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
