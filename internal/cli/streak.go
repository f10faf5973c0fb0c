package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wordkite/wordkite/internal/daemon"
)

func init() {
	rootCmd.AddCommand(streakCmd)
}

var streakCmd = &cobra.Command{
	Use:   "streak PLAYER",
	Short: "Show a player's streak record",
	Args:  cobra.ExactArgs(1),
	RunE:  runStreak,
}

func runStreak(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	state, err := d.Completions.GetStreak(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Current streak:  %d\n", state.CurrentStreak)
	fmt.Printf("Longest streak:  %d\n", state.LongestStreak)
	fmt.Printf("Freezes held:    %d\n", state.StreakFreezes)
	if !state.LastActivityDate.IsZero() {
		fmt.Printf("Last activity:   %s\n", state.LastActivityDate)
	}
	if !state.LastFreezeUseDate.IsZero() {
		fmt.Printf("Last freeze use: %s\n", state.LastFreezeUseDate)
	}
	return nil
}
