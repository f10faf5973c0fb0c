package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wordkite/wordkite/internal/daemon"
)

func init() {
	rootCmd.AddCommand(progressionCmd)
}

var progressionCmd = &cobra.Command{
	Use:   "progression PLAYER",
	Short: "Show a player's level, experience, and balances",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgression,
}

func runProgression(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	summary, err := d.Completions.GetSummary(args[0])
	if err != nil {
		return err
	}
	p := summary.Progression

	fmt.Printf("Level:        %d\n", p.Level)
	fmt.Printf("Experience:   %d (%d to next level)\n", p.Experience, summary.XPToNextLevel)
	fmt.Printf("Gold:         %d\n", p.GoldBalance)
	fmt.Printf("Gems:         %d\n", p.GemBalance)
	fmt.Printf("Completions:  %d\n", p.LifetimeCompletedCount)
	if summary.PendingSync > 0 {
		fmt.Printf("Pending sync: %d event(s)\n", summary.PendingSync)
	}
	return nil
}
