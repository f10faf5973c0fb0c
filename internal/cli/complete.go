package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wordkite/wordkite/internal/daemon"
	"github.com/wordkite/wordkite/internal/domain"
)

func init() {
	completeCmd.Flags().StringVar(&completeKind, "kind", "quiz", "Activity kind (quiz, matching, reading)")
	rootCmd.AddCommand(completeCmd)
}

var completeKind string

var completeCmd = &cobra.Command{
	Use:   "complete PLAYER ACTIVITY",
	Short: "Record a completed activity for a player",
	Long: `Record a completed activity and print the resulting rewards.
Repeat completions of the same activity award the flat repeat tier.`,
	Args: cobra.ExactArgs(2),
	RunE: runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	playerID, activityID := args[0], args[1]

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	result, err := d.Completions.CompleteActivity(context.Background(), playerID, activityID, domain.ActivityKind(completeKind))
	if err != nil {
		return err
	}

	if result.FirstCompletion {
		fmt.Printf("First completion of %s\n", activityID)
	} else {
		fmt.Printf("Repeat completion of %s\n", activityID)
	}
	fmt.Printf("  XP:     +%d\n", result.XPAwarded)
	fmt.Printf("  Gold:   +%d\n", result.CurrencyAwarded)
	if result.MilestoneAwarded {
		fmt.Printf("  Gems:   +%d (milestone)\n", result.MilestoneBonus)
	}
	if result.LeveledUp {
		fmt.Printf("  Level up! Now level %d\n", result.NewLevel)
	}
	fmt.Printf("  Streak: %d", result.NewStreakValue)
	if result.FreezesConsumed > 0 {
		fmt.Printf(" (%d freeze(s) used)", result.FreezesConsumed)
	}
	fmt.Println()
	if result.PendingSync {
		fmt.Println("  Sync:   pending (will retry in background)")
	}
	return nil
}
