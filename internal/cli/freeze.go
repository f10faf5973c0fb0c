package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/wordkite/wordkite/internal/daemon"
)

func init() {
	rootCmd.AddCommand(freezeCmd)
}

var freezeCmd = &cobra.Command{
	Use:   "freeze PLAYER COUNT",
	Short: "Grant streak-freeze tokens to a player",
	Args:  cobra.ExactArgs(2),
	RunE:  runFreeze,
}

func runFreeze(cmd *cobra.Command, args []string) error {
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", args[1], err)
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	state, err := d.Completions.GrantFreezes(context.Background(), args[0], count)
	if err != nil {
		return err
	}

	fmt.Printf("Granted %d freeze(s). Player now holds %d.\n", count, state.StreakFreezes)
	return nil
}
