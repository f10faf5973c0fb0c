package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wordkite/wordkite/internal/daemon"
)

func init() {
	walletCmd.Flags().IntVar(&walletLimit, "limit", 20, "Maximum entries to show")
	rootCmd.AddCommand(walletCmd)
}

var walletLimit int

var walletCmd = &cobra.Command{
	Use:   "wallet PLAYER",
	Short: "Show a player's currency ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runWallet,
}

func runWallet(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	entries, err := d.Wallet.History(args[0], walletLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No ledger entries.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tCURRENCY\tAMOUNT\tBALANCE\tREASON")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t+%d\t%d\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Currency,
			e.Amount,
			e.Balance,
			e.Reason,
		)
	}
	return w.Flush()
}
