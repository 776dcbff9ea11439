package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clf-downloader/clf/internal/config"
	"github.com/clf-downloader/clf/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List downloads that finished while clf was watching",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := history.Open(config.GetHistoryPath())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		records, err := store.List(commandContext(cmd), limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintln(out, "No finished downloads recorded.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FINISHED\tTITLE\tOUTCOME\tLAST")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f%%\n",
				r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Title, r.Outcome, r.LastProgress)
		}
		return w.Flush()
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the download history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(config.GetHistoryPath())
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		n, err := store.Clear(commandContext(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries.\n", n)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show (0 = all)")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
