package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the downloads in progress once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := newService(settings).Downloads(commandContext(cmd))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if snap.Empty() {
			fmt.Fprintln(out, "No downloads in progress.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tPROGRESS")
		for _, e := range snap.Entries {
			fmt.Fprintf(w, "%s\t%s\t%.1f%%\n", e.ID, e.Title, e.Fraction()*100)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
