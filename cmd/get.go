package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/clf-downloader/clf/internal/core"
	"github.com/clf-downloader/clf/internal/types"
)

var getCmd = &cobra.Command{
	Use:   "get [link]...",
	Short: "Start downloads and watch their progress",
	Long: `get asks the server to start one download per link and then watches the progress.
A link is "series/comic", "service/series/comic", "/download/..." or a full server URL.
A link with only a series id downloads the whole series.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		service, _ := cmd.Flags().GetString("service")
		batchFile, _ := cmd.Flags().GetString("batch")
		fromClipboard, _ := cmd.Flags().GetBool("clipboard")
		noWatch, _ := cmd.Flags().GetBool("no-watch")

		links := append([]string{}, args...)
		if batchFile != "" {
			fileLinks, err := readLinksFromFile(batchFile)
			if err != nil {
				return err
			}
			links = append(links, fileLinks...)
		}
		if fromClipboard {
			clipLinks, err := readLinksFromClipboard()
			if err != nil {
				return err
			}
			links = append(links, clipLinks...)
		}
		if len(links) == 0 {
			return errors.New("no download link given")
		}

		triggers, err := parseTriggers(links, service)
		if err != nil {
			return err
		}

		if noWatch {
			return sendTriggers(cmd, newService(settings), triggers)
		}

		err = runWatch(cmd, triggers)
		if errors.Is(err, ErrAlreadyWatching) {
			// The other watcher shows the progress
			if err := sendTriggers(cmd, newService(settings), triggers); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Another clf watcher is running; press p there if it is idle.")
			return nil
		}
		return err
	},
}

// sendTriggers starts all downloads concurrently and waits for the server to accept them.
func sendTriggers(cmd *cobra.Command, service core.ProgressService, triggers []types.TriggerRequest) error {
	g, ctx := errgroup.WithContext(commandContext(cmd))
	g.SetLimit(4)

	for _, t := range triggers {
		g.Go(func() error {
			if err := service.Trigger(ctx, t); err != nil {
				return fmt.Errorf("start %s: %w", t, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, t := range triggers {
		fmt.Fprintf(out, "Requested: %s\n", t)
	}
	return nil
}

func init() {
	getCmd.Flags().String("service", "", "Service name for links that do not carry one")
	getCmd.Flags().StringP("batch", "b", "", "File containing download links (one per line)")
	getCmd.Flags().Bool("clipboard", false, "Read download links from the clipboard")
	getCmd.Flags().Bool("no-watch", false, "Only start the downloads, do not watch them")
	addWatchFlags(getCmd)
	rootCmd.AddCommand(getCmd)
}
