package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/clf-downloader/clf/internal/config"
	"github.com/clf-downloader/clf/internal/core"
	"github.com/clf-downloader/clf/internal/history"
	"github.com/clf-downloader/clf/internal/poller"
	"github.com/clf-downloader/clf/internal/tui"
	"github.com/clf-downloader/clf/internal/types"
	"github.com/clf-downloader/clf/internal/utils"
)

// ErrAlreadyWatching is returned when another clf process holds the watcher lock.
var ErrAlreadyWatching = errors.New("clf is already watching downloads in another terminal")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the progress of running downloads",
	Long: `watch polls the server for running downloads and shows one progress bar per download.
Polling stops once nothing is left to download; press p to resume it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, nil)
	},
}

func addWatchFlags(c *cobra.Command) {
	c.Flags().Bool("headless", false, "Print progress lines instead of starting the TUI")
	c.Flags().Bool("exit-when-done", false, "Exit once no download is in progress")
}

func newService(s *config.Settings) *core.RemoteService {
	svc := core.NewRemoteService(s.Server.BaseURL, s.Server.Timeout)
	svc.UserAgent = s.Server.UserAgent
	svc.UseProxy(s.Server.ProxyURL)
	return svc
}

// doneWatcher decides when --exit-when-done may stop the watcher.
type doneWatcher struct {
	mu       sync.Mutex
	started  time.Time
	grace    time.Duration
	sawAny   bool
	once     sync.Once
	done     chan struct{}
	disabled bool
}

// newDoneWatcher waits for grace before an empty list counts as done, so
// triggered downloads have time to show up on the server.
func newDoneWatcher(grace time.Duration, disabled bool) *doneWatcher {
	return &doneWatcher{
		started:  time.Now(),
		grace:    grace,
		done:     make(chan struct{}),
		disabled: disabled,
	}
}

func (w *doneWatcher) Observe(snap types.Snapshot) {
	if w.disabled {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if !snap.Empty() {
		w.sawAny = true
		return
	}
	if w.sawAny || time.Since(w.started) >= w.grace {
		w.once.Do(func() { close(w.done) })
	}
}

func (w *doneWatcher) Done() <-chan struct{} {
	return w.done
}

// runWatch starts the poller with the TUI or headless sink and sends the
// initial triggers, if any.
func runWatch(cmd *cobra.Command, triggers []types.TriggerRequest) error {
	headless, _ := cmd.Flags().GetBool("headless")
	exitWhenDone, _ := cmd.Flags().GetBool("exit-when-done")

	isMaster, err := AcquireLock()
	if err != nil {
		return fmt.Errorf("acquire watcher lock: %w", err)
	}
	if !isMaster {
		return ErrAlreadyWatching
	}
	defer ReleaseLock()

	observers := []func(types.Snapshot){}

	if settings.General.RecordHistory {
		store, err := history.Open(config.GetHistoryPath())
		if err != nil {
			utils.Debug("History disabled: %v", err)
		} else {
			defer func() { _ = store.Close() }()
			recorder := history.NewRecorder(store)
			defer recorder.Close()
			observers = append(observers, recorder.Observe)
		}
	}

	grace := time.Duration(0)
	if len(triggers) > 0 {
		grace = settings.Polling.TriggerDelay + 2*settings.Polling.Interval
	}
	done := newDoneWatcher(grace, !exitWhenDone)
	observers = append(observers, done.Observe)

	opts := poller.Options{
		Interval:     settings.Polling.Interval,
		TriggerDelay: settings.Polling.TriggerDelay,
		OnSnapshot: func(snap types.Snapshot) {
			for _, o := range observers {
				o(snap)
			}
		},
	}
	service := newService(settings)

	if headless {
		return runHeadless(cmd, service, opts, triggers, done)
	}
	return runTUI(service, opts, triggers, done)
}

func runTUI(service core.ProgressService, opts poller.Options, triggers []types.TriggerRequest, done *doneWatcher) error {
	tui.ApplyTheme(settings.General.Theme)

	sink := tui.NewSink()
	p := poller.New(service, sink, opts)

	m := tui.InitialRootModel(p, settings, Version)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	sink.Attach(prog.Send)

	stopped := make(chan struct{})
	go func() {
		select {
		case <-done.Done():
			prog.Send(tea.Quit())
		case <-stopped:
		}
	}()

	for _, t := range triggers {
		p.TriggerDownload(t)
	}
	p.StartPolling()

	_, err := prog.Run()
	close(stopped)
	p.Close()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func runHeadless(cmd *cobra.Command, service core.ProgressService, opts poller.Options, triggers []types.TriggerRequest, done *doneWatcher) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	p := poller.New(service, NewHeadlessSink(out), opts)

	for _, t := range triggers {
		fmt.Fprintf(out, "Requested: %s\n", t)
		p.TriggerDownload(t)
	}
	p.StartPolling()

	finished := false
	select {
	case <-ctx.Done():
	case <-done.Done():
		finished = true
	}

	// Close before printing so no render races the final line
	p.Close()
	if finished {
		fmt.Fprintln(out, "All downloads finished.")
	}
	return nil
}

func init() {
	addWatchFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
