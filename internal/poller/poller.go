// Package poller keeps a progress view in sync with the server's list of
// running downloads: it polls on a fixed interval while anything is in
// progress and goes idle as soon as the list comes back empty.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clf-downloader/clf/internal/core"
	"github.com/clf-downloader/clf/internal/types"
	"github.com/clf-downloader/clf/internal/utils"
)

const (
	DefaultInterval     = 1000 * time.Millisecond
	DefaultTriggerDelay = 1000 * time.Millisecond
)

// State is the polling phase.
type State int

const (
	Idle State = iota
	Polling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Polling:
		return "polling"
	default:
		return "unknown"
	}
}

// Options tunes a Poller.
type Options struct {
	// Interval between two ticks while polling.
	Interval time.Duration
	// TriggerDelay is how long TriggerDownload waits before making sure polling runs,
	// giving the server time to register the new job.
	TriggerDelay time.Duration
	// OnSnapshot, if set, is called after every rendered snapshot, in render order.
	// It runs while the render lock is held, so it must return quickly; slow work
	// belongs on the callee's own goroutine.
	OnSnapshot func(types.Snapshot)
}

// DefaultOptions returns the one second interval and trigger delay.
func DefaultOptions() Options {
	return Options{
		Interval:     DefaultInterval,
		TriggerDelay: DefaultTriggerDelay,
	}
}

// Poller owns the single polling timer and renders every response into a sink.
type Poller struct {
	service core.ProgressService
	sink    RenderSink
	opts    Options

	ctx  context.Context // lifetime, cancelled by Close
	done context.CancelFunc

	mu      sync.Mutex
	state   State
	stop    context.CancelFunc // the timer handle, nil while idle
	gen     uint64             // incremented for every timer started
	pending map[*time.Timer]struct{}
	closed  bool

	renderMu sync.Mutex
	wg       sync.WaitGroup
}

// New creates an idle poller.
func New(service core.ProgressService, sink RenderSink, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.TriggerDelay < 0 {
		opts.TriggerDelay = DefaultTriggerDelay
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		service: service,
		sink:    sink,
		opts:    opts,
		ctx:     ctx,
		done:    cancel,
		pending: make(map[*time.Timer]struct{}),
	}
}

// State returns the current polling phase.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// StartPolling starts the recurring timer unless one is already running.
// It reports whether a new timer was created.
func (p *Poller) StartPolling() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.state == Polling {
		return false
	}

	ctx, cancel := context.WithCancel(p.ctx)
	p.gen++
	p.stop = cancel
	p.state = Polling

	p.wg.Add(1)
	go p.run(ctx, p.gen)

	utils.Debug("poller: started (interval %s, generation %d)", p.opts.Interval, p.gen)
	return true
}

// StopPolling clears the timer. In-flight ticks are cancelled and their
// responses are never rendered.
func (p *Poller) StopPolling() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.state == Idle {
		return
	}
	p.stop()
	p.stop = nil
	p.state = Idle
	utils.Debug("poller: stopped (generation %d)", p.gen)
}

// isCurrent reports whether ticks of generation gen may still render.
func (p *Poller) isCurrent(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == Polling && p.gen == gen
}

func (p *Poller) run(ctx context.Context, gen uint64) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Each tick is its own task; a slow response may overlap the next tick.
			p.wg.Add(1)
			go func() {
				defer p.wg.Done()
				p.tick(ctx, gen)
			}()
		}
	}
}

func (p *Poller) tick(ctx context.Context, gen uint64) {
	if ctx.Err() != nil {
		return
	}
	id := uuid.New().String()
	ctx = core.WithRequestID(ctx, id)

	snap, err := p.service.Downloads(ctx)
	if err != nil {
		// The next tick retries.
		utils.Debug("poller: tick %s failed: %v", id, err)
		return
	}
	p.render(snap, gen)
}

// Refresh fetches the progress set once and renders it, exactly like a timer
// tick. Unlike ticks, the fetch error is returned to the caller.
func (p *Poller) Refresh(ctx context.Context) error {
	ctx = core.WithRequestID(ctx, uuid.New().String())
	snap, err := p.service.Downloads(ctx)
	if err != nil {
		return err
	}
	p.render(snap, 0)
	return nil
}

// render replaces the rendered list with snap and updates polling state and
// container visibility. gen 0 marks a direct Refresh, which always renders.
func (p *Poller) render(snap types.Snapshot, gen uint64) {
	p.renderMu.Lock()
	defer p.renderMu.Unlock()

	if gen != 0 && !p.isCurrent(gen) {
		utils.Debug("poller: dropping late response from generation %d", gen)
		return
	}

	p.sink.Clear()
	for _, entry := range snap.Entries {
		p.sink.Append(entry)
	}
	if f, ok := p.sink.(Flusher); ok {
		f.Flush()
	}

	if p.opts.OnSnapshot != nil {
		p.opts.OnSnapshot(snap)
	}

	if snap.Empty() {
		p.StopPolling()
		if p.sink.Visible() {
			p.sink.Hide()
		}
		return
	}
	if !p.sink.Visible() {
		p.sink.Show()
	}
}

// TriggerDownload asks the server to start a download and, after the trigger
// delay, makes sure polling is running. The request's outcome is deliberately
// not inspected: a failed trigger never shows up in the progress list.
func (p *Poller) TriggerDownload(req types.TriggerRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx := core.WithRequestID(p.ctx, uuid.New().String())
		if err := p.service.Trigger(ctx, req); err != nil {
			utils.Debug("poller: trigger %s failed: %v", req, err)
		}
	}()

	var timer *time.Timer
	timer = time.AfterFunc(p.opts.TriggerDelay, func() {
		p.mu.Lock()
		delete(p.pending, timer)
		p.mu.Unlock()
		p.StartPolling()
	})
	p.pending[timer] = struct{}{}
}

// Close stops polling, cancels pending trigger delays and in-flight requests,
// and waits for background goroutines. The poller cannot be restarted.
func (p *Poller) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for t := range p.pending {
		t.Stop()
	}
	p.pending = make(map[*time.Timer]struct{})
	p.stopLocked()
	p.mu.Unlock()

	p.done()
	p.wg.Wait()
}
