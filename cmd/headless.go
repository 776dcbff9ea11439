package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/clf-downloader/clf/internal/poller"
	"github.com/clf-downloader/clf/internal/types"
)

var (
	_ poller.RenderSink = (*HeadlessSink)(nil)
	_ poller.Flusher    = (*HeadlessSink)(nil)
)

// HeadlessSink prints each render pass as plain lines. Identical consecutive
// passes are printed once.
type HeadlessSink struct {
	mu      sync.Mutex
	out     io.Writer
	staged  []types.Entry
	last    string
	visible bool
}

func NewHeadlessSink(out io.Writer) *HeadlessSink {
	return &HeadlessSink{out: out}
}

func (h *HeadlessSink) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.staged = h.staged[:0]
}

func (h *HeadlessSink) Append(entry types.Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.staged = append(h.staged, entry)
}

func (h *HeadlessSink) Flush() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.staged) == 0 {
		return
	}
	var block string
	for _, e := range h.staged {
		block += fmt.Sprintf("%-40s %5.1f%%  [%s]\n", e.Title, e.Fraction()*100, e.WidgetID())
	}
	if block == h.last {
		return
	}
	h.last = block
	_, _ = io.WriteString(h.out, block)
}

func (h *HeadlessSink) Show() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = true
}

func (h *HeadlessSink) Hide() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible = false
	h.last = ""
	_, _ = fmt.Fprintln(h.out, "No downloads in progress.")
}

func (h *HeadlessSink) Visible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible
}
