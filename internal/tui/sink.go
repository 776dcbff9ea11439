package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clf-downloader/clf/internal/messages"
	"github.com/clf-downloader/clf/internal/poller"
	"github.com/clf-downloader/clf/internal/types"
)

var (
	_ poller.RenderSink = (*Sink)(nil)
	_ poller.Flusher    = (*Sink)(nil)
)

// Sink adapts the poller's render calls into bubbletea messages. A render
// pass is staged locally and delivered as one SnapshotRenderedMsg on Flush,
// so the dashboard never shows a half-built list.
type Sink struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	staged  []types.Entry
	visible bool
}

// NewSink creates a sink whose container starts hidden.
func NewSink() *Sink {
	return &Sink{}
}

// Attach sets the function used to deliver messages, usually (*tea.Program).Send.
func (s *Sink) Attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *Sink) emit(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (s *Sink) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = nil
}

func (s *Sink) Append(entry types.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged = append(s.staged, entry)
}

func (s *Sink) Flush() {
	s.mu.Lock()
	entries := make([]types.Entry, len(s.staged))
	copy(entries, s.staged)
	s.mu.Unlock()

	s.emit(messages.SnapshotRenderedMsg{Entries: entries})
}

func (s *Sink) Show() {
	s.mu.Lock()
	s.visible = true
	s.mu.Unlock()
	s.emit(messages.VisibilityMsg{Visible: true})
}

func (s *Sink) Hide() {
	s.mu.Lock()
	s.visible = false
	s.mu.Unlock()
	s.emit(messages.VisibilityMsg{Visible: false})
}

func (s *Sink) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}
