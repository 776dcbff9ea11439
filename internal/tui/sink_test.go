package tui

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clf-downloader/clf/internal/messages"
	"github.com/clf-downloader/clf/internal/types"
)

type msgRecorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *msgRecorder) send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *msgRecorder) all() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]tea.Msg(nil), r.msgs...)
}

func TestSink_FlushDeliversOnePass(t *testing.T) {
	rec := &msgRecorder{}
	s := NewSink()
	s.Attach(rec.send)

	s.Clear()
	s.Append(types.Entry{ID: "7", Title: "Issue #1", Progress: 42})
	s.Append(types.Entry{ID: "3", Title: "Issue #2", Progress: 10})
	assert.Empty(t, rec.all(), "appends are staged until flush")

	s.Flush()
	msgs := rec.all()
	require.Len(t, msgs, 1)
	rendered, ok := msgs[0].(messages.SnapshotRenderedMsg)
	require.True(t, ok)
	require.Len(t, rendered.Entries, 2)
	assert.Equal(t, "7", rendered.Entries[0].ID)
	assert.Equal(t, "3", rendered.Entries[1].ID)
}

func TestSink_ClearDropsStagedEntries(t *testing.T) {
	rec := &msgRecorder{}
	s := NewSink()
	s.Attach(rec.send)

	s.Append(types.Entry{ID: "1"})
	s.Clear()
	s.Flush()

	msgs := rec.all()
	require.Len(t, msgs, 1)
	assert.Empty(t, msgs[0].(messages.SnapshotRenderedMsg).Entries)
}

func TestSink_Visibility(t *testing.T) {
	rec := &msgRecorder{}
	s := NewSink()
	s.Attach(rec.send)

	assert.False(t, s.Visible(), "container starts hidden")
	s.Show()
	assert.True(t, s.Visible())
	s.Hide()
	assert.False(t, s.Visible())

	assert.Equal(t, []tea.Msg{
		messages.VisibilityMsg{Visible: true},
		messages.VisibilityMsg{Visible: false},
	}, rec.all())
}

func TestSink_Unattached(t *testing.T) {
	s := NewSink()
	assert.NotPanics(t, func() {
		s.Clear()
		s.Append(types.Entry{ID: "1"})
		s.Flush()
		s.Show()
	})
	assert.True(t, s.Visible())
}
