package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clf-downloader/clf/internal/messages"
	"github.com/clf-downloader/clf/internal/poller"
	"github.com/clf-downloader/clf/internal/types"
)

type fakeController struct {
	mu         sync.Mutex
	state      poller.State
	starts     int
	refreshes  int
	refreshErr error
	triggers   []types.TriggerRequest
}

func (f *fakeController) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.refreshErr
}

func (f *fakeController) StartPolling() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.state == poller.Polling {
		return false
	}
	f.state = poller.Polling
	return true
}

func (f *fakeController) TriggerDownload(req types.TriggerRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, req)
}

func (f *fakeController) State() poller.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m RootModel, text string) RootModel {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(keyPress(string(r)))
		m = next.(RootModel)
	}
	return m
}

func newTestModel(c Controller) RootModel {
	m := InitialRootModel(c, nil, "test")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(RootModel)
}

// settle runs slide ticks until the animation stops.
func settle(t *testing.T, m RootModel, cmd tea.Cmd) RootModel {
	t.Helper()
	for i := 0; cmd != nil && i < 100; i++ {
		next, c := m.Update(messages.SlideTickMsg{})
		m = next.(RootModel)
		cmd = c
	}
	require.False(t, m.animating, "slide animation did not finish")
	return m
}

func TestUpdate_SnapshotReplacesList(t *testing.T) {
	m := newTestModel(&fakeController{})

	next, _ := m.Update(messages.SnapshotRenderedMsg{Entries: []types.Entry{
		{ID: "7", Title: "Issue #1", Progress: 42},
		{ID: "8", Title: "Issue #2", Progress: 5},
	}})
	m = next.(RootModel)
	require.Len(t, m.Downloads(), 2)
	first := m.downloads[0]

	next, _ = m.Update(messages.SnapshotRenderedMsg{Entries: []types.Entry{
		{ID: "7", Title: "Issue #1", Progress: 60},
	}})
	m = next.(RootModel)

	got := m.Downloads()
	require.Len(t, got, 1)
	assert.Equal(t, float64(60), got[0].Progress)
	assert.Same(t, first, m.downloads[0], "bar is reused for the same download")
}

func TestUpdate_IdenticalSnapshotsNoDuplicates(t *testing.T) {
	m := newTestModel(&fakeController{})
	snap := messages.SnapshotRenderedMsg{Entries: []types.Entry{{ID: "7", Title: "Issue #1", Progress: 42}}}

	for i := 0; i < 2; i++ {
		next, _ := m.Update(snap)
		m = next.(RootModel)
	}
	assert.Len(t, m.Downloads(), 1)
}

func TestUpdate_SlideInAndOut(t *testing.T) {
	m := newTestModel(&fakeController{})
	next, _ := m.Update(messages.SnapshotRenderedMsg{Entries: []types.Entry{{ID: "7", Title: "Issue #1", Progress: 42}}})
	m = next.(RootModel)

	next, cmd := m.Update(messages.VisibilityMsg{Visible: true})
	m = next.(RootModel)
	require.NotNil(t, cmd)
	assert.True(t, m.ContainerVisible())
	assert.True(t, m.animating)

	m = settle(t, m, cmd)
	assert.Equal(t, 1.0, m.reveal)
	assert.Contains(t, m.View(), "Issue #1")

	next, cmd = m.Update(messages.VisibilityMsg{Visible: false})
	m = next.(RootModel)
	m = settle(t, m, cmd)
	assert.Equal(t, 0.0, m.reveal)
	assert.NotContains(t, m.View(), "Issue #1")
	assert.Contains(t, m.View(), "No downloads in progress")
}

func TestUpdate_EmptiedPanelSlidesOut(t *testing.T) {
	m := newTestModel(&fakeController{})
	next, _ := m.Update(messages.SnapshotRenderedMsg{Entries: []types.Entry{{ID: "7", Title: "Issue #1", Progress: 100}}})
	m = next.(RootModel)
	next, cmd := m.Update(messages.VisibilityMsg{Visible: true})
	m = settle(t, next.(RootModel), cmd)

	// The poller renders the empty list before hiding the container
	next, _ = m.Update(messages.SnapshotRenderedMsg{})
	m = next.(RootModel)
	next, cmd = m.Update(messages.VisibilityMsg{Visible: false})
	m = next.(RootModel)
	require.NotNil(t, cmd)

	next, _ = m.Update(messages.SlideTickMsg{})
	m = next.(RootModel)
	require.True(t, m.animating)
	assert.Contains(t, m.View(), "Downloads", "container is still drawn while sliding out")
	assert.NotContains(t, m.View(), "Issue #1")

	m = settle(t, m, cmd)
	assert.NotContains(t, m.View(), "Downloads")
	assert.Contains(t, m.View(), "No downloads in progress")
}

func TestUpdate_VisibilityNoChangeNoAnimation(t *testing.T) {
	m := newTestModel(&fakeController{})
	next, cmd := m.Update(messages.VisibilityMsg{Visible: false})
	assert.Nil(t, cmd)
	assert.False(t, next.(RootModel).animating)
}

func TestUpdate_TriggerForm(t *testing.T) {
	c := &fakeController{}
	m := newTestModel(c)

	next, _ := m.Update(keyPress("a"))
	m = next.(RootModel)
	require.Equal(t, TriggerInputState, m.state)

	m = typeText(t, m, "5")
	next, _ = m.Update(keyPress("enter"))
	m = next.(RootModel)
	m = typeText(t, m, "7")
	next, _ = m.Update(keyPress("enter"))
	m = next.(RootModel)
	require.Equal(t, serviceInput, m.focusedInput)

	next, cmd := m.Update(keyPress("enter"))
	m = next.(RootModel)
	assert.Equal(t, DashboardState, m.state)
	require.NotNil(t, cmd)

	require.Len(t, c.triggers, 1)
	assert.Equal(t, types.TriggerRequest{SeriesID: "5", ComicID: "7"}, c.triggers[0])

	sent, ok := cmd().(messages.TriggerSentMsg)
	require.True(t, ok)
	next, _ = m.Update(sent)
	m = next.(RootModel)
	assert.Contains(t, m.status, "Requested")
}

func TestUpdate_TriggerFormRejectsEmptySeries(t *testing.T) {
	c := &fakeController{}
	m := newTestModel(c)

	next, _ := m.Update(keyPress("a"))
	m = next.(RootModel)
	for i := 0; i < 3; i++ {
		next, _ = m.Update(keyPress("enter"))
		m = next.(RootModel)
	}

	assert.Equal(t, TriggerInputState, m.state, "form stays open")
	assert.True(t, m.statusIsErr)
	assert.Empty(t, c.triggers)
}

func TestUpdate_TriggerFormCancel(t *testing.T) {
	c := &fakeController{}
	m := newTestModel(c)

	next, _ := m.Update(keyPress("a"))
	m = next.(RootModel)
	m = typeText(t, m, "5")
	next, _ = m.Update(keyPress("esc"))
	m = next.(RootModel)

	assert.Equal(t, DashboardState, m.state)
	assert.Empty(t, c.triggers)
}

func TestUpdate_ResumePolling(t *testing.T) {
	c := &fakeController{}
	m := newTestModel(c)

	next, _ := m.Update(keyPress("p"))
	m = next.(RootModel)
	assert.Equal(t, "Polling resumed", m.status)
	assert.Contains(t, m.View(), " polling")
	assert.NotContains(t, m.View(), "● idle")

	next, _ = m.Update(keyPress("p"))
	m = next.(RootModel)
	assert.Equal(t, "Already polling", m.status)
	assert.Equal(t, 2, c.starts)
}

func TestUpdate_RefreshFailure(t *testing.T) {
	c := &fakeController{refreshErr: errors.New("connection refused")}
	m := newTestModel(c)

	next, cmd := m.Update(keyPress("r"))
	m = next.(RootModel)
	require.NotNil(t, cmd)

	msg := cmd()
	failed, ok := msg.(messages.RefreshFailedMsg)
	require.True(t, ok)
	assert.Equal(t, 1, c.refreshes)

	next, _ = m.Update(failed)
	m = next.(RootModel)
	assert.True(t, m.statusIsErr)
	assert.True(t, strings.Contains(m.View(), "connection refused"))

	// A successful render clears the error
	next, _ = m.Update(messages.SnapshotRenderedMsg{})
	m = next.(RootModel)
	assert.Empty(t, m.status)
}

func TestUpdate_SettingsTabs(t *testing.T) {
	m := newTestModel(&fakeController{})

	next, _ := m.Update(keyPress("s"))
	m = next.(RootModel)
	require.Equal(t, SettingsState, m.state)
	assert.Contains(t, m.View(), "Server URL")

	next, _ = m.Update(keyPress("tab"))
	m = next.(RootModel)
	assert.Equal(t, 1, m.SettingsActiveTab)
	assert.Contains(t, m.View(), "Poll Interval")

	next, _ = m.Update(keyPress("3"))
	m = next.(RootModel)
	assert.Equal(t, 2, m.SettingsActiveTab)

	next, _ = m.Update(keyPress("esc"))
	m = next.(RootModel)
	assert.Equal(t, DashboardState, m.state)
}

func TestUpdate_Quit(t *testing.T) {
	m := newTestModel(&fakeController{})
	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_LoadingBeforeSize(t *testing.T) {
	m := InitialRootModel(nil, nil, "test")
	assert.Equal(t, "Loading...", m.View())
}
