package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clf-downloader/clf/internal/config"
	"github.com/clf-downloader/clf/internal/messages"
	"github.com/clf-downloader/clf/internal/types"
	"github.com/clf-downloader/clf/internal/utils"
)

func slideTick() tea.Cmd {
	return tea.Tick(SlideFrame, func(time.Time) tea.Msg {
		return messages.SlideTickMsg{}
	})
}

// refreshCmd runs a manual refresh outside of Update; rendering goes through the sink.
func refreshCmd(c Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ManualRefreshTimeout)
		defer cancel()
		if err := c.Refresh(ctx); err != nil {
			return messages.RefreshFailedMsg{Err: err}
		}
		return nil
	}
}

// Update handles messages and updates the model
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		width := m.progressWidth()
		for _, d := range m.downloads {
			d.progress.Width = width
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case messages.SnapshotRenderedMsg:
		m.applySnapshot(msg.Entries)
		m.lastUpdate = time.Now()
		if m.statusIsErr {
			m.status = ""
			m.statusIsErr = false
		}
		return m, nil

	case messages.VisibilityMsg:
		m.visible = msg.Visible
		if !m.animating && m.reveal != m.target() {
			m.animating = true
			return m, slideTick()
		}
		return m, nil

	case messages.SlideTickMsg:
		step := float64(SlideFrame) / float64(SlideDuration)
		target := m.target()
		if m.reveal < target {
			m.reveal = min(target, m.reveal+step)
		} else if m.reveal > target {
			m.reveal = max(target, m.reveal-step)
		}
		if m.reveal == target {
			m.animating = false
			return m, nil
		}
		return m, slideTick()

	case messages.TriggerSentMsg:
		m.status = "Requested " + msg.Request.String()
		m.statusIsErr = false
		return m, nil

	case messages.RefreshFailedMsg:
		utils.Debug("Manual refresh failed: %v", msg.Err)
		m.status = "Refresh failed: " + msg.Err.Error()
		m.statusIsErr = true
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case DashboardState:
			return m.updateDashboard(msg)
		case TriggerInputState:
			return m.updateInput(msg)
		case SettingsState:
			return m.updateSettings(msg)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m RootModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DashboardKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, DashboardKeys.Add):
		m.state = TriggerInputState
		m.focusedInput = seriesInput
		for i := range m.inputs {
			m.inputs[i].SetValue("")
			m.inputs[i].Blur()
		}
		m.inputs[seriesInput].Focus()
		return m, textinput.Blink

	case key.Matches(msg, DashboardKeys.Refresh):
		if m.controller == nil {
			return m, nil
		}
		m.status = "Refreshing..."
		m.statusIsErr = false
		return m, refreshCmd(m.controller)

	case key.Matches(msg, DashboardKeys.Resume):
		if m.controller == nil {
			return m, nil
		}
		if m.controller.StartPolling() {
			m.status = "Polling resumed"
		} else {
			m.status = "Already polling"
		}
		m.statusIsErr = false
		return m, nil

	case key.Matches(msg, DashboardKeys.Settings):
		m.state = SettingsState
		m.SettingsActiveTab = 0
		return m, nil
	}
	return m, nil
}

func (m RootModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, InputKeys.Cancel):
		m.state = DashboardState
		return m, nil

	case key.Matches(msg, InputKeys.Next):
		return m.focus((m.focusedInput + 1) % len(m.inputs)), textinput.Blink

	case key.Matches(msg, InputKeys.Prev):
		return m.focus((m.focusedInput + len(m.inputs) - 1) % len(m.inputs)), textinput.Blink

	case key.Matches(msg, InputKeys.Submit):
		// Enter walks the fields and submits from the last one
		if m.focusedInput < len(m.inputs)-1 {
			return m.focus(m.focusedInput + 1), textinput.Blink
		}
		return m.submitTrigger()
	}

	var cmd tea.Cmd
	m.inputs[m.focusedInput], cmd = m.inputs[m.focusedInput].Update(msg)
	return m, cmd
}

func (m RootModel) focus(idx int) RootModel {
	m.inputs[m.focusedInput].Blur()
	m.focusedInput = idx
	m.inputs[m.focusedInput].Focus()
	return m
}

func (m RootModel) submitTrigger() (tea.Model, tea.Cmd) {
	req := types.TriggerRequest{
		SeriesID: strings.TrimSpace(m.inputs[seriesInput].Value()),
		ComicID:  strings.TrimSpace(m.inputs[comicInput].Value()),
		Service:  strings.TrimSpace(m.inputs[serviceInput].Value()),
	}
	if _, err := req.Path(); err != nil {
		m.status = err.Error()
		m.statusIsErr = true
		return m, nil
	}

	m.state = DashboardState
	if m.controller == nil {
		return m, nil
	}
	m.controller.TriggerDownload(req)
	return m, func() tea.Msg {
		return messages.TriggerSentMsg{Request: req, At: time.Now()}
	}
}

func (m RootModel) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tabs := len(config.CategoryOrder())
	switch {
	case key.Matches(msg, SettingsKeys.Close):
		m.state = DashboardState
		return m, nil
	case key.Matches(msg, SettingsKeys.Tab):
		switch msg.String() {
		case "1", "2", "3":
			if idx := int(msg.String()[0] - '1'); idx < tabs {
				m.SettingsActiveTab = idx
			}
		case "left":
			m.SettingsActiveTab = (m.SettingsActiveTab + tabs - 1) % tabs
		default:
			m.SettingsActiveTab = (m.SettingsActiveTab + 1) % tabs
		}
	}
	return m, nil
}

// applySnapshot replaces the widget list. Bars of downloads still present are
// reused so their width survives.
func (m *RootModel) applySnapshot(entries []types.Entry) {
	existing := make(map[string]*DownloadModel, len(m.downloads))
	for _, d := range m.downloads {
		existing[d.Entry.ID] = d
	}

	width := m.progressWidth()
	next := make([]*DownloadModel, 0, len(entries))
	for _, e := range entries {
		d, ok := existing[e.ID]
		if !ok {
			d = newDownloadModel(e)
		}
		d.Entry = e
		d.progress.Width = width
		next = append(next, d)
	}
	m.downloads = next
}

func (m RootModel) target() float64 {
	if m.visible {
		return 1
	}
	return 0
}

func (m RootModel) progressWidth() int {
	w := m.width - TitleColumnWidth - ProgressBarWidthOffset*3
	if w < MinProgressBarWidth {
		w = MinProgressBarWidth
	}
	if w > MaxProgressBarWidth {
		w = MaxProgressBarWidth
	}
	return w
}
