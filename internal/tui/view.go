package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/clf-downloader/clf/internal/poller"
)

func (m RootModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case TriggerInputState:
		return m.viewInput()
	case SettingsState:
		return m.viewSettings()
	}

	sections := []string{m.viewHeader()}
	if panel := m.viewPanel(); panel != "" {
		sections = append(sections, panel)
	} else {
		sections = append(sections, EmptyStyle.Render("No downloads in progress"))
	}

	if m.status != "" {
		style := StatusStyle
		if m.statusIsErr {
			style = ErrorStatusStyle
		}
		sections = append(sections, style.Render(m.status))
	}
	sections = append(sections, StatusStyle.Render(m.help.View(DashboardKeys)))

	return AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m RootModel) viewHeader() string {
	badge := IdleBadgeStyle.Render("● idle")
	if m.pollingState() == poller.Polling {
		badge = m.spinner.View() + PollingBadgeStyle.Render(" polling")
	}

	stats := fmt.Sprintf("%d active · %s", len(m.downloads), m.serverURL)
	if !m.lastUpdate.IsZero() {
		stats += " · updated " + m.lastUpdate.Format("15:04:05")
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render("clf"),
		" ",
		badge,
		StatsStyle.Render(stats),
	)
	width := m.width - HeaderWidthOffset*2
	if width < 0 {
		width = 0
	}
	return HeaderStyle.Width(width).Render(left)
}

// viewPanel renders the downloads container cut to the current slide position.
// It returns "" while the container is fully hidden. The list is usually
// already empty while the container slides out.
func (m RootModel) viewPanel() string {
	if m.reveal <= 0 {
		return ""
	}

	rows := make([]string, 0, len(m.downloads)+1)
	rows = append(rows, PanelTitleStyle.Render("Downloads"))
	for _, d := range m.downloads {
		rows = append(rows, renderDownloadRow(d))
	}
	panel := PanelStyle.Render(strings.Join(rows, "\n"))

	if m.reveal >= 1 {
		return panel
	}
	lines := strings.Split(panel, "\n")
	shown := int(math.Ceil(float64(len(lines)) * m.reveal))
	return strings.Join(lines[:shown], "\n")
}

func renderDownloadRow(d *DownloadModel) string {
	title := CardTitleStyle.Width(TitleColumnWidth).Render(truncateString(d.Entry.Title, TitleColumnWidth-3))
	bar := d.progress.ViewAs(d.Entry.Fraction())
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", bar)
}

func (m RootModel) viewInput() string {
	hint := ""
	if m.status != "" && m.statusIsErr {
		hint = ErrorStatusStyle.Render(m.status)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		PanelTitleStyle.Render("Add Download"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Left, LabelStyle.Render("Series:"), m.inputs[seriesInput].View()),
		lipgloss.JoinHorizontal(lipgloss.Left, LabelStyle.Render("Comic:"), m.inputs[comicInput].View()),
		lipgloss.JoinHorizontal(lipgloss.Left, LabelStyle.Render("Service:"), m.inputs[serviceInput].View()),
		hint,
		m.help.View(InputKeys),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, PopupStyle.Render(content))
}

func truncateString(s string, i int) string {
	runes := []rune(s)
	if len(runes) > i {
		return string(runes[:i]) + "..."
	}
	return s
}
