package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/clf-downloader/clf/internal/config"
)

// viewSettings shows the effective settings. Editing happens in settings.json
// or through flags and CLF_* variables.
func (m RootModel) viewSettings() string {
	categories := config.CategoryOrder()
	metadata := config.GetSettingsMetadata()
	values := m.settings.Values()

	tabs := make([]string, 0, len(categories))
	for i, cat := range categories {
		style := TabStyle
		if i == m.SettingsActiveTab {
			style = ActiveTabStyle
		}
		tabs = append(tabs, style.Render(cat))
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, tabs...), ""}
	active := categories[m.SettingsActiveTab%len(categories)]
	for _, meta := range metadata[active] {
		rows = append(rows,
			lipgloss.JoinHorizontal(lipgloss.Left,
				LabelStyle.Width(18).Render(meta.Label),
				CardTitleStyle.Render(values[meta.Key]),
			),
			CardStatsStyle.Render("  "+meta.Description),
		)
	}
	rows = append(rows, "", CardStatsStyle.Render("Settings file: "+config.GetSettingsPath()), m.help.View(SettingsKeys))

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, PopupStyle.Render(content))
}
