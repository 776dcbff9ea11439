package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clf-downloader/clf/internal/config"
	"github.com/clf-downloader/clf/internal/poller"
	"github.com/clf-downloader/clf/internal/types"
)

type UIState int //Defines UIState as int to be used in rootModel

const (
	DashboardState    UIState = iota //DashboardState is 0 increments after each line
	TriggerInputState                //TriggerInputState is 1
	SettingsState                    //SettingsState is 2
)

// Input field order in the add-download popup
const (
	seriesInput = iota
	comicInput
	serviceInput
)

// Controller is the part of the poller the dashboard drives.
type Controller interface {
	Refresh(ctx context.Context) error
	StartPolling() bool
	TriggerDownload(req types.TriggerRequest)
	State() poller.State
}

// DownloadModel is one rendered progress widget.
type DownloadModel struct {
	Entry    types.Entry
	progress progress.Model
}

type RootModel struct {
	downloads []*DownloadModel
	width     int
	height    int
	state     UIState

	inputs       []textinput.Model
	focusedInput int

	controller Controller
	settings   *config.Settings
	serverURL  string
	version    string

	// Container visibility: visible is the target, reveal the animated fraction shown
	visible   bool
	reveal    float64
	animating bool

	status      string
	statusIsErr bool
	lastUpdate  time.Time

	SettingsActiveTab int

	spinner spinner.Model
	help    help.Model
}

func newDownloadModel(entry types.Entry) *DownloadModel {
	return &DownloadModel{
		Entry:    entry,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// InitialRootModel builds the dashboard. controller is usually a *poller.Poller.
func InitialRootModel(controller Controller, settings *config.Settings, version string) RootModel {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	seriesIn := textinput.New()
	seriesIn.Placeholder = "series id, e.g. 5"
	seriesIn.Width = InputWidth
	seriesIn.Prompt = ""

	comicIn := textinput.New()
	comicIn.Placeholder = "comic id (empty = whole series)"
	comicIn.Width = InputWidth
	comicIn.Prompt = ""

	serviceIn := textinput.New()
	serviceIn.Placeholder = "(optional) e.g. comixology"
	serviceIn.Width = InputWidth
	serviceIn.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = PollingBadgeStyle

	return RootModel{
		downloads:  make([]*DownloadModel, 0),
		inputs:     []textinput.Model{seriesIn, comicIn, serviceIn},
		state:      DashboardState,
		controller: controller,
		settings:   settings,
		serverURL:  settings.Server.BaseURL,
		version:    version,
		spinner:    sp,
		help:       help.New(),
	}
}

func (m RootModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Downloads returns the widgets currently rendered, in display order.
func (m RootModel) Downloads() []types.Entry {
	out := make([]types.Entry, 0, len(m.downloads))
	for _, d := range m.downloads {
		out = append(out, d.Entry)
	}
	return out
}

// ContainerVisible reports the container's target visibility.
func (m RootModel) ContainerVisible() bool {
	return m.visible
}

func (m RootModel) pollingState() poller.State {
	if m.controller == nil {
		return poller.Idle
	}
	return m.controller.State()
}
