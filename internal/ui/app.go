package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/freakms/ha-firecalltracking/internal/render"
)

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT fetch or store anything. It receives snapshots via
// messages and adapts the rendered view to the terminal; the render core
// stays framework-free.
type App struct {
	renderer    *render.Renderer
	triggerPoll func() tea.Cmd
	onNewAlarm  func(NewAlarmMsg) tea.Cmd

	spinner  spinner.Model
	count24h int
	active   bool
	cursor   int
	errText  string
	width    int
	height   int
	ready    bool
	loading  bool
}

// NewApp creates an App rendering under the given config.
// triggerPoll returns a Cmd that asks the coordinator for an immediate poll;
// onNewAlarm, if non-nil, is invoked for every new alarm (notification hook).
func NewApp(cfg render.Config, triggerPoll func() tea.Cmd, onNewAlarm func(NewAlarmMsg) tea.Cmd) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return App{
		renderer:    render.New(cfg),
		triggerPoll: triggerPoll,
		onNewAlarm:  onNewAlarm,
		spinner:     sp,
		loading:     true,
	}
}

// Init starts the loading spinner.
func (a App) Init() tea.Cmd {
	return a.spinner.Tick
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case SnapshotMsg:
		a.loading = false
		a.errText = ""
		a.renderer.SetSnapshot(msg.Snapshot)
		a.count24h = msg.Count24h
		a.active = msg.Active
		// Keep the cursor inside the new row set.
		if view, ok := a.renderer.View(); ok && view.Kind == render.ViewList {
			if a.cursor >= len(view.Rows) {
				a.cursor = len(view.Rows) - 1
			}
		} else {
			a.cursor = 0
		}
		return a, nil

	case NewAlarmMsg:
		if a.onNewAlarm != nil {
			return a, a.onNewAlarm(msg)
		}
		return a, nil

	case PollErrorMsg:
		a.loading = false
		if msg.Err != nil {
			a.errText = "Fehler: " + msg.Err.Error()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "j", "down":
		if view, ok := a.renderer.View(); ok && view.Kind == render.ViewList {
			if a.cursor < len(view.Rows)-1 {
				a.cursor++
			}
		}
		return a, nil

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "g", "home":
		a.cursor = 0
		return a, nil

	case "r":
		if a.triggerPoll != nil {
			a.loading = true
			return a, tea.Batch(a.triggerPoll(), a.spinner.Tick)
		}
		return a, nil
	}

	return a, nil
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Lade..."
	}

	view, ok := a.renderer.View()
	if !ok {
		// No snapshot yet: nothing to render beyond the spinner.
		return a.spinner.View() + " Warte auf Daten...\n" +
			RenderStatusBar(0, false, a.width, true, "")
	}

	showHeader := a.renderer.Config().ShowHeader
	feed := RenderFeedWithCursor(view, showHeader, a.cursor, a.width, a.height-1)
	statusBar := RenderStatusBar(a.count24h, a.active, a.width, a.loading, a.errText)

	return feed + statusBar
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// CurrentView returns the rendered view of the latest snapshot (for testing).
func (a App) CurrentView() (render.View, bool) {
	return a.renderer.View()
}
