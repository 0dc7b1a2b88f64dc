package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/service"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// watchModel re-renders a task's aggregated totals once per second. Each
// tick reloads the snapshot and recomputes with a fresh now; the engine
// itself never ticks.
type watchModel struct {
	app     *App
	taskID  string
	spin    spinner.Model
	view    *service.TaskOverview
	loadErr error
}

type watchTickMsg time.Time

type watchLoadedMsg struct {
	view *service.TaskOverview
	err  error
}

func newWatchModel(app *App, taskID string) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = formatter.StyleBlue
	return watchModel{app: app, taskID: taskID, spin: sp}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.load, watchTick())
}

func watchTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) load() tea.Msg {
	view, err := m.app.Stats.Overview(context.Background(), m.taskID)
	return watchLoadedMsg{view: view, err: err}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case watchTickMsg:
		return m, tea.Batch(m.load, watchTick())
	case watchLoadedMsg:
		m.view = msg.view
		m.loadErr = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.loadErr != nil {
		return formatter.StyleRed.Render("error: "+m.loadErr.Error()) + "\n"
	}
	if m.view == nil {
		return m.spin.View() + formatter.Dim(" loading…") + "\n"
	}

	out := formatter.Overview(m.view)
	if m.view.Status == domain.TaskInProgress {
		out += fmt.Sprintf("\n  %s %s\n", m.spin.View(),
			formatter.StyleBold.Render(formatter.Clock(m.view.Stats.TotalSeconds)))
	}
	out += formatter.Dim("\n  q to quit\n")
	return out
}
