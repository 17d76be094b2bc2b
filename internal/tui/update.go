package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// buildFinishedMsg reports the outcome of running a target picked from
// the browse list.
type buildFinishedMsg struct {
	target string
	err    error
	dur    time.Duration
}

// specReloadedMsg carries a freshly reparsed spec database after a
// watched file changed on disk.
type specReloadedMsg struct {
	model Model
	err   error
}

func (m Model) runTarget(name string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		err := m.Engine.Build(name)
		return buildFinishedMsg{target: name, err: err, dur: time.Since(start)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.List.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		switch m.State {
		case StateList:
			switch {
			case key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))):
				return m, tea.Quit
			case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
				if target, ok := m.List.SelectedItem().(Target); ok {
					m.State = StateRunning
					m.RunningTarget = target.Name
					m.RunStart = time.Now()
					return m, tea.Batch(m.Spinner.Tick, m.runTarget(target.Name))
				}
				return m, nil
			}
		case StateOutput:
			m.State = StateList
			return m, nil
		}

	case spinner.TickMsg:
		if m.State == StateRunning {
			var cmd tea.Cmd
			m.Spinner, cmd = m.Spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case buildFinishedMsg:
		m.State = StateOutput
		m.RunErr = msg.err
		if m.History != nil {
			m.History.RecordExecutionWithTiming(m.SpecPath, msg.target, msg.dur, msg.err == nil)
			_ = m.History.Save()
		}
		return m, nil

	case specReloadedMsg:
		if msg.err == nil {
			reloaded := msg.model
			reloaded.Width, reloaded.Height = m.Width, m.Height
			reloaded.List.SetSize(m.Width, m.Height-2)
			return reloaded, WatchSpec(reloaded.SpecPath, reloaded.Orch, reloaded.SafetyChecker, reloaded.Watch)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.List, cmd = m.List.Update(msg)
	return m, cmd
}
