package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focusboard/internal/dashboard"
	"github.com/julianstephens/focusboard/internal/logger"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width/2-8, 10), 60)
		return m, nil

	case clockTickMsg:
		cmd := m.handleEvents(m.runner.Tick())
		m.refresh()
		return m, tea.Batch(cmd, clockTick(m.intervals.Clock))

	case pollTickMsg:
		return m, tea.Batch(m.poll(), pollTick(m.intervals.Poll))

	case fileChangedMsg:
		logger.Debug("State file changed")
		return m, tea.Batch(m.poll(), waitForChange(m.changes))

	case pollResultMsg:
		cmd := m.handleEvents(m.runner.Apply(dashboard.PollResult(msg)))
		m.refresh()
		return m, cmd

	case countdownTickMsg:
		if !m.engine.CountdownValid(msg.gen) {
			return m, nil
		}
		m.refresh()
		return m, countdownTick(m.intervals.Countdown, msg.gen)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		return m, m.poll()

	case key.Matches(msg, m.keys.Night):
		forced := m.engine.ToggleNight()
		logger.Info("Night mode toggled", "forced", forced)
		cmd := m.handleEvents(m.runner.Tick())
		m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

// handleEvents starts the night countdown on entry. On exit the generation
// moves on, so pending countdown ticks stop themselves.
func (m *Model) handleEvents(events []dashboard.Event) tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range events {
		switch ev.Kind {
		case dashboard.EventNightEntered:
			m.countdownGen = m.engine.CountdownGeneration()
			cmds = append(cmds, countdownTick(m.intervals.Countdown, m.countdownGen))
		case dashboard.EventNightExited:
			m.countdownGen = 0
		}
	}
	return tea.Batch(cmds...)
}
