// Package tui is the full-screen bubbletea host for the dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/focusboard/internal/config"
	"github.com/julianstephens/focusboard/internal/dashboard"
	"github.com/julianstephens/focusboard/internal/logger"
	"github.com/julianstephens/focusboard/internal/source"
	"github.com/julianstephens/focusboard/internal/viewmodel"
)

type (
	clockTickMsg     time.Time
	pollTickMsg      time.Time
	countdownTickMsg struct{ gen uint64 }
	pollResultMsg    dashboard.PollResult
	fileChangedMsg   struct{}
)

type Model struct {
	ctx       context.Context
	runner    *dashboard.Runner
	engine    *dashboard.Engine
	intervals config.IntervalConfig

	keys     KeyMap
	help     help.Model
	progress progress.Model

	view    viewmodel.Dashboard
	changes <-chan struct{}

	countdownGen uint64
	width        int
	height       int
	quitting     bool
}

// New builds the TUI around a runner. The runner's engine holds all dashboard
// state, and the model only keeps the last rendered view.
func New(ctx context.Context, runner *dashboard.Runner, cfg config.Config) Model {
	m := Model{
		ctx:       ctx,
		runner:    runner,
		engine:    runner.Engine(),
		intervals: cfg.Intervals,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}

	if loc := runner.Poller().StateLocation(); !source.IsURL(loc) {
		ch, err := source.Watch(ctx, loc)
		if err != nil {
			logger.Warn("File watch unavailable, polling only", "path", loc, "err", err)
		} else {
			m.changes = ch
		}
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.poll(),
		clockTick(m.intervals.Clock),
		pollTick(m.intervals.Poll),
	}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

func (m *Model) refresh() {
	m.view = m.engine.View()
}

// Dashboard returns the last built view model.
func (m Model) Dashboard() viewmodel.Dashboard {
	return m.view
}

func clockTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func pollTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

func countdownTick(d time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return countdownTickMsg{gen: gen}
	})
}

// poll fetches off the update goroutine. The sequence number is taken now so
// results are ordered by issue, not by completion.
func (m Model) poll() tea.Cmd {
	seq := m.engine.NextSeq()
	ctx, poller := m.ctx, m.runner.Poller()
	return func() tea.Msg {
		return pollResultMsg(poller.Poll(ctx, seq))
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}
