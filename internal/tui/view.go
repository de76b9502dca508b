package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/focusboard/internal/viewmodel"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	d := m.view
	if d.NightView != nil {
		return m.viewNight(d.NightView)
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(d),
		"",
		m.viewFocus(d),
		"",
		m.viewSchedule(d),
		"",
		m.viewProgress(d),
	)
	body := main
	if side := m.viewSidebar(d); side != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, main, "  ", sidebarStyle.Render(side))
	}

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.viewBanner(d),
		body,
		"",
		m.help.View(m.keys),
	))
}

func (m Model) viewBanner(d viewmodel.Dashboard) string {
	switch len(d.Warnings) {
	case 0:
		return ""
	case 1:
		return bannerStyle.Render("⚠ " + d.Warnings[0])
	default:
		return bannerStyle.Render(fmt.Sprintf("⚠ %d WARNINGS: %s", len(d.Warnings), d.Warnings[0]))
	}
}

func (m Model) viewHeader(d viewmodel.Dashboard) string {
	sync := onlineStyle.Render("● " + d.Sync.Text)
	if !d.Sync.Online {
		sync = offlineStyle.Render("● " + d.Sync.Text)
		if d.Sync.OfflineTime != "" {
			sync += dimStyle.Render(" (" + d.Sync.OfflineTime + ")")
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		clockStyle.Render(d.Clock),
		"  ",
		dimStyle.Render(d.DateLabel),
		"  ",
		sync,
	)
}

func (m Model) viewFocus(d viewmodel.Dashboard) string {
	switch {
	case d.Hero != nil:
		return viewHero(d.Hero, d.Transition)
	case d.Complete != nil:
		return viewComplete(d.Complete)
	case d.Waiting != nil:
		return heroStyle.BorderForeground(lipgloss.Color("240")).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				heroNameStyle.Render(d.Waiting.Title),
				dimStyle.Render(d.Waiting.Subtitle),
			))
	}
	return ""
}

func viewHero(h *viewmodel.Hero, fading bool) string {
	color := lipgloss.Color(h.Color)
	title := heroNameStyle.Foreground(color).Render(strings.TrimSpace(h.Icon + " " + h.Name))
	lines := []string{title}
	if h.Sublabel != "" {
		lines = append(lines, dimStyle.Render(h.Sublabel))
	}
	if h.Task != "" {
		lines = append(lines, h.Task)
	}
	for _, f := range h.Fields {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("%-5s", f.Label))+f.Value)
	}
	for _, detail := range h.Details {
		lines = append(lines, dimStyle.Render("· "+detail))
	}
	if h.Badge != "" {
		lines = append(lines, badgeStyle.Render(h.Badge))
	}
	if h.Behind != "" {
		lines = append(lines, behindStyle.Render(h.Behind))
	}

	style := heroStyle.BorderForeground(color)
	if fading {
		style = style.Faint(true)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func viewComplete(c *viewmodel.CompleteScreen) string {
	lines := []string{heroNameStyle.Foreground(lipgloss.Color("42")).Render("✓ " + c.Title)}
	switch {
	case c.Tomorrow != nil:
		lines = append(lines, "", dimStyle.Render("TOMORROW"), c.Tomorrow.Task)
		if c.Tomorrow.Action != "" {
			lines = append(lines, dimStyle.Render("→ "+c.Tomorrow.Action))
		}
		if c.Tomorrow.OneThing != "" {
			lines = append(lines, dimStyle.Render("One thing: "+c.Tomorrow.OneThing))
		}
	case c.Quote != nil:
		lines = append(lines, "", quoteLine(c.Quote.Text, c.Quote.Author))
	}
	return heroStyle.BorderForeground(lipgloss.Color("42")).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func quoteLine(text, author string) string {
	line := "“" + text + "”"
	if author != "" {
		line += dimStyle.Render(" — " + author)
	}
	return line
}

func (m Model) viewSchedule(d viewmodel.Dashboard) string {
	if len(d.Schedule) == 0 {
		return ""
	}
	marker := markerStyle.Render("── NOW ──")
	var rows []string
	for i, r := range d.Schedule {
		if i == d.MarkerAt {
			rows = append(rows, marker)
		}
		rows = append(rows, scheduleRow(r))
	}
	if d.MarkerAt == len(d.Schedule) {
		rows = append(rows, marker)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func scheduleRow(r viewmodel.BlockRow) string {
	glyph := r.Glyph
	if glyph == "" {
		glyph = " "
	}
	name := strings.TrimSpace(r.Icon + " " + r.Name)
	if r.Required {
		name += " ◆"
	}
	line := fmt.Sprintf("%s %6s  %s", glyph, r.Time, name)
	if r.Task != "" && r.Task != r.Name {
		line += dimStyle.Render("  " + r.Task)
	}
	for _, dot := range r.HabitDots {
		if dot.Done {
			line += onlineStyle.Render(" ●")
		} else {
			line += dimStyle.Render(" ○")
		}
	}
	style, ok := statusStyles[r.Status]
	if !ok {
		style = statusStyles["pending"]
	}
	if r.Status == "current" && r.Color != "" {
		style = style.Foreground(lipgloss.Color(r.Color))
	}
	return style.Render(line)
}

func (m Model) viewProgress(d viewmodel.Dashboard) string {
	if len(d.Schedule) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		m.progress.ViewAs(float64(d.Progress)/100),
		dimStyle.Render(fmt.Sprintf(" %d%%", d.Progress)),
	)
}

func (m Model) viewSidebar(d viewmodel.Dashboard) string {
	var sections []string
	add := func(title string, lines ...string) {
		if len(lines) == 0 {
			return
		}
		sections = append(sections, sectionStyle.Render(title))
		sections = append(sections, lines...)
	}

	if len(d.Keystones) > 0 {
		var parts []string
		for _, k := range d.Keystones {
			p := k.Symbol + " " + k.Name
			if k.Streak != "" {
				p += dimStyle.Render(" " + k.Streak)
			}
			if k.Critical && !k.Done {
				p = offlineStyle.Render(k.Symbol+" "+k.Name) + dimStyle.Render(" "+k.Streak)
			}
			parts = append(parts, p)
		}
		add("KEYSTONES", parts...)
	}

	if w := d.Weather; w != nil {
		lines := []string{clockStyle.Render(w.Icon + " " + w.Temp)}
		if w.Description != "" {
			lines = append(lines, w.Description)
		}
		for _, detail := range w.Details {
			lines = append(lines, dimStyle.Render(detail))
		}
		add("WEATHER", lines...)
	}

	if h := d.Habits; h != nil {
		lines := []string{dimStyle.Render(fmt.Sprintf("%s · %d%%", h.Header, h.Percent))}
		for _, r := range h.Rows {
			mark := "○"
			if r.Done {
				mark = "●"
			}
			line := mark + " " + r.Name
			if r.Streak > 0 {
				line += fmt.Sprintf(" %dd", r.Streak)
			}
			lines = append(lines, lipgloss.NewStyle().Foreground(opacityShade(r.Opacity)).Render(line))
		}
		add("HABITS", lines...)
	}

	if len(d.Calendar) > 0 {
		var lines []string
		for _, g := range d.Calendar {
			lines = append(lines, dimStyle.Render(g.Label))
			for _, ev := range g.Events {
				line := fmt.Sprintf("  %s  %s", ev.Time, ev.Title)
				if ev.Location != "" {
					line += dimStyle.Render(" @ " + ev.Location)
				}
				lines = append(lines, line)
			}
		}
		add("CALENDAR", lines...)
	}

	add("DONE TODAY", listLines(d.DoneToday, "✓ ")...)
	add("REMINDERS", listLines(d.Reminders, "• ")...)

	if t := d.Tasks; t != nil {
		lines := []string{fmt.Sprintf("P1 %d · P2 %d · quick wins %d", t.P1Count, t.P2Count, t.QuickWins)}
		if t.TopP1 != "" {
			lines = append(lines, dimStyle.Render("top: "+t.TopP1))
		}
		add("TASKS", lines...)
	}

	if p := d.Pipeline; p != nil {
		add("PIPELINE", fmt.Sprintf("%d active · %d ready", p.TotalActive, p.ReadyToRecord))
	}

	if len(d.RecordingReady) > 0 {
		var parts []string
		for _, b := range d.RecordingReady {
			parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(fmt.Sprintf("%s %d", b.Label, b.Count)))
		}
		add("RECORDING READY", strings.Join(parts, "  "))
	}

	if l := d.DailyLog; l != nil {
		var lines []string
		for _, w := range l.Wins {
			lines = append(lines, onlineStyle.Render("+ ")+w)
		}
		for _, b := range l.Blockers {
			lines = append(lines, offlineStyle.Render("- ")+b)
		}
		add("LOG", lines...)
	}

	if b := d.Backlog; b != nil {
		line := b.Task
		if b.Priority != "" {
			line = "[" + b.Priority + "] " + line
		}
		if b.Time != "" {
			line += dimStyle.Render(" " + b.Time)
		}
		add("NEXT UP", line)
	}

	if len(d.Counters) > 0 {
		var lines []string
		for _, c := range d.Counters {
			lines = append(lines, fmt.Sprintf("%s %s", clockStyle.Render(c.Days), dimStyle.Render(c.Label)))
		}
		add("DAYS SINCE", lines...)
	}

	if q := d.Quote; q != nil && d.Complete == nil {
		add("QUOTE", quoteLine(q.Text, q.Author))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func listLines(l *viewmodel.ListView, prefix string) []string {
	if l == nil {
		return nil
	}
	lines := make([]string, 0, len(l.Items)+1)
	for _, item := range l.Items {
		lines = append(lines, prefix+item)
	}
	if l.More != "" {
		lines = append(lines, dimStyle.Render(l.More))
	}
	return lines
}

func (m Model) viewNight(n *viewmodel.NightScreen) string {
	lines := []string{
		nightClockStyle.Render(n.Clock),
		nightStyle.Render(n.Date),
		"",
		nightStyle.Render(n.Moon),
	}
	if n.Countdown != "" {
		lines = append(lines, "", nightStyle.Render(n.Label), nightClockStyle.Render(n.Countdown))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
