package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"StopWatch/internal/layout"
)

var (
	clockStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder())
	alertStyle = clockStyle.
			Foreground(lipgloss.Color("9")).
			BorderForeground(lipgloss.Color("9"))
	statusStyle = lipgloss.NewStyle().Faint(true)
	aboutStyle  = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.DoubleBorder()).
			Align(lipgloss.Center)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.aboutVisible {
		return m.place(m.renderAbout(), true)
	}
	return m.place(m.renderClock(), false)
}

func (m Model) renderClock() string {
	style := clockStyle
	if m.display.alert {
		style = alertStyle
	}
	clock := style.Render(m.display.time)

	return lipgloss.JoinVertical(lipgloss.Center,
		clock,
		statusStyle.Render(m.status()),
		m.help.View(m.keys),
	)
}

func (m Model) status() string {
	mode := "CD"
	if !m.settings.countDown {
		mode = "UP"
	}
	sound := "off"
	if m.settings.playSound {
		sound = "on"
	}
	return fmt.Sprintf("%s · %d min · sound %s · %s", mode, m.settings.minutes, sound, m.display.state)
}

func (m Model) renderAbout() string {
	app, about := m.cfg.App, m.cfg.About
	lines := []string{titleStyle.Render(fmt.Sprintf("%s v%s", app.Name, app.Version))}
	if about.Author != "" {
		lines = append(lines, "Author: "+about.Author)
	}
	if about.DonateURL != "" {
		lines = append(lines, about.DonateURL)
	}

	lines = append(lines, "", "Thanks to Go and the following packages", "")
	lines = append(lines, about.SortedAcknowledgements()...)
	lines = append(lines, "", statusStyle.Render("esc/enter to close"))
	return aboutStyle.Render(strings.Join(lines, "\n"))
}

// place 主界面放在终端顶部居中，about 框按黄金比例放置
func (m Model) place(box string, dialog bool) string {
	if m.width <= 0 {
		return box
	}
	size := layout.Size{Width: lipgloss.Width(box), Height: lipgloss.Height(box)}
	screen := layout.Size{Width: m.width, Height: m.height}

	var pos layout.Point
	if dialog {
		pos = layout.Position(size, nil, screen)
	} else {
		pos = layout.TopCenter(size, screen)
	}
	return lipgloss.NewStyle().MarginLeft(pos.X).MarginTop(pos.Y).Render(box)
}
