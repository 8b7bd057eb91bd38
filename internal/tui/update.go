package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"StopWatch/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runMsg:
		msg()
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.aboutVisible {
		if key.Matches(msg, m.keys.Quit) || msg.Type == tea.KeyEnter {
			m.aboutVisible = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.engine.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.engine.Reset()
	case key.Matches(msg, m.keys.About):
		m.aboutVisible = true
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		m.changeSettings(msg)
	}
	return m, nil
}

// changeSettings 设置只在就绪状态下可以修改
func (m Model) changeSettings(msg tea.KeyMsg) {
	if m.engine.State() != models.StateReady {
		return
	}
	switch {
	case key.Matches(msg, m.keys.Longer):
		m.settings.adjust(1)
	case key.Matches(msg, m.keys.Shorter):
		m.settings.adjust(-1)
	case key.Matches(msg, m.keys.CountDown):
		m.settings.countDown = !m.settings.countDown
	case key.Matches(msg, m.keys.Sound):
		m.settings.playSound = !m.settings.playSound
	default:
		return
	}
	m.engine.Refresh()
}
