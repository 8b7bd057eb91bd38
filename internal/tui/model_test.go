package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StopWatch/internal/config"
	"StopWatch/internal/models"
	"StopWatch/internal/timer/timertest"
)

var (
	keyF5   = tea.KeyMsg{Type: tea.KeyF5}
	keyF6   = tea.KeyMsg{Type: tea.KeyF6}
	keyF1   = tea.KeyMsg{Type: tea.KeyF1}
	keyEsc  = tea.KeyMsg{Type: tea.KeyEsc}
	keyUp   = tea.KeyMsg{Type: tea.KeyUp}
	keyDown = tea.KeyMsg{Type: tea.KeyDown}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (Model, *timertest.Scheduler) {
	t.Helper()
	sched := &timertest.Scheduler{}
	return NewModel(config.DefaultConfig(), Options{Scheduler: sched}), sched
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestInitialView(t *testing.T) {
	m, _ := newTestModel(t)

	assert.Equal(t, "05:00", m.display.time)
	view := m.View()
	assert.Contains(t, view, "05:00")
	assert.Contains(t, view, "CD · 5 min · sound off · ready")
}

func TestStartPauseReset(t *testing.T) {
	m, sched := newTestModel(t)

	m, _ = send(t, m, keyF5)
	assert.Equal(t, models.StateRunning, m.display.state)

	sched.Advance(time.Second)
	assert.Equal(t, "04:59", m.display.time)

	m, _ = send(t, m, runes(" "))
	assert.Equal(t, models.StatePaused, m.display.state)
	assert.Contains(t, m.View(), "sound off · paused")
	sched.Advance(3 * time.Second)
	assert.Equal(t, "04:59", m.display.time)

	m, _ = send(t, m, keyF6)
	assert.Equal(t, models.StateReady, m.display.state)
	assert.Equal(t, "05:00", m.display.time)
}

func TestSettingsOnlyWhenReady(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = send(t, m, keyUp)
	assert.Equal(t, "06:00", m.display.time)
	m, _ = send(t, m, runes("c"))
	m, _ = send(t, m, runes("s"))
	assert.Contains(t, m.View(), "UP · 6 min · sound on")

	m, _ = send(t, m, keyF5)
	m, _ = send(t, m, keyUp)
	m, _ = send(t, m, runes("c"))
	assert.Equal(t, 6, m.settings.minutes)
	assert.False(t, m.settings.countDown)
	assert.Equal(t, models.CountdownConfig{TotalSeconds: 360, PlaySound: true}, m.engine.Config())
}

func TestMinutesClamped(t *testing.T) {
	m, _ := newTestModel(t)

	for i := 0; i < 10; i++ {
		m, _ = send(t, m, keyDown)
	}
	assert.Equal(t, 1, m.settings.minutes)

	m.settings.minutes = 60
	m, _ = send(t, m, runes("+"))
	assert.Equal(t, 60, m.settings.minutes)
}

func TestAlertNearTheEnd(t *testing.T) {
	m, sched := newTestModel(t)

	for i := 0; i < 4; i++ {
		m, _ = send(t, m, keyDown)
	}
	m, _ = send(t, m, keyF5)

	sched.Advance(50 * time.Second)
	assert.False(t, m.display.alert)
	sched.Advance(time.Second)
	assert.True(t, m.display.alert)
	sched.Advance(time.Second)
	assert.False(t, m.display.alert)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	m, cmd := send(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestAboutDialog(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = send(t, m, keyF1)
	require.True(t, m.aboutVisible)
	view := m.View()
	assert.Contains(t, view, "StopWatch v0.1.0")
	assert.Less(t, strings.Index(view, "beep"), strings.Index(view, "fyne"))

	m, cmd := send(t, m, keyEsc)
	assert.Nil(t, cmd)
	assert.False(t, m.aboutVisible)
	assert.False(t, m.quitting)
}

func TestRunMsgExecutesCallback(t *testing.T) {
	m, _ := newTestModel(t)

	called := false
	_, cmd := send(t, m, runMsg(func() { called = true }))
	assert.Nil(t, cmd)
	assert.True(t, called)
}

func TestViewPlacedTopCenter(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	box := m.renderClock()
	indent := (120 - lipgloss.Width(box)) / 2
	require.Positive(t, indent)

	first := strings.Split(m.View(), "\n")[0]
	assert.True(t, strings.HasPrefix(first, strings.Repeat(" ", indent)))
}
