package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"StopWatch/internal/config"
	"StopWatch/internal/models"
	"StopWatch/internal/timer"
)

// runMsg 计时器的回调，在 Update 里执行
type runMsg func()

// display 实现 timer.View，Model 按值传递，状态放在指针里共享
type display struct {
	time  string
	alert bool
	state models.TimerState
}

func (d *display) ShowTime(text string) {
	d.time = text
}

func (d *display) SetAlert(alert bool) {
	d.alert = alert
}

func (d *display) StateChanged(state models.TimerState) {
	d.state = state
}

// settings 就绪状态下可以修改的设置
type settings struct {
	minutes   int
	min       int
	max       int
	countDown bool
	playSound bool
}

func (s *settings) source() models.CountdownConfig {
	return models.FromMinutes(s.minutes, s.countDown, s.playSound)
}

func (s *settings) adjust(delta int) {
	s.minutes = min(max(s.minutes+delta, s.min), s.max)
}

type Options struct {
	Scheduler timer.Scheduler
	Player    timer.Player
	Recorder  timer.Recorder
}

// Model 终端界面的根模型
type Model struct {
	cfg      *config.Config
	engine   *timer.Engine
	display  *display
	settings *settings

	keys         keyMap
	help         help.Model
	width        int
	height       int
	aboutVisible bool
	quitting     bool
}

func NewModel(cfg *config.Config, opts Options) Model {
	d := &display{state: models.StateReady}
	s := &settings{
		minutes:   cfg.App.StartMinutes,
		min:       cfg.Timer.MinMinutes,
		max:       cfg.Timer.MaxMinutes,
		countDown: cfg.Timer.CountDown,
		playSound: cfg.Timer.PlaySound,
	}

	engine := timer.NewEngine(timer.Options{
		Scheduler:      opts.Scheduler,
		View:           d,
		Source:         s.source,
		Player:         opts.Player,
		Recorder:       opts.Recorder,
		TickInterval:   cfg.Timer.TickInterval,
		ResetDelay:     cfg.Timer.ResetDelay,
		AlertThreshold: cfg.Timer.AlertThreshold,
	})
	engine.Refresh()

	return Model{
		cfg:      cfg,
		engine:   engine,
		display:  d,
		settings: s,
		keys:     newKeyMap(),
		help:     help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}
