package ui

import (
	"image/color"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"StopWatch/internal/config"
	"StopWatch/internal/layout"
	"StopWatch/internal/models"
	"StopWatch/internal/timer"
)

const (
	startText = "Start[F5]"
	pauseText = "Pause[F5]"
	exitText  = "Exit[ESC]"
	resetText = "Reset[F6]"
)

// PanelActions 面板按钮对应的操作
type PanelActions struct {
	Toggle  func()
	Reset   func()
	Quit    func()
	Changed func()
}

// TimerPanel 时间显示加设置控件，实现 timer.View
type TimerPanel struct {
	container *fyne.Container
	actions   PanelActions

	// UI 组件
	timeLabel   *canvas.Text
	minutes     *widget.Slider
	countDown   *widget.Check
	playSound   *widget.Check
	startButton *widget.Button
	exitButton  *widget.Button

	settings  []fyne.CanvasObject // 只能在就绪状态修改的控件
	secondary []fyne.CanvasObject // 鼠标离开窗口时隐藏

	alert       bool
	hotkeysLive atomic.Bool
}

var _ timer.View = (*TimerPanel)(nil)

func NewTimerPanel(cfg *config.Config, actions PanelActions) (*TimerPanel, error) {
	p := &TimerPanel{actions: actions}
	base := float32(cfg.App.BaseSize)

	p.timeLabel = canvas.NewText(timer.FormatClock(cfg.App.StartMinutes*60), theme.Color(theme.ColorNameForeground))
	p.timeLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	p.timeLabel.TextSize = base * 7
	p.timeLabel.Alignment = fyne.TextAlignCenter

	p.minutes = widget.NewSlider(float64(cfg.Timer.MinMinutes), float64(cfg.Timer.MaxMinutes))
	p.minutes.Step = 1
	p.minutes.SetValue(float64(cfg.App.StartMinutes))
	p.countDown = widget.NewCheck("CD", nil)
	p.countDown.SetChecked(cfg.Timer.CountDown)
	p.playSound = widget.NewCheck("Sound", nil)
	p.playSound.SetChecked(cfg.Timer.PlaySound)
	// 初始值设置完再挂回调
	p.minutes.OnChanged = func(float64) { p.changed() }
	p.countDown.OnChanged = func(bool) { p.changed() }

	p.startButton = widget.NewButton(startText, func() { call(p.actions.Toggle) })
	p.startButton.Importance = widget.HighImportance
	p.exitButton = widget.NewButton(exitText, p.exitTapped)
	p.exitButton.Importance = widget.DangerImportance

	padding := layout.Padding{PadX: base, PadY: base, IPadX: base, IPadY: base / 2}
	if cfg.App.Padding != nil {
		parsed, err := layout.ParsePadding(cfg.App.Padding)
		if err != nil {
			return nil, err
		}
		padding = parsed
	}

	grid, err := layout.NewGrid([][]layout.Cell{
		{layout.Widget(p.timeLabel), layout.Span()},
		{layout.Widget(p.minutes), layout.Span()},
		{layout.Widget(p.countDown), layout.Widget(p.playSound)},
		{layout.Widget(p.startButton), layout.Widget(p.exitButton)},
	}, padding)
	if err != nil {
		return nil, err
	}
	p.container = grid

	p.settings = []fyne.CanvasObject{p.minutes, p.countDown, p.playSound}
	p.secondary = []fyne.CanvasObject{p.minutes, p.countDown, p.playSound, p.startButton, p.exitButton}
	p.hotkeysLive.Store(true)
	return p, nil
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func (p *TimerPanel) changed() {
	call(p.actions.Changed)
}

// 就绪时是退出按钮，其余状态下是重置按钮
func (p *TimerPanel) exitTapped() {
	if p.exitButton.Text == resetText {
		call(p.actions.Reset)
		return
	}
	call(p.actions.Quit)
}

func (p *TimerPanel) Container() *fyne.Container {
	return p.container
}

// Source 从控件读取本次运行的配置
func (p *TimerPanel) Source() models.CountdownConfig {
	return models.FromMinutes(int(p.minutes.Value), p.countDown.Checked, p.playSound.Checked)
}

// Apply 把配置里的时长和开关写回控件，只在就绪状态下调用
func (p *TimerPanel) Apply(cfg *config.Config) {
	p.minutes.Min = float64(cfg.Timer.MinMinutes)
	p.minutes.Max = float64(cfg.Timer.MaxMinutes)
	p.minutes.SetValue(float64(cfg.App.StartMinutes))
	p.countDown.SetChecked(cfg.Timer.CountDown)
	p.playSound.SetChecked(cfg.Timer.PlaySound)
}

// HotkeysEnabled 退出快捷键是否可用，可以在任意 goroutine 上调用
func (p *TimerPanel) HotkeysEnabled() bool {
	return p.hotkeysLive.Load()
}

// SetSecondaryVisible 鼠标进出窗口时显示或隐藏时间以外的控件
func (p *TimerPanel) SetSecondaryVisible(visible bool) {
	for _, obj := range p.secondary {
		if visible {
			obj.Show()
		} else {
			obj.Hide()
		}
	}
	p.container.Refresh()
}

func (p *TimerPanel) ShowTime(text string) {
	p.timeLabel.Text = text
	p.timeLabel.Refresh()
}

func (p *TimerPanel) SetAlert(alert bool) {
	p.alert = alert
	p.timeLabel.Color = p.timeColor()
	p.timeLabel.Refresh()
}

func (p *TimerPanel) timeColor() color.Color {
	if p.alert {
		return theme.Color(theme.ColorNameError)
	}
	return theme.Color(theme.ColorNameForeground)
}

func (p *TimerPanel) StateChanged(state models.TimerState) {
	switch state {
	case models.StateReady:
		p.setButton(p.startButton, startText, widget.HighImportance)
		p.setButton(p.exitButton, exitText, widget.DangerImportance)
	case models.StateRunning:
		p.setButton(p.startButton, pauseText, widget.WarningImportance)
		p.setButton(p.exitButton, resetText, widget.SuccessImportance)
	case models.StatePaused:
		p.setButton(p.startButton, startText, widget.HighImportance)
		p.setButton(p.exitButton, resetText, widget.SuccessImportance)
	}

	ready := state == models.StateReady
	SetEnabled(ready, p.settings...)
	p.hotkeysLive.Store(ready)
}

func (p *TimerPanel) setButton(b *widget.Button, text string, importance widget.Importance) {
	b.Importance = importance
	b.SetText(text)
}
