package timer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"StopWatch/internal/models"
)

const (
	DefaultTickInterval   = time.Second
	DefaultResetDelay     = 2 * time.Second
	DefaultAlertThreshold = 10
)

// View 计时器驱动的显示部分，所有方法都在事件循环上调用
type View interface {
	ShowTime(text string)
	SetAlert(alert bool)
	StateChanged(state models.TimerState)
}

// Player 提示音，Play 会在单独的 goroutine 里调用
type Player interface {
	Play() error
}

// Recorder 接收每一次结束的运行记录
type Recorder interface {
	Record(rec models.RunRecord)
}

type Options struct {
	Scheduler Scheduler
	View      View
	// Source 从界面控件读取当前的配置，只在从就绪状态开始时调用
	Source   func() models.CountdownConfig
	Player   Player
	Recorder Recorder
	Now      func() time.Time

	TickInterval   time.Duration
	ResetDelay     time.Duration
	AlertThreshold int
}

// Engine 倒计时/正计时状态机。
// 所有方法都必须在同一个事件循环上调用，任何时刻最多只有一个待执行的回调。
type Engine struct {
	opts Options

	state   models.TimerState
	config  models.CountdownConfig
	counter models.TickCounter
	pending Handle

	runID      string
	startedAt  time.Time
	completing bool
}

func NewEngine(opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}
	if opts.AlertThreshold <= 0 {
		opts.AlertThreshold = DefaultAlertThreshold
	}
	if opts.Source == nil {
		opts.Source = func() models.CountdownConfig { return models.CountdownConfig{CountDownMode: true} }
	}
	return &Engine{opts: opts, state: models.StateReady}
}

func (e *Engine) State() models.TimerState {
	return e.state
}

func (e *Engine) Counter() models.TickCounter {
	return e.counter
}

func (e *Engine) Config() models.CountdownConfig {
	return e.config
}

// Refresh 就绪状态下按控件上的总时长刷新显示
func (e *Engine) Refresh() {
	if e.state != models.StateReady {
		return
	}
	e.opts.View.ShowTime(FormatClock(e.opts.Source().TotalSeconds))
}

// Toggle 开始按钮：就绪时开始，运行时暂停，暂停时继续
func (e *Engine) Toggle() {
	switch e.state {
	case models.StateReady:
		e.config = e.opts.Source()
		e.counter = models.TickCounter{Total: e.config.TotalSeconds}
		e.runID = uuid.NewString()
		e.startedAt = e.opts.Now()
		e.completing = false
		e.setState(models.StateRunning)
		e.schedule(e.opts.TickInterval, e.tick)
	case models.StateRunning:
		e.cancel()
		e.setState(models.StatePaused)
	case models.StatePaused:
		e.setState(models.StateRunning)
		e.schedule(e.opts.TickInterval, e.tick)
	}
}

// Reset 回到就绪状态，清零计数并取消待执行的回调
func (e *Engine) Reset() {
	e.cancel()
	if e.state == models.StateReady {
		e.Refresh()
		return
	}

	e.record()
	e.counter = models.TickCounter{}
	e.config = models.CountdownConfig{}
	e.completing = false
	e.opts.View.SetAlert(false)
	e.setState(models.StateReady)
	e.Refresh()
}

func (e *Engine) tick() {
	e.pending = nil

	if e.config.CountDownMode {
		if e.counter.Remaining() > 0 {
			e.counter.Elapsed++
			e.show(e.counter.Remaining())
		}
		if e.counter.Remaining() == 0 {
			e.complete()
			return
		}
	} else {
		if e.counter.Elapsed >= e.counter.Total {
			e.complete()
			return
		}
		e.counter.Elapsed++
		e.show(e.counter.Elapsed)
	}

	e.schedule(e.opts.TickInterval, e.tick)
}

// show 显示时间，最后几秒闪烁并播放提示音
func (e *Engine) show(seconds int) {
	e.opts.View.ShowTime(FormatClock(seconds))

	left := e.counter.SecondsLeft()
	if left >= e.opts.AlertThreshold {
		return
	}
	e.opts.View.SetAlert(left%2 != 0)

	if e.config.PlaySound && e.opts.Player != nil {
		go e.play()
	}
}

// complete 停留在 00:00 一会儿再自动重置
func (e *Engine) complete() {
	e.completing = true
	logrus.WithField("run", e.runID).Debug("timer finished, scheduling reset")
	e.schedule(e.opts.ResetDelay, e.Reset)
}

func (e *Engine) play() {
	if err := e.opts.Player.Play(); err != nil {
		logrus.WithError(err).Debug("alert sound failed")
	}
}

func (e *Engine) schedule(d time.Duration, fn func()) {
	e.cancel()
	e.pending = e.opts.Scheduler.After(d, fn)
}

func (e *Engine) cancel() {
	if e.pending != nil {
		e.pending.Cancel()
		e.pending = nil
	}
}

func (e *Engine) setState(state models.TimerState) {
	logrus.WithFields(logrus.Fields{"from": e.state, "to": state}).Debug("timer state changed")
	e.state = state
	e.opts.View.StateChanged(state)
}

func (e *Engine) record() {
	if e.opts.Recorder == nil {
		return
	}
	outcome := models.OutcomeReset
	if e.completing {
		outcome = models.OutcomeCompleted
	}
	e.opts.Recorder.Record(models.RunRecord{
		ID:        e.runID,
		StartTime: e.startedAt,
		EndTime:   e.opts.Now(),
		Total:     e.config.TotalSeconds,
		Elapsed:   e.counter.Elapsed,
		CountDown: e.config.CountDownMode,
		Outcome:   outcome,
	})
}

// FormatClock 秒数转换为 MM:SS
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
