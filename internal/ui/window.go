package ui

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/sirupsen/logrus"

	"StopWatch/internal/audio"
	"StopWatch/internal/config"
	"StopWatch/internal/input"
	"StopWatch/internal/models"
	"StopWatch/internal/storage"
	"StopWatch/internal/timer"
)

// 退出时等待后台监听结束的最长时间
const shutdownTimeout = time.Second

type Options struct {
	Updater Updater
	// Scheduler 为空时使用 fyne.Do 派发的 LoopScheduler
	Scheduler timer.Scheduler
}

type MainWindow struct {
	app           fyne.App
	window        fyne.Window
	configManager *config.Manager
	cfg           *config.Config
	db            *storage.Database

	panel   *TimerPanel
	engine  *timer.Engine
	player  *audio.Player
	about   *AboutDialog
	hotkeys *input.HotkeyListener

	hover   *hoverArea
	pointer *input.ChanSource
	keys    *input.ChanSource
	hook    *input.HookSource

	cancel       context.CancelFunc
	tasks        []*input.Task
	shutdownOnce sync.Once
}

// NewMainWindow db 为空时不记录历史
func NewMainWindow(app fyne.App, configManager *config.Manager, db *storage.Database, opts Options) (*MainWindow, error) {
	cfg := configManager.GetConfig()
	w := &MainWindow{
		app:           app,
		window:        newWindow(app, cfg.App),
		configManager: configManager,
		cfg:           cfg,
		db:            db,
		player:        audio.NewPlayer(cfg.Sound.Path, cfg.Sound.Volume),
		pointer:       input.NewChanSource(),
		keys:          input.NewChanSource(),
	}

	panel, err := NewTimerPanel(cfg, PanelActions{
		Toggle:  w.toggle,
		Reset:   w.reset,
		Quit:    w.Quit,
		Changed: w.refresh,
	})
	if err != nil {
		return nil, err
	}
	w.panel = panel

	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = timer.NewLoopScheduler(fyne.Do)
	}
	var recorder timer.Recorder
	if db != nil {
		recorder = db
	}
	w.engine = timer.NewEngine(timer.Options{
		Scheduler:      scheduler,
		View:           panel,
		Source:         panel.Source,
		Player:         w.player,
		Recorder:       recorder,
		TickInterval:   cfg.Timer.TickInterval,
		ResetDelay:     cfg.Timer.ResetDelay,
		AlertThreshold: cfg.Timer.AlertThreshold,
	})
	w.about = NewAboutDialog(app, cfg.App, cfg.About, scheduler, opts.Updater)

	w.hotkeys = input.NewHotkeyListener(hotkeysFrom(cfg.Hotkeys))
	w.hotkeys.Enabled = panel.HotkeysEnabled
	w.hotkeys.OnStart = w.toggle
	w.hotkeys.OnReset = w.reset
	w.hotkeys.OnQuit = w.Quit
	w.hotkeys.Dispatch = fyne.Do

	w.setup()
	return w, nil
}

// newWindow 无边框时使用启动画面窗口
func newWindow(app fyne.App, cfg config.AppConfig) fyne.Window {
	if cfg.Frameless {
		if drv, ok := app.Driver().(desktop.Driver); ok {
			w := drv.CreateSplashWindow()
			w.SetTitle(cfg.Name)
			return w
		}
	}
	return app.NewWindow(cfg.Name)
}

func hotkeysFrom(cfg config.HotkeyConfig) input.Hotkeys {
	return input.Hotkeys{
		Start:        cfg.Start,
		Reset:        cfg.Reset,
		QuitModifier: cfg.QuitModifier,
		QuitKey:      cfg.QuitKey,
		QuitWindow:   cfg.QuitWindow,
	}
}

func (w *MainWindow) setup() {
	w.hover = newHoverArea(w.pointer)
	w.window.SetContent(container.NewStack(w.panel.Container(), w.hover))
	w.window.SetFixedSize(true)
	w.window.SetMaster()
	w.window.CenterOnScreen()

	c := w.window.Canvas()
	c.SetOnTypedKey(w.typedKey)
	// 不使用全局钩子时，快捷键只在窗口有焦点时有效
	if dc, ok := c.(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			w.keys.Emit(input.Event{Kind: input.KeyDown, Key: keyName(ev.Name)})
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			w.keys.Emit(input.Event{Kind: input.KeyUp, Key: keyName(ev.Name)})
		})
	}

	w.app.Lifecycle().SetOnStopped(w.shutdown)
	w.engine.Refresh()
}

func (w *MainWindow) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyEscape:
		w.Quit()
	case fyne.KeyF1:
		if err := w.about.Show(); err != nil {
			logrus.WithError(err).Error("show about failed")
		}
	case fyne.KeyF2:
		w.showHistory()
	}
}

func (w *MainWindow) showHistory() {
	if w.db == nil {
		logrus.Info("history is disabled")
		return
	}
	ShowStatsWindow(w.app, w.db)
}

func (w *MainWindow) toggle() {
	if w.engine.State() == models.StateReady {
		w.rememberSettings()
	}
	w.engine.Toggle()
}

func (w *MainWindow) reset() {
	w.engine.Reset()
}

func (w *MainWindow) refresh() {
	if w.engine != nil {
		w.engine.Refresh()
	}
}

// rememberSettings 开始计时时把改动过的设置写回配置文件，下次启动沿用。
// 没改动的字段不写，命令行参数的覆盖值不会进入配置文件。
func (w *MainWindow) rememberSettings() {
	src := w.panel.Source()
	cfg := w.configManager.GetConfig()

	minutes := src.TotalSeconds / 60
	if minutes == cfg.App.StartMinutes && src.CountDownMode == cfg.Timer.CountDown && src.PlaySound == cfg.Timer.PlaySound {
		return
	}

	err := w.configManager.Update(func(c *config.Config) {
		if minutes != cfg.App.StartMinutes {
			c.App.StartMinutes = minutes
		}
		if src.CountDownMode != cfg.Timer.CountDown {
			c.Timer.CountDown = src.CountDownMode
		}
		if src.PlaySound != cfg.Timer.PlaySound {
			c.Timer.PlaySound = src.PlaySound
		}
	})
	if err != nil {
		logrus.WithError(err).Warn("save settings failed")
	}
}

// configChanged 在配置监听的 goroutine 上调用
func (w *MainWindow) configChanged(cfg *config.Config) {
	fyne.Do(func() {
		w.applyConfig(cfg)
	})
}

func (w *MainWindow) applyConfig(cfg *config.Config) {
	if cfg.Hotkeys.Global != w.cfg.Hotkeys.Global {
		logrus.Info("hotkeys.global takes effect after restart")
	}
	w.cfg = cfg
	w.player.SetSource(cfg.Sound.Path)
	w.player.SetVolume(cfg.Sound.Volume)
	w.hotkeys.SetKeys(hotkeysFrom(cfg.Hotkeys))
	if w.engine.State() == models.StateReady {
		w.panel.Apply(cfg)
		w.engine.Refresh()
	}
	logrus.Debug("config reloaded")
}

// start 启动鼠标、快捷键和配置文件的后台监听
func (w *MainWindow) start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	pointer := &input.PointerListener{
		Bounds:   w.hover.Bounds,
		OnChange: w.panel.SetSecondaryVisible,
		Dispatch: fyne.Do,
	}
	w.tasks = append(w.tasks, input.Go(ctx, "pointer", func(ctx context.Context) error {
		return pointer.Run(ctx, w.pointer)
	}))

	var keySource input.Source = w.keys
	if w.cfg.Hotkeys.Global {
		w.hook = input.NewHookSource()
		keySource = w.hook
	}
	w.tasks = append(w.tasks, input.Go(ctx, "hotkeys", func(ctx context.Context) error {
		return w.hotkeys.Run(ctx, keySource)
	}))

	if err := w.configManager.WatchConfig(ctx, w.configChanged); err != nil {
		logrus.WithError(err).Warn("config watch disabled")
	}
}

func (w *MainWindow) shutdown() {
	w.shutdownOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
		}
		if w.hook != nil {
			w.hook.Close()
		}
		w.pointer.Close()
		w.keys.Close()

		deadline := time.After(shutdownTimeout)
		for _, t := range w.tasks {
			select {
			case <-t.Done():
			case <-deadline:
				logrus.Warn("input listeners did not stop in time")
				return
			}
		}
	})
}

// Quit 退出程序
func (w *MainWindow) Quit() {
	w.app.Quit()
}

func (w *MainWindow) Show() {
	w.start()
	w.window.ShowAndRun()
}
