package ui

import (
	"fmt"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"StopWatch/internal/config"
	"StopWatch/internal/layout"
	"StopWatch/internal/timer"
)

// UpdateCheckDelay 关于窗口打开后多久检查更新
const UpdateCheckDelay = time.Second

// Updater 检查、下载和安装新版本
type Updater interface {
	HasUpdate() bool
	Download() (string, error)
	Install(path string) error
}

type noopUpdater struct{}

func (noopUpdater) HasUpdate() bool           { return false }
func (noopUpdater) Download() (string, error) { return "", nil }
func (noopUpdater) Install(string) error      { return nil }

// AboutDialog 关于窗口：作者、捐助链接、致谢列表，打开后检查更新
type AboutDialog struct {
	app       fyne.App
	appCfg    config.AppConfig
	cfg       config.AboutConfig
	scheduler timer.Scheduler
	updater   Updater

	window  fyne.Window
	pending timer.Handle
	confirm *widget.PopUp
}

func NewAboutDialog(app fyne.App, appCfg config.AppConfig, cfg config.AboutConfig, scheduler timer.Scheduler, updater Updater) *AboutDialog {
	if updater == nil {
		updater = noopUpdater{}
	}
	return &AboutDialog{
		app:       app,
		appCfg:    appCfg,
		cfg:       cfg,
		scheduler: scheduler,
		updater:   updater,
	}
}

// Show 打开关于窗口，已经打开时只把它提到前面
func (a *AboutDialog) Show() error {
	if a.window != nil {
		a.window.RequestFocus()
		return nil
	}

	content, err := a.content()
	if err != nil {
		return err
	}

	base := float32(a.appCfg.BaseSize)
	scroll := container.NewVScroll(content)
	scroll.SetMinSize(fyne.NewSize(base*55, base*50))

	w := a.app.NewWindow("About")
	w.SetContent(scroll)
	w.SetFixedSize(true)
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			w.Close()
		}
	})
	w.SetOnClosed(a.closed)
	a.window = w
	w.CenterOnScreen()
	w.Show()

	if a.cfg.ShowUpdate {
		a.pending = a.scheduler.After(UpdateCheckDelay, a.checkUpdate)
	}
	return nil
}

func (a *AboutDialog) closed() {
	if a.pending != nil {
		a.pending.Cancel()
		a.pending = nil
	}
	a.window = nil
	a.confirm = nil
}

func (a *AboutDialog) content() (*fyne.Container, error) {
	rows := [][]layout.Cell{
		{layout.Widget(widget.NewLabelWithStyle(fmt.Sprintf("%s v%s", a.appCfg.Name, a.appCfg.Version), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))},
	}
	if a.cfg.Author != "" {
		rows = append(rows, []layout.Cell{layout.Widget(widget.NewLabelWithStyle("Author: "+a.cfg.Author, fyne.TextAlignCenter, fyne.TextStyle{}))})
	}
	if a.cfg.DonateURL != "" {
		rows = append(rows, []layout.Cell{layout.Widget(widget.NewButton("Buy me a coffee", a.openDonate))})
	}

	rows = append(rows,
		[]layout.Cell{layout.Widget(widget.NewSeparator())},
		[]layout.Cell{layout.Widget(widget.NewLabelWithStyle("Thanks to Go and the following packages", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}))},
	)
	for _, name := range a.cfg.SortedAcknowledgements() {
		rows = append(rows, []layout.Cell{layout.Widget(widget.NewLabelWithStyle(name, fyne.TextAlignCenter, fyne.TextStyle{}))})
	}

	base := float32(a.appCfg.BaseSize)
	return layout.NewGrid(rows, layout.Padding{PadY: base / 2})
}

func (a *AboutDialog) openDonate() {
	u, err := url.Parse(a.cfg.DonateURL)
	if err != nil {
		logrus.WithError(err).Warn("invalid donate url")
		return
	}
	if err := a.app.OpenURL(u); err != nil {
		logrus.WithError(err).Warn("open donate url failed")
	}
}

// checkUpdate 有新版本时在关于窗口中弹出确认框
func (a *AboutDialog) checkUpdate() {
	a.pending = nil
	if a.window == nil || !a.updater.HasUpdate() {
		return
	}

	msg := widget.NewLabel("A new version is available. Update now?")
	var pop *widget.PopUp
	ok := widget.NewButton("OK", func() {
		pop.Hide()
		a.runUpdate()
	})
	ok.Importance = widget.HighImportance
	cancel := widget.NewButton("Cancel", func() { pop.Hide() })
	content := container.NewVBox(msg, container.NewGridWithColumns(2, cancel, ok))

	pop = widget.NewPopUp(content, a.window.Canvas())
	showCentered(pop, a.window.Canvas())
	a.confirm = pop
}

// runUpdate 下载和安装放在后台，结果只记日志
func (a *AboutDialog) runUpdate() {
	go func() {
		path, err := a.updater.Download()
		if err == nil && path != "" {
			err = a.updater.Install(path)
		}
		if err != nil {
			logrus.WithError(err).Warn("update failed")
		}
	}()
}

// showCentered 按黄金比例把弹出框放在画布里
func showCentered(pop *widget.PopUp, c fyne.Canvas) {
	size := c.Size()
	ms := pop.MinSize()
	pos := layout.Position(
		layout.Size{Width: int(ms.Width), Height: int(ms.Height)},
		&layout.Rect{Width: int(size.Width), Height: int(size.Height)},
		layout.Size{},
	)
	pop.ShowAtPosition(fyne.NewPos(float32(pos.X), float32(pos.Y)))
}
