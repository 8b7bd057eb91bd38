package input

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"StopWatch/internal/layout"
)

// Task 后台监听任务的句柄
type Task struct {
	name string
	done chan struct{}
	err  error
}

// Go 启动一个后台监听任务。任务出错时只记录日志，对应的功能随之失效。
func Go(ctx context.Context, name string, run func(ctx context.Context) error) *Task {
	t := &Task{name: name, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		if err := run(ctx); err != nil {
			t.err = err
			logrus.WithError(err).WithField("listener", name).Debug("input listener stopped")
		}
	}()
	return t
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait 等待任务结束，返回任务的错误
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// PointerListener 指针进出窗口时回调，只在状态变化时通知
type PointerListener struct {
	Bounds   func() layout.Rect
	OnChange func(inside bool)
	Dispatch func(func())

	known  bool
	inside bool
}

func (l *PointerListener) Run(ctx context.Context, src Source) error {
	events, err := src.Subscribe(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Kind == PointerMove {
				l.handle(ev)
			}
		}
	}
}

func (l *PointerListener) handle(ev Event) {
	inside := l.Bounds().Contains(ev.X, ev.Y)
	if l.known && inside == l.inside {
		return
	}
	l.known, l.inside = true, inside
	l.Dispatch(func() {
		l.OnChange(inside)
	})
}

// Hotkeys 全局快捷键配置，按键名见 NormalizeKey
type Hotkeys struct {
	Start        string
	Reset        string
	QuitModifier string
	QuitKey      string
	QuitWindow   time.Duration
}

func DefaultHotkeys() Hotkeys {
	return Hotkeys{
		Start:        "f5",
		Reset:        "f6",
		QuitModifier: "alt",
		QuitKey:      "f4",
		QuitWindow:   500 * time.Millisecond,
	}
}

// HotkeyListener 开始/暂停、重置和退出快捷键。
// 退出需要先按修饰键，再在 QuitWindow 内按退出键，并且只在 Enabled 返回 true 时生效。
type HotkeyListener struct {
	Enabled  func() bool
	OnStart  func()
	OnReset  func()
	OnQuit   func()
	Dispatch func(func())

	mu         sync.Mutex
	keys       Hotkeys
	modifierAt time.Time
}

func NewHotkeyListener(keys Hotkeys) *HotkeyListener {
	l := &HotkeyListener{}
	l.SetKeys(keys)
	return l
}

// SetKeys 配置重新加载时更新按键
func (l *HotkeyListener) SetKeys(keys Hotkeys) {
	keys.Start = NormalizeKey(keys.Start)
	keys.Reset = NormalizeKey(keys.Reset)
	keys.QuitModifier = NormalizeKey(keys.QuitModifier)
	keys.QuitKey = NormalizeKey(keys.QuitKey)

	l.mu.Lock()
	l.keys = keys
	l.modifierAt = time.Time{}
	l.mu.Unlock()
}

func (l *HotkeyListener) Run(ctx context.Context, src Source) error {
	events, err := src.Subscribe(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			l.handle(ev)
		}
	}
}

func (l *HotkeyListener) handle(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := NormalizeKey(ev.Key)
	switch ev.Kind {
	case KeyDown:
		if l.Enabled != nil && !l.Enabled() {
			return
		}
		// 退出键和修饰键相同时就是连按两次
		if key == l.keys.QuitKey && !l.modifierAt.IsZero() && ev.When.Sub(l.modifierAt) < l.keys.QuitWindow {
			l.modifierAt = time.Time{}
			l.fire(l.OnQuit)
			return
		}
		if key == l.keys.QuitModifier {
			l.modifierAt = ev.When
		}
	case KeyUp:
		switch key {
		case l.keys.Start:
			l.fire(l.OnStart)
		case l.keys.Reset:
			l.fire(l.OnReset)
		}
	}
}

func (l *HotkeyListener) fire(fn func()) {
	if fn == nil {
		return
	}
	l.Dispatch(fn)
}
