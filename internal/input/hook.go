package input

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	hook "github.com/robotn/gohook"
	"github.com/sirupsen/logrus"
)

// 反查表只收录这些按键，避免多个名字对应同一个键码
var hookKeyNames = []string{
	"alt", "ctrl", "shift", "esc", "space", "enter", "tab",
	"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12",
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
}

// HookSource 系统级的鼠标键盘钩子。整个进程只启动一次，事件分发给所有订阅者。
type HookSource struct {
	hub     *hub
	once    sync.Once
	started atomic.Bool
	names   map[uint16]string
	start   func() chan hook.Event
	end     func()
}

func NewHookSource() *HookSource {
	names := make(map[uint16]string, len(hookKeyNames))
	for _, name := range hookKeyNames {
		if code, ok := hook.Keycode[name]; ok {
			names[code] = name
		}
	}
	return &HookSource{
		hub:   newHub(),
		names: names,
		start: hook.Start,
		end:   hook.End,
	}
}

func (s *HookSource) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch, err := s.hub.subscribe(ctx, 256)
	if err != nil {
		return nil, err
	}
	s.once.Do(func() {
		s.started.Store(true)
		go s.run()
	})
	return ch, nil
}

// run 钩子初始化失败（例如缺少系统权限）时静默退出，快捷键随之失效
func (s *HookSource) run() {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("reason", fmt.Sprint(r)).Debug("global input hook unavailable")
			s.hub.close()
		}
	}()

	events := s.start()
	for {
		select {
		case <-s.hub.done:
			return
		case ev, ok := <-events:
			if !ok {
				s.hub.close()
				return
			}
			if e, ok := s.translate(ev); ok {
				s.hub.publish(e)
			}
		}
	}
}

// translate gohook 的 KeyDown 是字符输入事件，功能键只会出现在 KeyHold 里，所以按下用 KeyHold
func (s *HookSource) translate(ev hook.Event) (Event, bool) {
	when := ev.When
	if when.IsZero() {
		when = time.Now()
	}
	switch ev.Kind {
	case hook.MouseMove, hook.MouseDrag:
		return Event{Kind: PointerMove, X: int(ev.X), Y: int(ev.Y), When: when}, true
	case hook.KeyHold:
		if name, ok := s.names[ev.Keycode]; ok {
			return Event{Kind: KeyDown, Key: name, When: when}, true
		}
	case hook.KeyUp:
		if name, ok := s.names[ev.Keycode]; ok {
			return Event{Kind: KeyUp, Key: name, When: when}, true
		}
	}
	return Event{}, false
}

func (s *HookSource) Close() {
	s.hub.close()
	if s.started.Load() {
		s.end()
	}
}
