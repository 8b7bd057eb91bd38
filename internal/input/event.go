package input

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var ErrSourceClosed = errors.New("input: source closed")

type Kind int

const (
	PointerMove Kind = iota
	KeyDown
	KeyUp
)

// Event 一个指针或按键事件。Key 是小写的按键名，例如 "f5"、"alt"。
type Event struct {
	Kind Kind
	Key  string
	X    int
	Y    int
	When time.Time
}

// Source 输入事件流。ctx 结束或事件源关闭时 channel 会被关闭。
type Source interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// NormalizeKey 统一按键名写法
func NormalizeKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "escape":
		return "esc"
	case "return":
		return "enter"
	case "leftalt", "rightalt", "lalt", "ralt", "alt_l", "alt_r":
		return "alt"
	case "leftcontrol", "rightcontrol", "lctrl", "rctrl", "control":
		return "ctrl"
	case "leftshift", "rightshift", "lshift", "rshift":
		return "shift"
	}
	return name
}

// hub 把一路事件分发给多个订阅者，订阅者处理不过来时丢弃事件
type hub struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
	done   chan struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[chan Event]struct{}), done: make(chan struct{})}
}

func (h *hub) subscribe(ctx context.Context, size int) (<-chan Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrSourceClosed
	}

	ch := make(chan Event, size)
	h.subs[ch] = struct{}{}
	go func() {
		select {
		case <-ctx.Done():
			h.remove(ch)
		case <-h.done:
		}
	}()
	return ch, nil
}

func (h *hub) remove(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for ch := range h.subs {
		close(ch)
	}
	h.subs = nil
}

// ChanSource 由程序自己喂事件的输入源，用来转发窗口内部的鼠标和键盘事件
type ChanSource struct {
	hub *hub
	now func() time.Time
}

func NewChanSource() *ChanSource {
	return &ChanSource{hub: newHub(), now: time.Now}
}

func (s *ChanSource) Subscribe(ctx context.Context) (<-chan Event, error) {
	return s.hub.subscribe(ctx, 64)
}

// Emit 不会阻塞调用方，When 为空时补上当前时间
func (s *ChanSource) Emit(ev Event) {
	if ev.When.IsZero() {
		ev.When = s.now()
	}
	s.hub.publish(ev)
}

func (s *ChanSource) Close() {
	s.hub.close()
}
