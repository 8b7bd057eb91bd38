package timer

import (
	"sync/atomic"
	"time"
)

// Handle 一次性延迟回调的句柄。对已经执行或已经取消的句柄调用 Cancel 不做任何事。
type Handle interface {
	Cancel()
}

// Scheduler 在 d 之后于事件循环上执行 fn
type Scheduler interface {
	After(d time.Duration, fn func()) Handle
}

// LoopScheduler 用 time.AfterFunc 计时，到期后通过 dispatch 把回调交给拥有界面的那个线程。
// GUI 里 dispatch 是 fyne.Do，终端界面里是 tea.Program.Send。
type LoopScheduler struct {
	dispatch func(func())
}

func NewLoopScheduler(dispatch func(func())) *LoopScheduler {
	return &LoopScheduler{dispatch: dispatch}
}

func (s *LoopScheduler) After(d time.Duration, fn func()) Handle {
	h := &loopHandle{}
	h.timer = time.AfterFunc(d, func() {
		s.dispatch(func() {
			// Cancel 可能发生在计时器触发之后、回调排到事件循环之前
			if h.done.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return h
}

type loopHandle struct {
	timer *time.Timer
	done  atomic.Bool
}

func (h *loopHandle) Cancel() {
	if h.done.CompareAndSwap(false, true) {
		h.timer.Stop()
	}
}
