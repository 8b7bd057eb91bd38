// Package timertest 提供手动推进的 timer.Scheduler，供界面测试使用
package timertest

import (
	"sort"
	"sync"
	"time"

	"StopWatch/internal/timer"
)

// Scheduler 只有调用 Advance 才会前进的时钟，回调在 Advance 的调用者上同步执行
type Scheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	entries []*handle
}

var _ timer.Scheduler = (*Scheduler)(nil)

type handle struct {
	at       time.Duration
	seq      int
	fn       func()
	canceled bool
	fired    bool
}

func (h *handle) Cancel() {
	h.canceled = true
}

func (s *Scheduler) After(d time.Duration, fn func()) timer.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	h := &handle{at: s.now + d, seq: s.seq, fn: fn}
	s.entries = append(s.entries, h)
	return h
}

// Advance 把时钟推进 d，依次执行到期的回调，包括回调里新安排的
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.next(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.fired = true
		s.mu.Unlock()

		next.fn()
	}
}

func (s *Scheduler) next(limit time.Duration) *handle {
	var live []*handle
	for _, h := range s.entries {
		if !h.canceled && !h.fired && h.at <= limit {
			live = append(live, h)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].at == live[j].at {
			return live[i].seq < live[j].seq
		}
		return live[i].at < live[j].at
	})
	return live[0]
}

// Pending 尚未执行也没有取消的回调数量
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.entries {
		if !h.canceled && !h.fired {
			n++
		}
	}
	return n
}
