package timer

import (
	"sort"
	"time"

	"StopWatch/internal/models"
)

// fakeScheduler 手动推进的时钟，回调在 Advance 的调用者上同步执行
type fakeScheduler struct {
	now     time.Duration
	seq     int
	entries []*fakeHandle
}

type fakeHandle struct {
	at       time.Duration
	seq      int
	fn       func()
	canceled bool
	fired    bool
}

func (h *fakeHandle) Cancel() {
	h.canceled = true
}

func (s *fakeScheduler) After(d time.Duration, fn func()) Handle {
	s.seq++
	h := &fakeHandle{at: s.now + d, seq: s.seq, fn: fn}
	s.entries = append(s.entries, h)
	return h
}

func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := s.next(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.fn()
	}
	s.now = target
}

func (s *fakeScheduler) next(limit time.Duration) *fakeHandle {
	var live []*fakeHandle
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
func (s *fakeScheduler) Pending() int {
	n := 0
	for _, h := range s.entries {
		if !h.canceled && !h.fired {
			n++
		}
	}
	return n
}

type fakeView struct {
	texts  []string
	alerts []bool
	states []models.TimerState
}

func (v *fakeView) ShowTime(text string) { v.texts = append(v.texts, text) }

func (v *fakeView) SetAlert(alert bool) { v.alerts = append(v.alerts, alert) }

func (v *fakeView) StateChanged(state models.TimerState) { v.states = append(v.states, state) }

func (v *fakeView) last() string {
	if len(v.texts) == 0 {
		return ""
	}
	return v.texts[len(v.texts)-1]
}

type fakePlayer struct {
	played chan struct{}
}

func (p *fakePlayer) Play() error {
	p.played <- struct{}{}
	return nil
}

type fakeRecorder struct {
	records []models.RunRecord
}

func (r *fakeRecorder) Record(rec models.RunRecord) { r.records = append(r.records, rec) }
