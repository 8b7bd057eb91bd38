package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StopWatch/internal/models"
)

type harness struct {
	sched  *fakeScheduler
	view   *fakeView
	engine *Engine
	cfg    models.CountdownConfig
}

func newHarness(cfg models.CountdownConfig, opts ...func(*Options)) *harness {
	h := &harness{sched: &fakeScheduler{}, view: &fakeView{}, cfg: cfg}
	o := Options{
		Scheduler: h.sched,
		View:      h.view,
		Source:    func() models.CountdownConfig { return h.cfg },
	}
	for _, opt := range opts {
		opt(&o)
	}
	h.engine = NewEngine(o)
	return h
}

func TestEngine_CountdownCompletesAndResets(t *testing.T) {
	h := newHarness(models.CountdownConfig{TotalSeconds: 5, CountDownMode: true})

	h.engine.Toggle()
	require.Equal(t, models.StateRunning, h.engine.State())

	h.sched.Advance(time.Second)
	assert.Equal(t, "00:04", h.view.last())

	h.sched.Advance(4 * time.Second)
	assert.Equal(t, []string{"00:04", "00:03", "00:02", "00:01", "00:00"}, h.view.texts)
	assert.Equal(t, models.StateRunning, h.engine.State())

	h.sched.Advance(2*time.Second - time.Millisecond)
	assert.Equal(t, models.StateRunning, h.engine.State())

	h.sched.Advance(time.Millisecond)
	assert.Equal(t, models.StateReady, h.engine.State())
	assert.Equal(t, 0, h.engine.Counter().Elapsed)
	assert.Equal(t, 0, h.sched.Pending())
}

func TestEngine_CountUpTakesDelayedResetPath(t *testing.T) {
	h := newHarness(models.CountdownConfig{TotalSeconds: 3})

	h.engine.Toggle()
	h.sched.Advance(time.Second)
	assert.Equal(t, "00:01", h.view.last())
	assert.Equal(t, 1, h.engine.Counter().Elapsed)

	h.sched.Advance(2 * time.Second)
	assert.Equal(t, []string{"00:01", "00:02", "00:03"}, h.view.texts)

	// 第 4 次触发超过总时长，不再刷新显示，2 秒后重置
	h.sched.Advance(time.Second)
	assert.Len(t, h.view.texts, 3)
	assert.Equal(t, models.StateRunning, h.engine.State())

	h.sched.Advance(2 * time.Second)
	assert.Equal(t, models.StateReady, h.engine.State())
	assert.Equal(t, models.TickCounter{}, h.engine.Counter())
}

func TestEngine_PauseAndResumeKeepsCounter(t *testing.T) {
	h := newHarness(models.CountdownConfig{TotalSeconds: 5, CountDownMode: true})

	h.engine.Toggle()
	h.sched.Advance(3 * time.Second)
	require.Equal(t, 2, h.engine.Counter().Remaining())

	h.engine.Toggle()
	require.Equal(t, models.StatePaused, h.engine.State())
	assert.Equal(t, 0, h.sched.Pending())

	h.sched.Advance(5 * time.Second)
	assert.Len(t, h.view.texts, 3)

	// 暂停期间修改控件不影响本次运行
	h.cfg = models.CountdownConfig{TotalSeconds: 60, CountDownMode: true}

	h.engine.Toggle()
	require.Equal(t, models.StateRunning, h.engine.State())
	h.sched.Advance(time.Second)
	assert.Equal(t, "00:01", h.view.last())
	assert.Equal(t, 1, h.engine.Counter().Remaining())
	assert.Equal(t, 5, h.engine.Config().TotalSeconds)
}

func TestEngine_ResetFromAnyState(t *testing.T) {
	h := newHarness(models.CountdownConfig{TotalSeconds: 30, CountDownMode: true})

	h.engine.Toggle()
	h.sched.Advance(2 * time.Second)
	h.engine.Reset()

	assert.Equal(t, models.StateReady, h.engine.State())
	assert.Equal(t, 0, h.engine.Counter().Elapsed)
	assert.Equal(t, 0, h.sched.Pending())

	shown := len(h.view.texts)
	h.sched.Advance(10 * time.Second)
	assert.Len(t, h.view.texts, shown)

	h.engine.Toggle()
	h.sched.Advance(time.Second)
	h.engine.Toggle()
	h.engine.Reset()
	assert.Equal(t, models.StateReady, h.engine.State())
	assert.Equal(t, 0, h.sched.Pending())

	// 就绪状态下再次重置只刷新显示
	h.engine.Reset()
	assert.Equal(t, "00:30", h.view.last())
	assert.Equal(t, models.StateReady, h.engine.State())
}

func TestEngine_ResetRestoresDefaultStyle(t *testing.T) {
	h := newHarness(models.CountdownConfig{TotalSeconds: 4, CountDownMode: true})

	h.engine.Toggle()
	h.sched.Advance(time.Second)
	require.Equal(t, []bool{true}, h.view.alerts)

	h.engine.Reset()
	assert.Equal(t, []bool{true, false}, h.view.alerts)
}

func TestEngine_AlertFlickerInLastSeconds(t *testing.T) {
	h := newHarness(models.CountdownConfig{TotalSeconds: 12, CountDownMode: true})

	h.engine.Toggle()
	h.sched.Advance(2 * time.Second)
	assert.Empty(t, h.view.alerts)

	h.sched.Advance(4 * time.Second)
	// 剩余 9、8、7、6 秒
	assert.Equal(t, []bool{true, false, true, false}, h.view.alerts)
}

func TestEngine_CountUpAlertUsesSecondsLeft(t *testing.T) {
	h := newHarness(models.CountdownConfig{TotalSeconds: 3})

	h.engine.Toggle()
	h.sched.Advance(3 * time.Second)
	// 2、1、0 秒
	assert.Equal(t, []bool{false, true, false}, h.view.alerts)
}

func TestEngine_PlaysSoundWhenEnabled(t *testing.T) {
	player := &fakePlayer{played: make(chan struct{}, 16)}
	h := newHarness(models.CountdownConfig{TotalSeconds: 3, CountDownMode: true, PlaySound: true}, func(o *Options) {
		o.Player = player
	})

	h.engine.Toggle()
	h.sched.Advance(3 * time.Second)

	for i := 0; i < 3; i++ {
		select {
		case <-player.played:
		case <-time.After(time.Second):
			t.Fatalf("sound %d not played", i+1)
		}
	}
}

func TestEngine_NoSoundWhenDisabled(t *testing.T) {
	player := &fakePlayer{played: make(chan struct{}, 16)}
	h := newHarness(models.CountdownConfig{TotalSeconds: 3, CountDownMode: true}, func(o *Options) {
		o.Player = player
	})

	h.engine.Toggle()
	h.sched.Advance(3 * time.Second)

	select {
	case <-player.played:
		t.Fatal("sound played with sound option off")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEngine_RecordsRuns(t *testing.T) {
	rec := &fakeRecorder{}
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	clock := start
	h := newHarness(models.CountdownConfig{TotalSeconds: 2, CountDownMode: true}, func(o *Options) {
		o.Recorder = rec
		o.Now = func() time.Time { return clock }
	})

	h.engine.Toggle()
	h.sched.Advance(4 * time.Second)
	clock = start.Add(4 * time.Second)
	require.Len(t, rec.records, 1)
	assert.Equal(t, models.OutcomeCompleted, rec.records[0].Outcome)
	assert.Equal(t, 2, rec.records[0].Elapsed)
	assert.Equal(t, start, rec.records[0].StartTime)
	assert.NotEmpty(t, rec.records[0].ID)

	h.engine.Toggle()
	h.sched.Advance(time.Second)
	h.engine.Reset()
	require.Len(t, rec.records, 2)
	assert.Equal(t, models.OutcomeReset, rec.records[1].Outcome)
	assert.Equal(t, 1, rec.records[1].Elapsed)
	assert.NotEqual(t, rec.records[0].ID, rec.records[1].ID)
}

func TestEngine_ZeroTotalCountdown(t *testing.T) {
	h := newHarness(models.CountdownConfig{CountDownMode: true})

	h.engine.Toggle()
	h.sched.Advance(time.Second)
	assert.Empty(t, h.view.texts)
	h.sched.Advance(2 * time.Second)
	assert.Equal(t, models.StateReady, h.engine.State())
}

func TestEngine_StatesReported(t *testing.T) {
	h := newHarness(models.CountdownConfig{TotalSeconds: 10, CountDownMode: true})

	h.engine.Toggle()
	h.engine.Toggle()
	h.engine.Toggle()
	h.engine.Reset()

	assert.Equal(t, []models.TimerState{
		models.StateRunning, models.StatePaused, models.StateRunning, models.StateReady,
	}, h.view.states)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "00:09", FormatClock(9))
	assert.Equal(t, "05:00", FormatClock(300))
	assert.Equal(t, "60:00", FormatClock(3600))
	assert.Equal(t, "00:00", FormatClock(-3))
}
