package input

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StopWatch/internal/layout"
)

// sliceSource 一次性交付固定的事件，然后关闭
type sliceSource []Event

func (s sliceSource) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, len(s))
	for _, ev := range s {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

type failingSource struct{}

func (failingSource) Subscribe(context.Context) (<-chan Event, error) {
	return nil, errors.New("no permission")
}

func inline(fn func()) { fn() }

func TestPointerListener_ReportsTransitionsOnly(t *testing.T) {
	var changes []bool
	l := &PointerListener{
		Bounds:   func() layout.Rect { return layout.Rect{X: 100, Y: 0, Width: 200, Height: 80} },
		OnChange: func(inside bool) { changes = append(changes, inside) },
		Dispatch: inline,
	}

	src := sliceSource{
		{Kind: PointerMove, X: 10, Y: 10},
		{Kind: PointerMove, X: 20, Y: 10},
		{Kind: PointerMove, X: 150, Y: 40},
		{Kind: KeyDown, Key: "f5"},
		{Kind: PointerMove, X: 300, Y: 80},
		{Kind: PointerMove, X: 301, Y: 80},
		{Kind: PointerMove, X: 400, Y: 90},
	}
	require.NoError(t, l.Run(context.Background(), src))
	assert.Equal(t, []bool{false, true, false}, changes)
}

func TestPointerListener_StopsWithContext(t *testing.T) {
	src := NewChanSource()
	defer src.Close()

	ctx, cancel := context.WithCancel(context.Background())
	l := &PointerListener{
		Bounds:   func() layout.Rect { return layout.Rect{} },
		OnChange: func(bool) {},
		Dispatch: inline,
	}
	task := Go(ctx, "pointer", func(ctx context.Context) error { return l.Run(ctx, src) })

	cancel()
	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
	assert.NoError(t, task.Wait())
}

func hotkeys(enabled *bool) (*HotkeyListener, *[]string) {
	var fired []string
	l := NewHotkeyListener(DefaultHotkeys())
	l.Enabled = func() bool { return *enabled }
	l.OnStart = func() { fired = append(fired, "start") }
	l.OnReset = func() { fired = append(fired, "reset") }
	l.OnQuit = func() { fired = append(fired, "quit") }
	l.Dispatch = inline
	return l, &fired
}

func TestHotkeyListener_StartAndResetOnRelease(t *testing.T) {
	enabled := false
	l, fired := hotkeys(&enabled)

	require.NoError(t, l.Run(context.Background(), sliceSource{
		{Kind: KeyDown, Key: "f5"},
		{Kind: KeyUp, Key: "f5"},
		{Kind: KeyUp, Key: "F6"},
		{Kind: KeyUp, Key: "f7"},
	}))
	assert.Equal(t, []string{"start", "reset"}, *fired)
}

func TestHotkeyListener_QuitNeedsModifierWithinWindow(t *testing.T) {
	enabled := true
	l, fired := hotkeys(&enabled)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, l.Run(context.Background(), sliceSource{
		{Kind: KeyDown, Key: "f4", When: base},
		{Kind: KeyDown, Key: "alt", When: base.Add(time.Second)},
		{Kind: KeyDown, Key: "f4", When: base.Add(time.Second + 600*time.Millisecond)},
	}))
	assert.Empty(t, *fired)

	require.NoError(t, l.Run(context.Background(), sliceSource{
		{Kind: KeyDown, Key: "LeftAlt", When: base.Add(5 * time.Second)},
		{Kind: KeyDown, Key: "f4", When: base.Add(5*time.Second + 300*time.Millisecond)},
	}))
	assert.Equal(t, []string{"quit"}, *fired)
}

func TestHotkeyListener_QuitIgnoredWhileDisabled(t *testing.T) {
	enabled := false
	l, fired := hotkeys(&enabled)
	base := time.Now()

	require.NoError(t, l.Run(context.Background(), sliceSource{
		{Kind: KeyDown, Key: "alt", When: base},
		{Kind: KeyDown, Key: "f4", When: base.Add(100 * time.Millisecond)},
	}))
	assert.Empty(t, *fired)
}

func TestHotkeyListener_DoublePressModifier(t *testing.T) {
	enabled := true
	l, fired := hotkeys(&enabled)
	keys := DefaultHotkeys()
	keys.QuitKey = "alt"
	l.SetKeys(keys)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, l.Run(context.Background(), sliceSource{
		{Kind: KeyDown, Key: "alt", When: base},
		{Kind: KeyDown, Key: "alt", When: base.Add(700 * time.Millisecond)},
	}))
	assert.Empty(t, *fired)

	require.NoError(t, l.Run(context.Background(), sliceSource{
		{Kind: KeyDown, Key: "alt", When: base.Add(900 * time.Millisecond)},
	}))
	assert.Equal(t, []string{"quit"}, *fired)
}

func TestHotkeyListener_SetKeys(t *testing.T) {
	enabled := true
	l, fired := hotkeys(&enabled)
	l.SetKeys(Hotkeys{Start: "Space", Reset: "R", QuitModifier: "ctrl", QuitKey: "q", QuitWindow: time.Second})

	base := time.Now()
	require.NoError(t, l.Run(context.Background(), sliceSource{
		{Kind: KeyUp, Key: "f5"},
		{Kind: KeyUp, Key: "space"},
		{Kind: KeyUp, Key: "r"},
		{Kind: KeyDown, Key: "LeftControl", When: base},
		{Kind: KeyDown, Key: "q", When: base.Add(800 * time.Millisecond)},
	}))
	assert.Equal(t, []string{"start", "reset", "quit"}, *fired)
}

func TestGo_SubscribeFailureEndsQuietly(t *testing.T) {
	l := NewHotkeyListener(DefaultHotkeys())
	task := Go(context.Background(), "keys", func(ctx context.Context) error { return l.Run(ctx, failingSource{}) })
	assert.EqualError(t, task.Wait(), "no permission")
}

func TestChanSource_FanOutAndClose(t *testing.T) {
	src := NewChanSource()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := src.Subscribe(ctx)
	require.NoError(t, err)
	b, err := src.Subscribe(context.Background())
	require.NoError(t, err)

	src.Emit(Event{Kind: KeyUp, Key: "f5"})
	evA := <-a
	evB := <-b
	assert.Equal(t, "f5", evA.Key)
	assert.False(t, evA.When.IsZero())
	assert.Equal(t, evA, evB)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-a:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	src.Close()
	_, ok := <-b
	assert.False(t, ok)

	_, err = src.Subscribe(context.Background())
	assert.ErrorIs(t, err, ErrSourceClosed)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "esc", NormalizeKey("Escape"))
	assert.Equal(t, "alt", NormalizeKey("LeftAlt"))
	assert.Equal(t, "f5", NormalizeKey(" F5 "))
	assert.Equal(t, "ctrl", NormalizeKey("RightControl"))
}
