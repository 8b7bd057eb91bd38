package models

// TimerState 计时器状态
type TimerState int

const (
	StateReady TimerState = iota
	StateRunning
	StatePaused
)

func (s TimerState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// TickCounter 记录本次运行已经走过的秒数，剩余秒数由总时长推出
type TickCounter struct {
	Elapsed int
	Total   int
}

// Remaining 剩余秒数，不会小于 0
func (c TickCounter) Remaining() int {
	if r := c.Total - c.Elapsed; r > 0 {
		return r
	}
	return 0
}

// SecondsLeft 距离目标的秒数，倒计时和正计时使用同一个公式
func (c TickCounter) SecondsLeft() int {
	return c.Total - c.Elapsed
}
