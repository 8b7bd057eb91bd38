package models

import "time"

type RunOutcome string

const (
	OutcomeCompleted RunOutcome = "completed"
	OutcomeReset     RunOutcome = "reset"
)

// RunRecord 一次计时运行的记录
type RunRecord struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	Total     int // 以秒为单位
	Elapsed   int // 以秒为单位
	CountDown bool
	Outcome   RunOutcome
}

// HistoryStats 历史统计
type HistoryStats struct {
	TotalRuns      int
	CompletedRuns  int
	TotalElapsed   int64 // 以秒为单位
	AverageElapsed float64
	TodayRuns      int
	TodayElapsed   int64
}
