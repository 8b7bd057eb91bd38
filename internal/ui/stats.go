package ui

import (
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"StopWatch/internal/models"
	"StopWatch/internal/timer"
)

const recentLimit = 10

// HistoryReader 统计窗口需要的查询，由 storage.Database 实现
type HistoryReader interface {
	GetHistoryStats(startDate, endDate, today time.Time) (*models.HistoryStats, error)
	RecentRuns(limit int) ([]*models.RunRecord, error)
}

type StatsView struct {
	container  *fyne.Container
	db         HistoryReader
	now        func() time.Time
	dateRange  *widget.Select
	runStats   *widget.Label
	recentRuns *widget.Label
	refreshBtn *widget.Button
}

func NewStatsView(db HistoryReader) *StatsView {
	sv := &StatsView{
		db:         db,
		now:        time.Now,
		runStats:   widget.NewLabel(""),
		recentRuns: widget.NewLabel(""),
	}
	sv.setup()
	return sv
}

func (sv *StatsView) setup() {
	// 创建标题
	title := widget.NewLabelWithStyle("History", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	// 创建刷新按钮
	sv.refreshBtn = widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		if selected := sv.dateRange.Selected; selected != "" {
			sv.updateStats(selected)
		}
	})

	// 创建日期范围选择器
	sv.dateRange = widget.NewSelect(
		[]string{"Today", "This Week", "This Month", "All Time"},
		func(selected string) {
			sv.updateStats(selected)
		},
	)

	toolbar := container.NewHBox(
		widget.NewLabel("Time Range:"),
		sv.dateRange,
		sv.refreshBtn,
	)

	statsContainer := container.NewHBox(
		container.NewVBox(
			widget.NewLabelWithStyle("Runs", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
			sv.runStats,
		),
		container.NewVBox(
			widget.NewLabelWithStyle("Recent", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
			sv.recentRuns,
		),
	)

	sv.container = container.NewVBox(
		title,
		toolbar,
		statsContainer,
	)

	sv.dateRange.SetSelected("Today")
}

// RangeStart 时间范围的起点，All Time 返回零值
func RangeStart(timeRange string, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch timeRange {
	case "Today":
		return today
	case "This Week":
		return today.AddDate(0, 0, -int(now.Weekday()))
	case "This Month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	return time.Time{}
}

func (sv *StatsView) updateStats(timeRange string) {
	now := sv.now()
	startDate := RangeStart(timeRange, now)
	today := RangeStart("Today", now)

	stats, err := sv.db.GetHistoryStats(startDate, now, today)
	if err != nil {
		logrus.WithError(err).Warn("load history stats failed")
		return
	}
	sv.runStats.SetText(FormatStats(stats))

	runs, err := sv.db.RecentRuns(recentLimit)
	if err != nil {
		logrus.WithError(err).Warn("load recent runs failed")
		return
	}
	sv.recentRuns.SetText(FormatRuns(runs))
}

// FormatStats 统计信息的文本形式，命令行的 history 子命令也用它
func FormatStats(stats *models.HistoryStats) string {
	var completionRate float64
	if stats.TotalRuns > 0 {
		completionRate = float64(stats.CompletedRuns) / float64(stats.TotalRuns) * 100
	}

	return fmt.Sprintf(
		"Total Runs: %d\n"+
			"Completed: %d\n"+
			"Completion Rate: %.1f%%\n"+
			"Total Time: %.1f hours\n"+
			"Average Run: %.1f minutes\n"+
			"Today's Runs: %d\n"+
			"Today's Time: %.1f hours",
		stats.TotalRuns,
		stats.CompletedRuns,
		completionRate,
		float64(stats.TotalElapsed)/3600,
		stats.AverageElapsed/60,
		stats.TodayRuns,
		float64(stats.TodayElapsed)/3600,
	)
}

// FormatRuns 最近运行记录的文本形式
func FormatRuns(runs []*models.RunRecord) string {
	if len(runs) == 0 {
		return "No runs yet"
	}
	lines := make([]string, 0, len(runs))
	for _, run := range runs {
		mode := "up"
		if run.CountDown {
			mode = "down"
		}
		lines = append(lines, fmt.Sprintf("%s  %s/%s  %-4s %s",
			run.StartTime.Local().Format("01-02 15:04"),
			timer.FormatClock(run.Elapsed),
			timer.FormatClock(run.Total),
			mode,
			run.Outcome,
		))
	}
	return strings.Join(lines, "\n")
}

func (sv *StatsView) Container() *fyne.Container {
	return sv.container
}

// ShowStatsWindow 打开统计窗口
func ShowStatsWindow(app fyne.App, db HistoryReader) fyne.Window {
	sv := NewStatsView(db)
	w := app.NewWindow("History")
	w.SetContent(container.NewPadded(sv.Container()))
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			w.Close()
		}
	})
	w.CenterOnScreen()
	w.Show()
	return w
}
