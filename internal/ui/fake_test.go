package ui

import (
	"sync/atomic"
	"time"

	"StopWatch/internal/models"
)

// fakeUpdater 下载和安装在后台 goroutine 上调用，计数用原子变量，安装的路径从 installs 读
type fakeUpdater struct {
	available bool
	path      string
	downloads atomic.Int32
	installs  chan string
}

func newFakeUpdater(available bool, path string) *fakeUpdater {
	return &fakeUpdater{available: available, path: path, installs: make(chan string, 1)}
}

func (u *fakeUpdater) HasUpdate() bool { return u.available }

func (u *fakeUpdater) Download() (string, error) {
	u.downloads.Add(1)
	return u.path, nil
}

func (u *fakeUpdater) Install(path string) error {
	u.installs <- path
	return nil
}

type fakeHistory struct {
	stats  *models.HistoryStats
	runs   []*models.RunRecord
	starts []time.Time
}

func (h *fakeHistory) GetHistoryStats(startDate, endDate, today time.Time) (*models.HistoryStats, error) {
	h.starts = append(h.starts, startDate)
	return h.stats, nil
}

func (h *fakeHistory) RecentRuns(limit int) ([]*models.RunRecord, error) {
	return h.runs, nil
}
