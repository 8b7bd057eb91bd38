package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StopWatch/internal/models"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabase_SaveAndListRuns(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	first := &models.RunRecord{StartTime: base, EndTime: base.Add(5 * time.Minute), Total: 300, Elapsed: 300, CountDown: true, Outcome: models.OutcomeCompleted}
	second := &models.RunRecord{ID: "fixed", StartTime: base.Add(time.Hour), EndTime: base.Add(time.Hour + time.Minute), Total: 600, Elapsed: 60, Outcome: models.OutcomeReset}
	require.NoError(t, db.SaveRun(first))
	require.NoError(t, db.SaveRun(second))
	assert.NotEmpty(t, first.ID)

	runs, err := db.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "fixed", runs[0].ID)
	assert.Equal(t, models.OutcomeReset, runs[0].Outcome)
	assert.False(t, runs[0].CountDown)
	assert.True(t, runs[1].CountDown)
	assert.True(t, base.Equal(runs[1].StartTime))

	runs, err = db.RecentRuns(1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestDatabase_HistoryStats(t *testing.T) {
	db := newTestDB(t)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, rec := range []models.RunRecord{
		{StartTime: day.Add(-48 * time.Hour), Elapsed: 100, Outcome: models.OutcomeCompleted},
		{StartTime: day.Add(2 * time.Hour), Elapsed: 300, Outcome: models.OutcomeCompleted},
		{StartTime: day.Add(3 * time.Hour), Elapsed: 60, Outcome: models.OutcomeReset},
	} {
		rec.EndTime = rec.StartTime.Add(time.Duration(rec.Elapsed) * time.Second)
		require.NoError(t, db.SaveRun(&rec), "run %d", i)
	}

	stats, err := db.GetHistoryStats(time.Time{}, day.Add(24*time.Hour), day)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRuns)
	assert.Equal(t, 2, stats.CompletedRuns)
	assert.Equal(t, int64(460), stats.TotalElapsed)
	assert.InDelta(t, 153.33, stats.AverageElapsed, 0.01)
	assert.Equal(t, 2, stats.TodayRuns)
	assert.Equal(t, int64(360), stats.TodayElapsed)

	stats, err = db.GetHistoryStats(day, day.Add(time.Hour), day)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalRuns)
	assert.Zero(t, stats.AverageElapsed)
}

func TestDatabase_RecordIsAsync(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	db.Record(models.RunRecord{ID: "async", StartTime: now, EndTime: now, Outcome: models.OutcomeCompleted})

	require.Eventually(t, func() bool {
		runs, err := db.RecentRuns(5)
		return err == nil && len(runs) == 1 && runs[0].ID == "async"
	}, 2*time.Second, 10*time.Millisecond)
}
