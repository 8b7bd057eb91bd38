package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"StopWatch/internal/models"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}
	return database, nil
}

func (d *Database) initTables() error {
	// 创建运行记录表
	_, err := d.db.Exec(`
        CREATE TABLE IF NOT EXISTS runs (
            id TEXT PRIMARY KEY,
            start_time DATETIME NOT NULL,
            end_time DATETIME NOT NULL,
            total INTEGER NOT NULL,
            elapsed INTEGER NOT NULL,
            count_down INTEGER NOT NULL,
            outcome TEXT NOT NULL
        )
    `)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`CREATE INDEX IF NOT EXISTS idx_runs_start_time ON runs (start_time)`)
	return err
}

func (d *Database) Close() error {
	return d.db.Close()
}

// SaveRun 保存一次运行记录，没有 ID 时生成一个
func (d *Database) SaveRun(rec *models.RunRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := d.db.Exec(`
        INSERT INTO runs (id, start_time, end_time, total, elapsed, count_down, outcome)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, rec.ID, rec.StartTime.UTC(), rec.EndTime.UTC(), rec.Total, rec.Elapsed, rec.CountDown, string(rec.Outcome))
	return err
}

// Record 计时器结束时调用，写入失败只记日志
func (d *Database) Record(rec models.RunRecord) {
	go func() {
		if err := d.SaveRun(&rec); err != nil {
			logrus.WithError(err).WithField("run", rec.ID).Warn("save run history failed")
		}
	}()
}

// 统计相关方法
func (d *Database) GetHistoryStats(startDate, endDate, today time.Time) (*models.HistoryStats, error) {
	stats := &models.HistoryStats{}

	// 获取总体统计
	err := d.db.QueryRow(`
        SELECT 
            COUNT(*) as runs,
            COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0) as completed,
            COALESCE(SUM(elapsed), 0) as total_elapsed
        FROM runs
        WHERE start_time BETWEEN ? AND ?
    `, string(models.OutcomeCompleted), startDate.UTC(), endDate.UTC()).Scan(&stats.TotalRuns, &stats.CompletedRuns, &stats.TotalElapsed)
	if err != nil {
		return nil, err
	}
	if stats.TotalRuns > 0 {
		stats.AverageElapsed = float64(stats.TotalElapsed) / float64(stats.TotalRuns)
	}

	// 获取今日统计
	err = d.db.QueryRow(`
        SELECT 
            COUNT(*) as today_runs,
            COALESCE(SUM(elapsed), 0) as today_elapsed
        FROM runs
        WHERE start_time >= ?
    `, today.UTC()).Scan(&stats.TodayRuns, &stats.TodayElapsed)

	return stats, err
}

// RecentRuns 最近的运行记录，按开始时间倒序
func (d *Database) RecentRuns(limit int) ([]*models.RunRecord, error) {
	var runs []*models.RunRecord
	rows, err := d.db.Query(`
        SELECT id, start_time, end_time, total, elapsed, count_down, outcome
        FROM runs
        ORDER BY start_time DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		run := &models.RunRecord{}
		var outcome string
		if err := rows.Scan(
			&run.ID,
			&run.StartTime,
			&run.EndTime,
			&run.Total,
			&run.Elapsed,
			&run.CountDown,
			&outcome,
		); err != nil {
			return nil, err
		}
		run.Outcome = models.RunOutcome(outcome)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
