package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryDSN keeps the ledger for the lifetime of the process only.
const MemoryDSN = ":memory:"

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens path, or an in-memory database when path is empty or
// MemoryDSN.
func NewSQLite(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = MemoryDSN
	}
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == MemoryDSN {
		// Every new connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS level_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			pack_id TEXT NOT NULL,
			level_id TEXT NOT NULL,
			visibility TEXT NOT NULL DEFAULT 'both',
			start_ts TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			passes INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			finished INTEGER NOT NULL DEFAULT 0,
			abandoned INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS check_attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			challenge_index INTEGER NOT NULL,
			play_state TEXT NOT NULL,
			attempt_ts TEXT NOT NULL DEFAULT (datetime('now')),
			passed INTEGER NOT NULL,
			FOREIGN KEY(run_id) REFERENCES level_runs(id)
		);`,
		`CREATE TABLE IF NOT EXISTS level_progress (
			pack_id TEXT NOT NULL,
			level_id TEXT NOT NULL,
			finished_count INTEGER NOT NULL DEFAULT 0,
			perfect_count INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0,
			best_time_ms INTEGER NOT NULL DEFAULT 0,
			last_played_ts TEXT NOT NULL DEFAULT '',
			PRIMARY KEY(pack_id, level_id)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) StartLevelRun(ctx context.Context, run LevelRun) (int64, error) {
	start := run.StartTS
	if start.IsZero() {
		start = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO level_runs(session_id, pack_id, level_id, visibility, start_ts) VALUES(?,?,?,?,?)`,
		run.SessionID,
		run.PackID,
		run.LevelID,
		strings.TrimSpace(run.Visibility),
		start.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) AbandonLevelRun(ctx context.Context, runID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE level_runs SET abandoned = 1 WHERE id = ? AND finished = 0`, runID)
	return err
}

func (s *SQLiteStore) RecordCheckAttempt(ctx context.Context, runID int64, attempt CheckAttempt) error {
	passedInt := ifThen(attempt.Passed, 1, 0)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO check_attempts(run_id, challenge_index, play_state, passed) VALUES(?, ?, ?, ?)`,
		runID, attempt.ChallengeIndex, attempt.PlayState, passedInt,
	); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE level_runs SET attempts = attempts + 1, passes = passes + ? WHERE id = ?`, passedInt, runID); err != nil {
		return err
	}
	return nil
}

// RecordLevelResult closes the run and folds the result into level_progress.
// It reports whether DurationMS beat the stored best time.
func (s *SQLiteStore) RecordLevelResult(ctx context.Context, result LevelResult) (newBestTime bool, err error) {
	levelID := strings.TrimSpace(result.LevelID)
	if levelID == "" {
		return false, fmt.Errorf("record level result: level id is required")
	}
	finished := result.FinishedTS
	if finished.IsZero() {
		finished = time.Now()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var prevBest int64
	row := tx.QueryRowContext(ctx, `SELECT best_time_ms FROM level_progress WHERE pack_id = ? AND level_id = ?`, result.PackID, levelID)
	if err = row.Scan(&prevBest); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	err = nil
	duration := max64(0, result.DurationMS)
	newBestTime = duration > 0 && (prevBest == 0 || duration < prevBest)

	perfect := result.PerfectScore > 0 && result.Score >= result.PerfectScore
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO level_progress(pack_id, level_id, finished_count, perfect_count, best_score, best_time_ms, last_played_ts)
		VALUES(?, ?, 1, ?, ?, ?, ?)
		ON CONFLICT(pack_id, level_id) DO UPDATE SET
			finished_count = level_progress.finished_count + 1,
			perfect_count = level_progress.perfect_count + excluded.perfect_count,
			best_score = CASE
				WHEN excluded.best_score > level_progress.best_score THEN excluded.best_score
				ELSE level_progress.best_score
			END,
			best_time_ms = CASE
				WHEN excluded.best_time_ms > 0 AND (level_progress.best_time_ms = 0 OR excluded.best_time_ms < level_progress.best_time_ms) THEN excluded.best_time_ms
				ELSE level_progress.best_time_ms
			END,
			last_played_ts = excluded.last_played_ts
	`,
		result.PackID,
		levelID,
		ifThen(perfect, 1, 0),
		max(0, result.Score),
		duration,
		finished.UTC().Format(timeLayout),
	); err != nil {
		return false, err
	}
	if result.RunID > 0 {
		if _, err = tx.ExecContext(ctx, `UPDATE level_runs SET finished = 1, score = ? WHERE id = ?`, max(0, result.Score), result.RunID); err != nil {
			return false, err
		}
	}
	if err = tx.Commit(); err != nil {
		return false, err
	}
	return newBestTime, nil
}

func (s *SQLiteStore) GetLevelProgressMap(ctx context.Context) (map[string]LevelProgress, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pack_id, level_id, finished_count, perfect_count, best_score, best_time_ms, last_played_ts
		FROM level_progress
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]LevelProgress{}
	for rows.Next() {
		var (
			p          LevelProgress
			lastPlayed string
		)
		if err := rows.Scan(&p.PackID, &p.LevelID, &p.FinishedCount, &p.PerfectCount, &p.BestScore, &p.BestTimeMS, &lastPlayed); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, lastPlayed); err == nil {
			p.LastPlayedTS = t
		}
		out[ProgressKey(p.PackID, p.LevelID)] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) GetSummary(ctx context.Context) (Summary, error) {
	var out Summary
	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as level_runs,
			COALESCE(SUM(finished),0) as finished,
			COALESCE(SUM(abandoned),0) as abandoned,
			COALESCE(SUM(attempts),0) as attempts,
			COALESCE(SUM(passes),0) as passes
		FROM level_runs
	`)
	if err := row.Scan(&out.LevelRuns, &out.Finished, &out.Abandoned, &out.Attempts, &out.Passes); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *SQLiteStore) GetLastRun(ctx context.Context) (*LastRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT pack_id, level_id, visibility, start_ts, score, attempts, finished, abandoned
		FROM level_runs
		ORDER BY id DESC
		LIMIT 1
	`)
	var (
		out        LastRun
		startTSRaw string
		finished   int
		abandoned  int
	)
	if err := row.Scan(&out.PackID, &out.LevelID, &out.Visibility, &startTSRaw, &out.Score, &out.Attempts, &finished, &abandoned); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if t, err := time.Parse(timeLayout, startTSRaw); err == nil {
		out.StartTS = t
	}
	out.Finished = finished == 1
	out.Abandoned = abandoned == 1
	return &out, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)

const timeLayout = "2006-01-02T15:04:05Z07:00"

func ifThen(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
