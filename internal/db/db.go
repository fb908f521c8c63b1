package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when an update targets a row the actor does not own
var ErrNotFound = errors.New("not found")

const schema = `
-- Goals with percent progress
CREATE TABLE IF NOT EXISTS goals (
    goal_id TEXT PRIMARY KEY,
    actor TEXT NOT NULL,
    title TEXT NOT NULL,
    category TEXT NOT NULL,
    status TEXT NOT NULL,
    current_progress INTEGER NOT NULL DEFAULT 0,
    target_date TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS milestones (
    milestone_id TEXT PRIMARY KEY,
    goal_id TEXT NOT NULL REFERENCES goals(goal_id),
    title TEXT NOT NULL,
    sort_order INTEGER NOT NULL,
    is_completed INTEGER NOT NULL DEFAULT 0,
    completed_date TEXT,
    target_date TEXT
);

-- Habits; streaks are recomputed from completions on read
CREATE TABLE IF NOT EXISTS habits (
    habit_id TEXT PRIMARY KEY,
    actor TEXT NOT NULL,
    title TEXT NOT NULL,
    status TEXT NOT NULL,
    system_type TEXT,
    current_streak INTEGER NOT NULL DEFAULT 0,
    longest_streak INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);

-- One row per habit per local calendar day
CREATE TABLE IF NOT EXISTS habit_completions (
    habit_id TEXT NOT NULL REFERENCES habits(habit_id),
    day_key TEXT NOT NULL,
    completed_at TEXT NOT NULL,
    PRIMARY KEY (habit_id, day_key)
);

CREATE TABLE IF NOT EXISTS journal_entries (
    journal_id TEXT PRIMARY KEY,
    actor TEXT NOT NULL,
    type TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    qa_pairs TEXT,                  -- JSON array of {question, answer}
    template_id TEXT,
    created_at TEXT NOT NULL
);

-- One-time onboarding moments, set by UI events
CREATE TABLE IF NOT EXISTS discovery_flags (
    actor TEXT NOT NULL,
    flag TEXT NOT NULL,
    set_at TEXT NOT NULL,
    PRIMARY KEY (actor, flag)
);

-- Daily mentor evaluations
CREATE TABLE IF NOT EXISTS mentor_briefings (
    briefing_id TEXT PRIMARY KEY,
    actor TEXT NOT NULL,
    for_date TEXT NOT NULL,
    state TEXT NOT NULL,
    payload TEXT NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE (actor, for_date)
);

-- Last summarized journal theme, valid while the journal count is unchanged
CREATE TABLE IF NOT EXISTS theme_cache (
    actor TEXT PRIMARY KEY,
    theme TEXT NOT NULL,
    journal_count INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);

-- Scheduler job tracking per actor
CREATE TABLE IF NOT EXISTS scheduler_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    actor TEXT NOT NULL,
    job_type TEXT NOT NULL,
    status TEXT NOT NULL,
    started_at TEXT NOT NULL,
    completed_at TEXT,
    error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_goals_actor ON goals(actor, created_at);
CREATE INDEX IF NOT EXISTS idx_milestones_goal ON milestones(goal_id, sort_order);
CREATE INDEX IF NOT EXISTS idx_habits_actor ON habits(actor, created_at);
CREATE INDEX IF NOT EXISTS idx_journals_actor ON journal_entries(actor, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_briefings_actor ON mentor_briefings(actor, for_date DESC);
CREATE INDEX IF NOT EXISTS idx_scheduler_actor ON scheduler_runs(actor, job_type);
`

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks the connection for the health endpoint
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func timePtr(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseTime(s.String)
	return &t
}

// SchedulerRun tracks a scheduler job execution
type SchedulerRun struct {
	ID           int64
	Actor        string
	JobType      string
	Status       string
	StartedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage string
}

// StartSchedulerRun records the start of a scheduler job
func (db *DB) StartSchedulerRun(actor, jobType string, now time.Time) (int64, error) {
	result, err := db.conn.Exec(`
		INSERT INTO scheduler_runs (actor, job_type, status, started_at)
		VALUES (?, ?, 'running', ?)
	`, actor, jobType, formatTime(now))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CompleteSchedulerRun marks a scheduler job as completed
func (db *DB) CompleteSchedulerRun(runID int64, errMsg string, now time.Time) error {
	status := "completed"
	if errMsg != "" {
		status = "failed"
	}
	_, err := db.conn.Exec(`
		UPDATE scheduler_runs
		SET status = ?, completed_at = ?, error_message = ?
		WHERE id = ?
	`, status, formatTime(now), errMsg, runID)
	return err
}

// GetLastSchedulerRun returns the last run for an actor and job type
func (db *DB) GetLastSchedulerRun(actor, jobType string) (*SchedulerRun, error) {
	var run SchedulerRun
	var startedStr string
	var completedStr, errMsg sql.NullString
	err := db.conn.QueryRow(`
		SELECT id, actor, job_type, status, started_at, completed_at, error_message
		FROM scheduler_runs
		WHERE actor = ? AND job_type = ?
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`, actor, jobType).Scan(&run.ID, &run.Actor, &run.JobType, &run.Status, &startedStr, &completedStr, &errMsg)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.StartedAt = parseTime(startedStr)
	run.CompletedAt = timePtr(completedStr)
	if errMsg.Valid {
		run.ErrorMessage = errMsg.String
	}
	return &run, nil
}
