package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mrwolf/mentor-server/internal/models"
)

// ErrUnknownFlag is returned for discovery flag names the engine does not read
var ErrUnknownFlag = errors.New("unknown discovery flag")

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func setFlag(e execer, actor, flag string, now time.Time) error {
	if !models.ValidFlag(flag) {
		return ErrUnknownFlag
	}
	_, err := e.Exec(`
		INSERT OR IGNORE INTO discovery_flags (actor, flag, set_at)
		VALUES (?, ?, ?)
	`, actor, flag, formatTime(now))
	if err != nil {
		return fmt.Errorf("setting flag %s: %w", flag, err)
	}
	return nil
}

// SetFlag records a discovery moment. Flags never reset.
func (db *DB) SetFlag(actor, flag string, now time.Time) error {
	return setFlag(db.conn, actor, flag, now)
}

// GetFlags returns the discovery flags set for an actor
func (db *DB) GetFlags(actor string) (models.FeatureDiscoveryFlags, error) {
	var flags models.FeatureDiscoveryFlags
	rows, err := db.conn.Query(`SELECT flag FROM discovery_flags WHERE actor = ?`, actor)
	if err != nil {
		return flags, err
	}
	defer rows.Close()

	for rows.Next() {
		var flag string
		if err := rows.Scan(&flag); err != nil {
			return flags, err
		}
		switch flag {
		case models.FlagGuidedReflection:
			flags.HasCompletedGuidedReflection = true
		case models.FlagReflectionHabitCheck:
			flags.HasCheckedOffReflectionHabit = true
		case models.FlagOpenedChat:
			flags.HasOpenedChatScreen = true
		case models.FlagCreatedMilestone:
			flags.HasCreatedMilestone = true
		}
	}
	return flags, rows.Err()
}

// LoadSnapshot reads everything the mentor engine needs for one actor.
// Streaks are computed as of now; journals are newest first.
func (db *DB) LoadSnapshot(actor string, now time.Time) (models.Snapshot, error) {
	var snap models.Snapshot
	var err error

	if snap.Goals, err = db.ListGoals(actor); err != nil {
		return snap, fmt.Errorf("loading goals: %w", err)
	}
	if snap.Habits, err = db.ListHabits(actor, now); err != nil {
		return snap, fmt.Errorf("loading habits: %w", err)
	}
	if snap.Journals, err = db.ListJournals(actor, 0); err != nil {
		return snap, fmt.Errorf("loading journals: %w", err)
	}
	if snap.Flags, err = db.GetFlags(actor); err != nil {
		return snap, fmt.Errorf("loading flags: %w", err)
	}
	return snap, nil
}

// SaveBriefing stores the evaluation for a day, replacing any earlier one
func (db *DB) SaveBriefing(actor, forDate, state string, payload []byte, now time.Time) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`
		INSERT INTO mentor_briefings (briefing_id, actor, for_date, state, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (actor, for_date) DO UPDATE SET
			briefing_id = excluded.briefing_id,
			state = excluded.state,
			payload = excluded.payload,
			created_at = excluded.created_at
	`, id, actor, forDate, state, string(payload), formatTime(now))
	if err != nil {
		return "", fmt.Errorf("saving briefing: %w", err)
	}
	return id, nil
}

// GetBriefings returns an actor's briefings, newest day first
func (db *DB) GetBriefings(actor string, limit int) ([]models.Briefing, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := db.conn.Query(`
		SELECT briefing_id, for_date, state, payload, created_at
		FROM mentor_briefings
		WHERE actor = ?
		ORDER BY for_date DESC
		LIMIT ?
	`, actor, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	briefings := []models.Briefing{}
	for rows.Next() {
		var b models.Briefing
		var payload string
		if err := rows.Scan(&b.BriefingID, &b.ForDate, &b.State, &payload, &b.CreatedTS); err != nil {
			return nil, err
		}
		b.Payload = []byte(payload)
		briefings = append(briefings, b)
	}
	return briefings, rows.Err()
}

// GetCachedTheme returns the stored theme if it was computed for the
// current journal count, otherwise "".
func (db *DB) GetCachedTheme(actor string, journalCount int) (string, error) {
	var theme string
	var count int
	err := db.conn.QueryRow(`
		SELECT theme, journal_count FROM theme_cache WHERE actor = ?
	`, actor).Scan(&theme, &count)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if count != journalCount {
		return "", nil
	}
	return theme, nil
}

// SaveTheme caches a summarized theme for the given journal count
func (db *DB) SaveTheme(actor, theme string, journalCount int, now time.Time) error {
	_, err := db.conn.Exec(`
		INSERT INTO theme_cache (actor, theme, journal_count, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (actor) DO UPDATE SET
			theme = excluded.theme,
			journal_count = excluded.journal_count,
			updated_at = excluded.updated_at
	`, actor, theme, journalCount, formatTime(now))
	return err
}
