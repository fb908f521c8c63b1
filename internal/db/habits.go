package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mrwolf/mentor-server/internal/models"
)

// CreateHabit stores a new habit for an actor
func (db *DB) CreateHabit(actor string, req models.CreateHabitRequest, now time.Time) (*models.Habit, error) {
	h := models.Habit{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Status:          req.Status,
		SystemType:      req.SystemType,
		CreatedAt:       now.UTC().Truncate(time.Second),
		CompletionDates: []time.Time{},
	}
	if h.Status == "" {
		h.Status = models.HabitActive
	}

	_, err := db.conn.Exec(`
		INSERT INTO habits (habit_id, actor, title, status, system_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, h.ID, actor, h.Title, h.Status, h.SystemType, formatTime(h.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("inserting habit: %w", err)
	}
	return &h, nil
}

// ListHabits returns an actor's habits with completions and streaks as of now
func (db *DB) ListHabits(actor string, now time.Time) ([]models.Habit, error) {
	rows, err := db.conn.Query(`
		SELECT habit_id, title, status, system_type, created_at
		FROM habits
		WHERE actor = ?
		ORDER BY created_at ASC, habit_id ASC
	`, actor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	completions, err := db.listCompletions(actor)
	if err != nil {
		return nil, err
	}
	for i := range habits {
		h := &habits[i]
		if dates, ok := completions[h.ID]; ok {
			h.CompletionDates = dates
		}
		h.CurrentStreak, h.LongestStreak = models.ComputeStreak(h.CompletionDates, now)
	}
	return habits, nil
}

// GetHabit returns one habit or nil if the actor has no such habit
func (db *DB) GetHabit(actor, habitID string, now time.Time) (*models.Habit, error) {
	habits, err := db.ListHabits(actor, now)
	if err != nil {
		return nil, err
	}
	for i := range habits {
		if habits[i].ID == habitID {
			return &habits[i], nil
		}
	}
	return nil, nil
}

// UpdateHabitStatus starts, parks or abandons a habit. Completions are kept.
func (db *DB) UpdateHabitStatus(actor, habitID string, status models.HabitStatus, now time.Time) (*models.Habit, error) {
	result, err := db.conn.Exec(`
		UPDATE habits SET status = ?
		WHERE actor = ? AND habit_id = ?
	`, status, actor, habitID)
	if err != nil {
		return nil, fmt.Errorf("updating habit status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, ErrNotFound
	}
	return db.GetHabit(actor, habitID, now)
}

// CompleteHabit checks a habit off for at's calendar day. Checking off the
// same day twice is a no-op. Streaks are recomputed and stored.
func (db *DB) CompleteHabit(actor, habitID string, at time.Time) (*models.Habit, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var systemType sql.NullString
	err = tx.QueryRow(`SELECT system_type FROM habits WHERE actor = ? AND habit_id = ?`, actor, habitID).Scan(&systemType)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading habit: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT OR IGNORE INTO habit_completions (habit_id, day_key, completed_at)
		VALUES (?, ?, ?)
	`, habitID, models.DayKey(at, at.Location()), formatTime(at)); err != nil {
		return nil, fmt.Errorf("recording completion: %w", err)
	}

	if systemType.String == models.SystemTypeDailyReflection {
		if err := setFlag(tx, actor, models.FlagReflectionHabitCheck, at); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing completion: %w", err)
	}

	h, err := db.GetHabit(actor, habitID, at)
	if err != nil || h == nil {
		return h, err
	}
	if _, err := db.conn.Exec(`
		UPDATE habits SET current_streak = ?, longest_streak = ?
		WHERE habit_id = ?
	`, h.CurrentStreak, h.LongestStreak, habitID); err != nil {
		return nil, fmt.Errorf("storing streak: %w", err)
	}
	return h, nil
}

func (db *DB) listCompletions(actor string) (map[string][]time.Time, error) {
	rows, err := db.conn.Query(`
		SELECT c.habit_id, c.completed_at
		FROM habit_completions c JOIN habits h ON h.habit_id = c.habit_id
		WHERE h.actor = ?
		ORDER BY c.completed_at ASC
	`, actor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]time.Time)
	for rows.Next() {
		var habitID, completedStr string
		if err := rows.Scan(&habitID, &completedStr); err != nil {
			return nil, err
		}
		out[habitID] = append(out[habitID], parseTime(completedStr))
	}
	return out, rows.Err()
}

func scanHabit(s scanner) (models.Habit, error) {
	var h models.Habit
	var systemType sql.NullString
	var createdStr string
	if err := s.Scan(&h.ID, &h.Title, &h.Status, &systemType, &createdStr); err != nil {
		return models.Habit{}, err
	}
	h.SystemType = systemType.String
	h.CreatedAt = parseTime(createdStr)
	h.CompletionDates = []time.Time{}
	return h, nil
}
