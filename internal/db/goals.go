package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mrwolf/mentor-server/internal/models"
)

// CreateGoal stores a new goal for an actor
func (db *DB) CreateGoal(actor string, req models.CreateGoalRequest, now time.Time) (*models.Goal, error) {
	g := models.Goal{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Category:   req.Category,
		Status:     req.Status,
		CreatedAt:  now.UTC().Truncate(time.Second),
		UpdatedAt:  now.UTC().Truncate(time.Second),
		TargetDate: req.TargetDate,
		Milestones: []models.Milestone{},
	}
	if g.Category == "" {
		g.Category = models.CategoryOther
	}
	if g.Status == "" {
		g.Status = models.GoalActive
	}

	_, err := db.conn.Exec(`
		INSERT INTO goals (goal_id, actor, title, category, status, current_progress, target_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?)
	`, g.ID, actor, g.Title, g.Category, g.Status, nullTime(g.TargetDate), formatTime(g.CreatedAt), formatTime(g.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("inserting goal: %w", err)
	}
	return &g, nil
}

// ListGoals returns an actor's goals, oldest first, with milestones attached
func (db *DB) ListGoals(actor string) ([]models.Goal, error) {
	rows, err := db.conn.Query(`
		SELECT goal_id, title, category, status, current_progress, target_date, created_at, updated_at
		FROM goals
		WHERE actor = ?
		ORDER BY created_at ASC, goal_id ASC
	`, actor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []models.Goal{}
	index := make(map[string]int)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		index[g.ID] = len(goals)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	milestones, err := db.listMilestones(actor)
	if err != nil {
		return nil, err
	}
	for goalID, ms := range milestones {
		if i, ok := index[goalID]; ok {
			goals[i].Milestones = ms
		}
	}
	return goals, nil
}

// GetGoal returns one goal or nil if the actor has no such goal
func (db *DB) GetGoal(actor, goalID string) (*models.Goal, error) {
	row := db.conn.QueryRow(`
		SELECT goal_id, title, category, status, current_progress, target_date, created_at, updated_at
		FROM goals
		WHERE actor = ? AND goal_id = ?
	`, actor, goalID)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	milestones, err := db.listMilestones(actor)
	if err != nil {
		return nil, err
	}
	if ms, ok := milestones[g.ID]; ok {
		g.Milestones = ms
	}
	return &g, nil
}

// UpdateGoalProgress sets percent progress, clamped to 0-100
func (db *DB) UpdateGoalProgress(actor, goalID string, progress int, now time.Time) (*models.Goal, error) {
	progress = min(max(progress, 0), 100)
	result, err := db.conn.Exec(`
		UPDATE goals SET current_progress = ?, updated_at = ?
		WHERE actor = ? AND goal_id = ?
	`, progress, formatTime(now), actor, goalID)
	if err != nil {
		return nil, fmt.Errorf("updating goal progress: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, ErrNotFound
	}
	return db.GetGoal(actor, goalID)
}

// UpdateGoalStatus moves a goal through its lifecycle
func (db *DB) UpdateGoalStatus(actor, goalID string, status models.GoalStatus, now time.Time) (*models.Goal, error) {
	result, err := db.conn.Exec(`
		UPDATE goals SET status = ?, updated_at = ?
		WHERE actor = ? AND goal_id = ?
	`, status, formatTime(now), actor, goalID)
	if err != nil {
		return nil, fmt.Errorf("updating goal status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, ErrNotFound
	}
	return db.GetGoal(actor, goalID)
}

// AddMilestone appends a milestone and records the discovery flag
func (db *DB) AddMilestone(actor, goalID string, req models.CreateMilestoneRequest, now time.Time) (*models.Milestone, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var order int
	err = tx.QueryRow(`
		SELECT COALESCE(MAX(m.sort_order), 0) + 1
		FROM goals g LEFT JOIN milestones m ON m.goal_id = g.goal_id
		WHERE g.actor = ? AND g.goal_id = ?
		GROUP BY g.goal_id
	`, actor, goalID).Scan(&order)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading milestone order: %w", err)
	}

	m := models.Milestone{
		ID:         uuid.NewString(),
		Title:      req.Title,
		Order:      order,
		TargetDate: req.TargetDate,
	}
	if _, err := tx.Exec(`
		INSERT INTO milestones (milestone_id, goal_id, title, sort_order, target_date)
		VALUES (?, ?, ?, ?, ?)
	`, m.ID, goalID, m.Title, m.Order, nullTime(m.TargetDate)); err != nil {
		return nil, fmt.Errorf("inserting milestone: %w", err)
	}
	if err := setFlag(tx, actor, models.FlagCreatedMilestone, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing milestone: %w", err)
	}
	return &m, nil
}

// CompleteMilestone marks a milestone done. Completing it again keeps the
// first completion date.
func (db *DB) CompleteMilestone(actor, goalID, milestoneID string, at time.Time) (*models.Milestone, error) {
	result, err := db.conn.Exec(`
		UPDATE milestones
		SET is_completed = 1, completed_date = COALESCE(completed_date, ?)
		WHERE milestone_id = ? AND goal_id = ?
		  AND goal_id IN (SELECT goal_id FROM goals WHERE actor = ?)
	`, formatTime(at), milestoneID, goalID, actor)
	if err != nil {
		return nil, fmt.Errorf("completing milestone: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, ErrNotFound
	}

	milestones, err := db.listMilestones(actor)
	if err != nil {
		return nil, err
	}
	for _, m := range milestones[goalID] {
		if m.ID == milestoneID {
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (db *DB) listMilestones(actor string) (map[string][]models.Milestone, error) {
	rows, err := db.conn.Query(`
		SELECT m.goal_id, m.milestone_id, m.title, m.sort_order, m.is_completed, m.completed_date, m.target_date
		FROM milestones m JOIN goals g ON g.goal_id = m.goal_id
		WHERE g.actor = ?
		ORDER BY m.goal_id, m.sort_order
	`, actor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]models.Milestone)
	for rows.Next() {
		var goalID string
		var m models.Milestone
		var completed, target sql.NullString
		if err := rows.Scan(&goalID, &m.ID, &m.Title, &m.Order, &m.IsCompleted, &completed, &target); err != nil {
			return nil, err
		}
		m.CompletedDate = timePtr(completed)
		m.TargetDate = timePtr(target)
		out[goalID] = append(out[goalID], m)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(s scanner) (models.Goal, error) {
	var g models.Goal
	var target sql.NullString
	var createdStr, updatedStr string
	if err := s.Scan(&g.ID, &g.Title, &g.Category, &g.Status, &g.CurrentProgress, &target, &createdStr, &updatedStr); err != nil {
		return models.Goal{}, err
	}
	g.TargetDate = timePtr(target)
	g.CreatedAt = parseTime(createdStr)
	g.UpdatedAt = parseTime(updatedStr)
	g.Milestones = []models.Milestone{}
	return g, nil
}
