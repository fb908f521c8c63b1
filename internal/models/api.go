package models

import (
	"encoding/json"
	"time"
)

// CreateGoalRequest is sent to create a goal
type CreateGoalRequest struct {
	Title      string       `json:"title"`
	Category   GoalCategory `json:"category"`
	Status     GoalStatus   `json:"status"`
	TargetDate *time.Time   `json:"target_date,omitempty"`
}

// UpdateProgressRequest sets a goal's percent progress
type UpdateProgressRequest struct {
	Progress int `json:"progress"`
}

// UpdateGoalStatusRequest moves a goal to another lifecycle status
type UpdateGoalStatusRequest struct {
	Status GoalStatus `json:"status"`
}

// CreateMilestoneRequest adds a milestone to a goal
type CreateMilestoneRequest struct {
	Title      string     `json:"title"`
	TargetDate *time.Time `json:"target_date,omitempty"`
}

// CreateHabitRequest is sent to create a habit
type CreateHabitRequest struct {
	Title      string      `json:"title"`
	Status     HabitStatus `json:"status"`
	SystemType string      `json:"system_type,omitempty"`
}

// UpdateHabitStatusRequest moves a habit to another lifecycle status
type UpdateHabitStatusRequest struct {
	Status HabitStatus `json:"status"`
}

// CompleteHabitRequest checks a habit off; TSLocal defaults to server time
type CompleteHabitRequest struct {
	TSLocal string `json:"ts_local,omitempty"`
}

// CompleteMilestoneRequest marks a milestone done; TSLocal defaults to server time
type CompleteMilestoneRequest struct {
	TSLocal string `json:"ts_local,omitempty"`
}

// CreateJournalRequest is sent to record a journal entry
type CreateJournalRequest struct {
	Type       JournalType `json:"type"`
	Content    string      `json:"content,omitempty"`
	QAPairs    []QAPair    `json:"qa_pairs,omitempty"`
	TemplateID string      `json:"template_id,omitempty"`
	TSLocal    string      `json:"ts_local,omitempty"`
}

// GoalsResponse is returned by the goals endpoint
type GoalsResponse struct {
	Goals []Goal `json:"goals"`
}

// HabitsResponse is returned by the habits endpoint
type HabitsResponse struct {
	Habits []Habit `json:"habits"`
}

// JournalsResponse is returned by the journals endpoint
type JournalsResponse struct {
	Journals []JournalEntry `json:"journals"`
}

// Briefing is a stored daily mentor evaluation
type Briefing struct {
	BriefingID string          `json:"briefing_id"`
	ForDate    string          `json:"for_date"`
	State      string          `json:"state"`
	Payload    json.RawMessage `json:"payload"`
	CreatedTS  string          `json:"created_ts"`
}

// BriefingsResponse is returned by the briefings endpoint
type BriefingsResponse struct {
	Briefings []Briefing `json:"briefings"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status     string `json:"status"`
	Summarizer string `json:"summarizer"`
	Database   string `json:"database"`
	Version    string `json:"version"`
}
