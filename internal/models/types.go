package models

import (
	"strings"
	"time"
)

// GoalStatus is the lifecycle state of a goal
type GoalStatus string

const (
	GoalBacklog   GoalStatus = "backlog"
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalAbandoned GoalStatus = "abandoned"
)

// GoalCategory groups goals by life area
type GoalCategory string

const (
	CategoryHealth        GoalCategory = "health"
	CategoryCareer        GoalCategory = "career"
	CategoryPersonal      GoalCategory = "personal"
	CategoryRelationships GoalCategory = "relationships"
	CategoryLearning      GoalCategory = "learning"
	CategoryFinance       GoalCategory = "finance"
	CategoryOther         GoalCategory = "other"
)

// Milestone is an ordered checkpoint within a goal
type Milestone struct {
	ID            string     `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Order         int        `json:"order" yaml:"order"`
	IsCompleted   bool       `json:"is_completed" yaml:"is_completed"`
	CompletedDate *time.Time `json:"completed_date,omitempty" yaml:"completed_date,omitempty"`
	TargetDate    *time.Time `json:"target_date,omitempty" yaml:"target_date,omitempty"`
}

// Goal represents a user goal with percent progress
type Goal struct {
	ID              string       `json:"id" yaml:"id"`
	Title           string       `json:"title" yaml:"title"`
	Category        GoalCategory `json:"category" yaml:"category"`
	Status          GoalStatus   `json:"status" yaml:"status"`
	CurrentProgress int          `json:"current_progress" yaml:"current_progress"` // 0-100
	CreatedAt       time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" yaml:"updated_at"`
	TargetDate      *time.Time   `json:"target_date,omitempty" yaml:"target_date,omitempty"`
	Milestones      []Milestone  `json:"milestones" yaml:"milestones"`
}

// Valid reports whether s is a known status
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalBacklog, GoalActive, GoalCompleted, GoalAbandoned:
		return true
	}
	return false
}

// Valid reports whether c is a known category
func (c GoalCategory) Valid() bool {
	switch c {
	case CategoryHealth, CategoryCareer, CategoryPersonal, CategoryRelationships,
		CategoryLearning, CategoryFinance, CategoryOther:
		return true
	}
	return false
}

// IsActive reports whether the goal is being worked on
func (g Goal) IsActive() bool {
	return g.Status == GoalActive
}

// HabitStatus is the lifecycle state of a habit
type HabitStatus string

const (
	HabitBacklog   HabitStatus = "backlog"
	HabitActive    HabitStatus = "active"
	HabitAbandoned HabitStatus = "abandoned"
)

// Valid reports whether s is a known status
func (s HabitStatus) Valid() bool {
	switch s {
	case HabitBacklog, HabitActive, HabitAbandoned:
		return true
	}
	return false
}

// SystemTypeDailyReflection tags the built-in reflection habit
const SystemTypeDailyReflection = "daily_reflection"

// Habit represents a daily habit and its check-off history
type Habit struct {
	ID              string      `json:"id" yaml:"id"`
	Title           string      `json:"title" yaml:"title"`
	Status          HabitStatus `json:"status" yaml:"status"`
	CurrentStreak   int         `json:"current_streak" yaml:"current_streak"`
	LongestStreak   int         `json:"longest_streak" yaml:"longest_streak"`
	CompletionDates []time.Time `json:"completion_dates" yaml:"completion_dates"`
	CreatedAt       time.Time   `json:"created_at" yaml:"created_at"`
	SystemType      string      `json:"system_type,omitempty" yaml:"system_type,omitempty"`
}

// IsActive reports whether the habit is being tracked
func (h Habit) IsActive() bool {
	return h.Status == HabitActive
}

// IsCompletedOn reports whether the habit was checked off on now's calendar day
func (h Habit) IsCompletedOn(now time.Time) bool {
	for _, d := range h.CompletionDates {
		if SameDay(d, now) {
			return true
		}
	}
	return false
}

// JournalType distinguishes how an entry was written
type JournalType string

const (
	JournalQuickNote  JournalType = "quickNote"
	JournalGuided     JournalType = "guidedJournal"
	JournalStructured JournalType = "structuredJournal"
)

// Valid reports whether t is a known journal type
func (t JournalType) Valid() bool {
	switch t {
	case JournalQuickNote, JournalGuided, JournalStructured:
		return true
	}
	return false
}

// TemplateHalt marks a structured HALT (hungry/angry/lonely/tired) check-in
const TemplateHalt = "halt"

// QAPair is one prompt and answer of a guided or structured journal
type QAPair struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// JournalEntry represents a single journal entry
type JournalEntry struct {
	ID         string      `json:"id" yaml:"id"`
	CreatedAt  time.Time   `json:"created_at" yaml:"created_at"`
	Type       JournalType `json:"type" yaml:"type"`
	Content    string      `json:"content,omitempty" yaml:"content,omitempty"`
	QAPairs    []QAPair    `json:"qa_pairs,omitempty" yaml:"qa_pairs,omitempty"`
	TemplateID string      `json:"template_id,omitempty" yaml:"template_id,omitempty"`
}

// IsHalt reports whether the entry is a HALT check-in
func (j JournalEntry) IsHalt() bool {
	return j.Type == JournalStructured && j.TemplateID == TemplateHalt
}

// Text returns the free text and all answers joined by newlines
func (j JournalEntry) Text() string {
	parts := make([]string, 0, len(j.QAPairs)+1)
	if strings.TrimSpace(j.Content) != "" {
		parts = append(parts, j.Content)
	}
	for _, qa := range j.QAPairs {
		if strings.TrimSpace(qa.Answer) != "" {
			parts = append(parts, qa.Answer)
		}
	}
	return strings.Join(parts, "\n")
}

// FeatureDiscoveryFlags tracks one-time onboarding moments.
// They are set by UI events and only read by the mentor engine.
type FeatureDiscoveryFlags struct {
	HasCompletedGuidedReflection bool `json:"has_completed_guided_reflection" yaml:"has_completed_guided_reflection"`
	HasCheckedOffReflectionHabit bool `json:"has_checked_off_reflection_habit" yaml:"has_checked_off_reflection_habit"`
	HasOpenedChatScreen          bool `json:"has_opened_chat_screen" yaml:"has_opened_chat_screen"`
	HasCreatedMilestone          bool `json:"has_created_milestone" yaml:"has_created_milestone"`
}

// Discovery flag names as used by the API and the database
const (
	FlagGuidedReflection     = "has_completed_guided_reflection"
	FlagReflectionHabitCheck = "has_checked_off_reflection_habit"
	FlagOpenedChat           = "has_opened_chat_screen"
	FlagCreatedMilestone     = "has_created_milestone"
)

// ValidFlag reports whether name is a known discovery flag
func ValidFlag(name string) bool {
	switch name {
	case FlagGuidedReflection, FlagReflectionHabitCheck, FlagOpenedChat, FlagCreatedMilestone:
		return true
	}
	return false
}

// Snapshot is everything the mentor engine looks at for one actor.
// Journals are ordered newest first.
type Snapshot struct {
	Goals    []Goal                `json:"goals" yaml:"goals"`
	Habits   []Habit               `json:"habits" yaml:"habits"`
	Journals []JournalEntry        `json:"journals" yaml:"journals"`
	Flags    FeatureDiscoveryFlags `json:"flags" yaml:"flags"`
}

// IsEmpty reports whether the actor has recorded nothing yet
func (s Snapshot) IsEmpty() bool {
	return len(s.Goals) == 0 && len(s.Habits) == 0 && len(s.Journals) == 0
}
