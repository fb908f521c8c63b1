package mentor

import (
	"encoding/json"

	"github.com/mrwolf/mentor-server/internal/models"
)

// StateKind is the classified situation of a user
type StateKind string

const (
	StateNewUser               StateKind = "new_user"
	StateUrgentDeadline        StateKind = "urgent_deadline"
	StateStreakAtRisk          StateKind = "streak_at_risk"
	StateStalledGoal           StateKind = "stalled_goal"
	StateMiniWin               StateKind = "mini_win"
	StateComeback              StateKind = "comeback"
	StateNeedsHaltCheck        StateKind = "needs_halt_check"
	StateDiscoverHabitChecking StateKind = "discover_habit_checking"
	StateDiscoverChat          StateKind = "discover_chat"
	StateDiscoverMilestones    StateKind = "discover_milestones"
	StateWinning               StateKind = "winning"
	StateOnlyJournals          StateKind = "only_journals"
	StateOnlyHabits            StateKind = "only_habits"
	StateOnlyGoals             StateKind = "only_goals"
	StateHabitsAndGoals        StateKind = "habits_and_goals"
	StateBalanced              StateKind = "balanced"
)

// AllStates lists every kind in priority order
var AllStates = []StateKind{
	StateNewUser,
	StateUrgentDeadline,
	StateStreakAtRisk,
	StateStalledGoal,
	StateMiniWin,
	StateComeback,
	StateNeedsHaltCheck,
	StateDiscoverHabitChecking,
	StateDiscoverChat,
	StateDiscoverMilestones,
	StateWinning,
	StateOnlyJournals,
	StateOnlyHabits,
	StateOnlyGoals,
	StateHabitsAndGoals,
	StateBalanced,
}

// StateContext is the typed payload carried by one UserState kind
type StateContext interface {
	Kind() StateKind
}

// UserState is exactly one classified state with its rendering context
type UserState struct {
	Kind    StateKind    `json:"state"`
	Context StateContext `json:"context"`
}

func newState(ctx StateContext) UserState {
	return UserState{Kind: ctx.Kind(), Context: ctx}
}

// MarshalJSON keeps an empty object for context-free states
func (s UserState) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind    StateKind `json:"state"`
		Context any       `json:"context"`
	}
	w := wire{Kind: s.Kind, Context: s.Context}
	if s.Context == nil {
		w.Context = struct{}{}
	}
	return json.Marshal(w)
}

type NewUserContext struct{}

type UrgentDeadlineContext struct {
	Goal           models.Goal `json:"goal"`
	HoursRemaining int         `json:"hours_remaining"`
}

type StreakAtRiskContext struct {
	Habit  models.Habit `json:"habit"`
	Streak int          `json:"streak"`
}

type StalledGoalContext struct {
	Goal         models.Goal `json:"goal"`
	DaysSinceNew int         `json:"days_since_created"`
}

type MiniWinContext struct {
	Goal           models.Goal `json:"goal"`
	DaysStruggling int         `json:"days_struggling"`
}

type ComebackContext struct {
	DaysSinceLastJournal int `json:"days_since_last_journal"`
}

type HaltCheckContext struct {
	Reason         HaltReason `json:"reason"`
	MatchedKeyword string     `json:"matched_keyword,omitempty"`
}

type DiscoverHabitCheckingContext struct {
	Habit models.Habit `json:"habit"`
}

type DiscoverChatContext struct {
	HasGoal    bool `json:"has_goal"`
	HasJournal bool `json:"has_journal"`
}

type DiscoverMilestonesContext struct {
	Goal models.Goal `json:"goal"`
}

type WinningContext struct {
	ActiveHabits     int     `json:"active_habits"`
	CompletionRate   float64 `json:"completion_rate"`
	JournalsThisWeek int     `json:"journals_this_week"`
	QualityScore     int     `json:"quality_score"`
}

type OnlyJournalsContext struct {
	JournalCount int    `json:"journal_count"`
	Theme        string `json:"theme"`
}

type OnlyHabitsContext struct {
	HabitCount int `json:"habit_count"`
	BestStreak int `json:"best_streak"`
}

type OnlyGoalsContext struct {
	GoalCount       int `json:"goal_count"`
	AverageProgress int `json:"average_progress"`
}

type HabitsAndGoalsContext struct {
	HabitCount int `json:"habit_count"`
	GoalCount  int `json:"goal_count"`
}

type BalancedContext struct {
	QualityScore int `json:"quality_score"`
}

func (NewUserContext) Kind() StateKind               { return StateNewUser }
func (UrgentDeadlineContext) Kind() StateKind        { return StateUrgentDeadline }
func (StreakAtRiskContext) Kind() StateKind          { return StateStreakAtRisk }
func (StalledGoalContext) Kind() StateKind           { return StateStalledGoal }
func (MiniWinContext) Kind() StateKind               { return StateMiniWin }
func (ComebackContext) Kind() StateKind              { return StateComeback }
func (HaltCheckContext) Kind() StateKind             { return StateNeedsHaltCheck }
func (DiscoverHabitCheckingContext) Kind() StateKind { return StateDiscoverHabitChecking }
func (DiscoverChatContext) Kind() StateKind          { return StateDiscoverChat }
func (DiscoverMilestonesContext) Kind() StateKind    { return StateDiscoverMilestones }
func (WinningContext) Kind() StateKind               { return StateWinning }
func (OnlyJournalsContext) Kind() StateKind          { return StateOnlyJournals }
func (OnlyHabitsContext) Kind() StateKind            { return StateOnlyHabits }
func (OnlyGoalsContext) Kind() StateKind             { return StateOnlyGoals }
func (HabitsAndGoalsContext) Kind() StateKind        { return StateHabitsAndGoals }
func (BalancedContext) Kind() StateKind              { return StateBalanced }
