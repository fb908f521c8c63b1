package mentor

import (
	"fmt"
	"slices"

	"github.com/mrwolf/mentor-server/internal/models"
)

// CelebrationKind names what is being celebrated
type CelebrationKind string

const (
	CelebrateStreak     CelebrationKind = "streak_milestone"
	CelebrateHalfway    CelebrationKind = "halfway"
	CelebrateFinishLine CelebrationKind = "finish_line"
)

// Celebration is a single congratulation message
type Celebration struct {
	Kind    CelebrationKind `json:"kind"`
	Title   string          `json:"title"`
	Message string          `json:"message"`
	HabitID string          `json:"habit_id,omitempty"`
	GoalID  string          `json:"goal_id,omitempty"`
	Value   int             `json:"value"`
}

// DetectCelebration returns at most one celebration. Habit streak
// milestones win over goal progress bands.
func DetectCelebration(habits []models.Habit, goals []models.Goal) *Celebration {
	for _, h := range habits {
		if slices.Contains(CelebrationStreaks, h.CurrentStreak) {
			return &Celebration{
				Kind:    CelebrateStreak,
				Title:   fmt.Sprintf("%d-day streak!", h.CurrentStreak),
				Message: fmt.Sprintf("You've kept up %q for %d days straight. That's real commitment.", h.Title, h.CurrentStreak),
				HabitID: h.ID,
				Value:   h.CurrentStreak,
			}
		}
	}

	active := activeGoals(goals)
	if g, ok := findGoal(active, inBand(HalfwayLow, HalfwayHigh)); ok {
		return &Celebration{
			Kind:    CelebrateHalfway,
			Title:   "Halfway there!",
			Message: fmt.Sprintf("%q is %d%% complete. The hardest part is behind you.", g.Title, g.CurrentProgress),
			GoalID:  g.ID,
			Value:   g.CurrentProgress,
		}
	}
	if g, ok := findGoal(active, inBand(FinishLineLow, FinishLineHigh)); ok {
		return &Celebration{
			Kind:    CelebrateFinishLine,
			Title:   "The finish line is in sight",
			Message: fmt.Sprintf("%q is %d%% complete. One more push.", g.Title, g.CurrentProgress),
			GoalID:  g.ID,
			Value:   g.CurrentProgress,
		}
	}
	return nil
}

func inBand(low, high int) func(models.Goal) bool {
	return func(g models.Goal) bool {
		return g.CurrentProgress >= low && g.CurrentProgress < high
	}
}
