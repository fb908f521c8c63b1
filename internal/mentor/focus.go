package mentor

import (
	"fmt"
	"sort"
	"time"

	"github.com/mrwolf/mentor-server/internal/models"
)

// FocusKind names the rule that produced a recommendation
type FocusKind string

const (
	FocusStartWithReflection FocusKind = "start_with_reflection"
	FocusUrgentGoal          FocusKind = "urgent_goal"
	FocusStalledGoal         FocusKind = "stalled_goal"
	FocusCelebration         FocusKind = "celebration"
	FocusMiniWin             FocusKind = "mini_win"
	FocusReflection          FocusKind = "reflection"
)

// FocusRecommendation is the single thing to work on today
type FocusRecommendation struct {
	Kind     FocusKind `json:"kind"`
	Title    string    `json:"title"`
	Reason   string    `json:"reason"`
	Priority float64   `json:"priority"`
	GoalID   string    `json:"goal_id,omitempty"`
	HabitID  string    `json:"habit_id,omitempty"`
}

// RecommendFocus collects every applicable recommendation and returns the
// highest priority one. Ties keep rule order. Returns nil when no rule fires.
func RecommendFocus(goals []models.Goal, journals []models.JournalEntry, habits []models.Habit, now time.Time) *FocusRecommendation {
	active := activeGoals(goals)
	if len(active) == 0 {
		return &FocusRecommendation{
			Kind:     FocusStartWithReflection,
			Title:    "Start with reflection",
			Reason:   "A few minutes of journaling will help you decide what you want to work toward.",
			Priority: PriorityStartWithReflection,
		}
	}

	var recs []FocusRecommendation

	// 1. Urgent deadlines
	for _, g := range active {
		if g.TargetDate == nil || g.CurrentProgress >= 100 {
			continue
		}
		days := daysBetween(now, *g.TargetDate)
		if days < 0 || days > UrgentMaxDays {
			continue
		}
		recs = append(recs, FocusRecommendation{
			Kind:     FocusUrgentGoal,
			Title:    g.Title,
			Reason:   fmt.Sprintf("Due in %s and %d%% complete.", pluralDays(days), g.CurrentProgress),
			Priority: float64(PriorityUrgentBase - PriorityUrgentPerDay*days),
			GoalID:   g.ID,
		})
	}

	// 2. Stalled goals
	for _, g := range active {
		if g.CurrentProgress >= FocusStalledProgress {
			continue
		}
		recs = append(recs, FocusRecommendation{
			Kind:     FocusStalledGoal,
			Title:    g.Title,
			Reason:   fmt.Sprintf("Only %d%% done. One small step today will get it moving.", g.CurrentProgress),
			Priority: PriorityStalledBase - PriorityStalledPerPercent*float64(g.CurrentProgress),
			GoalID:   g.ID,
		})
	}

	// 3. Streak celebration, best streak only
	var best *models.Habit
	for i := range habits {
		h := &habits[i]
		if h.CurrentStreak < CelebrationStreakEvery || h.CurrentStreak%CelebrationStreakEvery != 0 {
			continue
		}
		if best == nil || h.CurrentStreak > best.CurrentStreak {
			best = h
		}
	}
	if best != nil {
		recs = append(recs, FocusRecommendation{
			Kind:     FocusCelebration,
			Title:    best.Title,
			Reason:   fmt.Sprintf("%d days in a row. Keep the streak alive today.", best.CurrentStreak),
			Priority: PriorityCelebration,
			HabitID:  best.ID,
		})
	}

	// 4. Mini-win when the user seems stuck
	if days, ok := StrugglingDays(goals, habits, journals, now); ok && days >= StrugglingMinDays {
		if g, found := miniWinGoal(goals); found {
			recs = append(recs, FocusRecommendation{
				Kind:     FocusMiniWin,
				Title:    g.Title,
				Reason:   "Pick the smallest possible step and do just that. Momentum beats perfection.",
				Priority: PriorityMiniWin,
				GoalID:   g.ID,
			})
		}
	}

	// 5. Reflection when nothing else applies
	if len(recs) == 0 && countJournalsWithin(journals, now, ReflectionGapDays) == 0 {
		recs = append(recs, FocusRecommendation{
			Kind:     FocusReflection,
			Title:    "Take a moment to reflect",
			Reason:   "You haven't journaled in a couple of days. Check in with yourself.",
			Priority: PriorityReflection,
		})
	}

	if len(recs) == 0 {
		return nil
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return &recs[0]
}

func pluralDays(n int) string {
	switch n {
	case 0:
		return "less than a day"
	case 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", n)
	}
}
