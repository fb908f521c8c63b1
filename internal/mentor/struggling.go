package mentor

import (
	"time"

	"github.com/mrwolf/mentor-server/internal/models"
)

// StrugglingDays detects an old, barely started goal (or an unstarted habit)
// with no journaling in the last few days. It returns how many days the
// oldest such item has existed.
func StrugglingDays(goals []models.Goal, habits []models.Habit, journals []models.JournalEntry, now time.Time) (int, bool) {
	quiet := countJournalsWithin(journals, now, StrugglingQuietDays) == 0

	var oldestGoal *models.Goal
	for i := range goals {
		g := &goals[i]
		if !g.IsActive() || g.CurrentProgress >= StrugglingProgress {
			continue
		}
		if oldestGoal == nil || g.CreatedAt.Before(oldestGoal.CreatedAt) {
			oldestGoal = g
		}
	}
	if oldestGoal != nil {
		age := daysBetween(oldestGoal.CreatedAt, now)
		if age >= StrugglingMinDays && quiet {
			return age, true
		}
	}

	var oldestHabit *models.Habit
	for i := range habits {
		h := &habits[i]
		if !h.IsActive() || h.CurrentStreak != 0 {
			continue
		}
		if oldestHabit == nil || h.CreatedAt.Before(oldestHabit.CreatedAt) {
			oldestHabit = h
		}
	}
	if oldestHabit != nil {
		age := daysBetween(oldestHabit.CreatedAt, now)
		if age >= StrugglingMinDays && quiet {
			return age, true
		}
	}

	return 0, false
}

// miniWinGoal is the first active goal that has barely started
func miniWinGoal(goals []models.Goal) (models.Goal, bool) {
	return findGoal(goals, func(g models.Goal) bool {
		return g.IsActive() && g.CurrentProgress < StrugglingProgress
	})
}
