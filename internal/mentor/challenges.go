package mentor

import (
	"time"

	"github.com/mrwolf/mentor-server/internal/models"
)

// ChallengeKind names a challenge template
type ChallengeKind string

const (
	ChallengeStreak          ChallengeKind = "streak_builder"
	ChallengeProgressBoost   ChallengeKind = "progress_boost"
	ChallengeReflectionsWeek ChallengeKind = "daily_reflection_week"
)

// Challenge is a time-boxed suggestion for the user
type Challenge struct {
	Kind         ChallengeKind `json:"kind"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	DurationDays int           `json:"duration_days"`
	Target       int           `json:"target"`
}

// GenerateChallenges evaluates the rules in order and keeps the first two.
func GenerateChallenges(goals []models.Goal, habits []models.Habit, journals []models.JournalEntry, now time.Time) []Challenge {
	var out []Challenge

	if len(habits) > 0 {
		total := 0
		for _, h := range habits {
			total += h.CurrentStreak
		}
		if float64(total)/float64(len(habits)) < ChallengeStreakMean {
			out = append(out, Challenge{
				Kind:         ChallengeStreak,
				Title:        "7-Day Streak Challenge",
				Description:  "Complete every habit for 7 days in a row.",
				DurationDays: 7,
				Target:       7,
			})
		}
	}

	active := activeGoals(goals)
	if len(active) > 0 {
		if _, ok := findGoal(active, func(g models.Goal) bool { return g.CurrentProgress < ChallengeProgressBelow }); ok {
			out = append(out, Challenge{
				Kind:         ChallengeProgressBoost,
				Title:        "30-Day Progress Boost",
				Description:  "Move one goal forward every day for 30 days.",
				DurationDays: ChallengeBoostDays,
				Target:       ChallengeBoostDays,
			})
		}
	}

	if countJournalsWithin(journals, now, WeekWindowDays) < ChallengeWeeklyJournalMin {
		out = append(out, Challenge{
			Kind:         ChallengeReflectionsWeek,
			Title:        "Daily Reflection Week",
			Description:  "Journal for a few minutes every day this week.",
			DurationDays: 7,
			Target:       7,
		})
	}

	if len(out) > MaxChallenges {
		out = out[:MaxChallenges]
	}
	return out
}
