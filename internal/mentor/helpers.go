package mentor

import (
	"time"

	"github.com/mrwolf/mentor-server/internal/models"
)

const day = 24 * time.Hour

// daysBetween returns whole days from t to now, truncated toward zero
func daysBetween(t, now time.Time) int {
	return int(now.Sub(t) / day)
}

// journalsWithin returns the entries created in the trailing window of days
func journalsWithin(journals []models.JournalEntry, now time.Time, days int) []models.JournalEntry {
	cutoff := now.Add(-time.Duration(days) * day)
	var out []models.JournalEntry
	for _, j := range journals {
		if j.CreatedAt.After(cutoff) {
			out = append(out, j)
		}
	}
	return out
}

// countJournalsWithin counts entries in the trailing window of days
func countJournalsWithin(journals []models.JournalEntry, now time.Time, days int) int {
	return len(journalsWithin(journals, now, days))
}

// daysSinceLastJournal returns NoJournalSentinel when there are no entries
func daysSinceLastJournal(journals []models.JournalEntry, now time.Time) int {
	if len(journals) == 0 {
		return NoJournalSentinel
	}
	latest := journals[0].CreatedAt
	for _, j := range journals[1:] {
		if j.CreatedAt.After(latest) {
			latest = j.CreatedAt
		}
	}
	return daysBetween(latest, now)
}

func activeGoals(goals []models.Goal) []models.Goal {
	var out []models.Goal
	for _, g := range goals {
		if g.IsActive() {
			out = append(out, g)
		}
	}
	return out
}

func activeHabits(habits []models.Habit) []models.Habit {
	var out []models.Habit
	for _, h := range habits {
		if h.IsActive() {
			out = append(out, h)
		}
	}
	return out
}

// findGoal returns the first goal matching pred
func findGoal(goals []models.Goal, pred func(models.Goal) bool) (models.Goal, bool) {
	for _, g := range goals {
		if pred(g) {
			return g, true
		}
	}
	return models.Goal{}, false
}

// findHabit returns the first habit matching pred
func findHabit(habits []models.Habit, pred func(models.Habit) bool) (models.Habit, bool) {
	for _, h := range habits {
		if pred(h) {
			return h, true
		}
	}
	return models.Habit{}, false
}

func recentTexts(journals []models.JournalEntry, now time.Time, days, limit int) []string {
	var texts []string
	for _, j := range journalsWithin(journals, now, days) {
		if text := j.Text(); text != "" {
			texts = append(texts, text)
		}
		if len(texts) == limit {
			break
		}
	}
	return texts
}
