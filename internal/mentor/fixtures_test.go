package mentor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mrwolf/mentor-server/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func goal(id string, progress, ageDays int) models.Goal {
	return models.Goal{
		ID:              id,
		Title:           "Goal " + id,
		Category:        models.CategoryPersonal,
		Status:          models.GoalActive,
		CurrentProgress: progress,
		CreatedAt:       daysAgo(ageDays),
		UpdatedAt:       daysAgo(ageDays),
	}
}

func habit(id string, streak, ageDays int) models.Habit {
	return models.Habit{
		ID:            id,
		Title:         "Habit " + id,
		Status:        models.HabitActive,
		CurrentStreak: streak,
		LongestStreak: streak,
		CreatedAt:     daysAgo(ageDays),
	}
}

// completedDays returns completion dates for today and the n-1 days before
func completedDays(n int) []time.Time {
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, daysAgo(i))
	}
	return dates
}

func journal(ageDays int, content string) models.JournalEntry {
	return models.JournalEntry{
		ID:        "j" + daysAgo(ageDays).Format("0102"),
		CreatedAt: daysAgo(ageDays),
		Type:      models.JournalQuickNote,
		Content:   content,
	}
}

// journalsOn builds one entry per listed age, newest first
func journalsOn(content string, ages ...int) []models.JournalEntry {
	out := make([]models.JournalEntry, 0, len(ages))
	for _, a := range ages {
		out = append(out, journal(a, content))
	}
	return out
}

type fakeSummarizer struct {
	mu    sync.Mutex
	out   string
	err   error
	block bool
	calls int
	texts []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, texts []string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.texts = texts
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.out, f.err
}

func (f *fakeSummarizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
