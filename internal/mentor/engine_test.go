package mentor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mrwolf/mentor-server/internal/models"
)

func TestEngineEvaluate(t *testing.T) {
	t.Run("journals only uses theme summarizer", func(t *testing.T) {
		insight := &fakeSummarizer{out: "You keep coming back to mornings."}
		theme := &fakeSummarizer{out: "Morning Routines"}
		e := NewEngine(insight, theme, time.Second)

		snap := models.Snapshot{Journals: journalsOn("a quiet morning walk", 0, 1)}
		ev := e.Evaluate(context.Background(), snap, "", testNow)

		if ev.State.Kind != StateOnlyJournals {
			t.Fatalf("State = %q, want %q", ev.State.Kind, StateOnlyJournals)
		}
		ctx := ev.State.Context.(OnlyJournalsContext)
		if ctx.Theme != "morning routines" {
			t.Errorf("Theme = %q, want %q", ctx.Theme, "morning routines")
		}
		if ev.Theme == nil || ev.Theme.Source != ThemeFromSummarizer {
			t.Errorf("Evaluation.Theme = %+v, want summarizer source", ev.Theme)
		}
		if ev.Metrics.Insight != "You keep coming back to mornings." {
			t.Errorf("Insight = %q", ev.Metrics.Insight)
		}
		if insight.callCount() != 1 || theme.callCount() != 1 {
			t.Errorf("calls = (%d, %d), want (1, 1)", insight.callCount(), theme.callCount())
		}
		if !ev.GeneratedAt.Equal(testNow) {
			t.Errorf("GeneratedAt = %v, want %v", ev.GeneratedAt, testNow)
		}
	})

	t.Run("cached theme skips summarizer", func(t *testing.T) {
		theme := &fakeSummarizer{out: "unused"}
		e := NewEngine(nil, theme, time.Second)

		snap := models.Snapshot{Journals: journalsOn("a quiet morning walk", 0, 1)}
		ev := e.Evaluate(context.Background(), snap, "sleep", testNow)

		if ev.Theme == nil || ev.Theme.Theme != "sleep" || ev.Theme.Source != ThemeFromCache {
			t.Errorf("Evaluation.Theme = %+v, want cached sleep", ev.Theme)
		}
		if theme.callCount() != 0 {
			t.Errorf("theme summarizer called %d times, want 0", theme.callCount())
		}
	})

	t.Run("mixed data skips theme", func(t *testing.T) {
		theme := &fakeSummarizer{out: "unused"}
		e := NewEngine(nil, theme, time.Second)

		snap := models.Snapshot{
			Goals:    []models.Goal{goal("g1", 52, 0)},
			Habits:   []models.Habit{habit("h1", 7, 10)},
			Journals: journalsOn("a normal day", 0),
			Flags:    seenChatAndMilestone,
		}
		ev := e.Evaluate(context.Background(), snap, "", testNow)

		if ev.Theme != nil {
			t.Errorf("Evaluation.Theme = %+v, want nil", ev.Theme)
		}
		if theme.callCount() != 0 {
			t.Errorf("theme summarizer called %d times, want 0", theme.callCount())
		}
		if ev.Celebration == nil || ev.Celebration.Kind != CelebrateStreak {
			t.Errorf("Celebration = %+v, want streak", ev.Celebration)
		}
		if ev.Focus == nil {
			t.Error("Focus = nil, want a recommendation")
		}
		if len(ev.Challenges) == 0 {
			t.Error("Challenges empty")
		}
	})

	t.Run("failing summarizers fall back", func(t *testing.T) {
		failing := &fakeSummarizer{err: errors.New("model offline")}
		e := NewEngine(failing, failing, time.Second)

		snap := models.Snapshot{Journals: journalsOn("gym and a long run", 0, 1)}
		ev := e.Evaluate(context.Background(), snap, "", testNow)

		if ev.Metrics.InsightSource != InsightFromFallback {
			t.Errorf("InsightSource = %q, want fallback", ev.Metrics.InsightSource)
		}
		if ev.Theme == nil || ev.Theme.Theme != "fitness" {
			t.Errorf("Evaluation.Theme = %+v, want keyword fitness", ev.Theme)
		}
	})

	t.Run("new user", func(t *testing.T) {
		ev := NewEngine(nil, nil, 0).Evaluate(context.Background(), models.Snapshot{}, "", testNow)
		if ev.State.Kind != StateNewUser {
			t.Errorf("State = %q, want %q", ev.State.Kind, StateNewUser)
		}
		if ev.Metrics.QualityScore != 0 {
			t.Errorf("QualityScore = %d, want 0", ev.Metrics.QualityScore)
		}
	})
}

func TestNewEngineDefaultTimeout(t *testing.T) {
	if e := NewEngine(nil, nil, 0); e.Timeout != DefaultSummarizerTimeout {
		t.Errorf("Timeout = %v, want %v", e.Timeout, DefaultSummarizerTimeout)
	}
}
