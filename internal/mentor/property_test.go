package mentor

import (
	"reflect"
	"slices"
	"sort"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/mrwolf/mentor-server/internal/models"
)

var contentWords = []string{"gym", "work", "family", "book", "tired", "calm", "walk", "project", "weather", "stress"}

func genJournal() *rapid.Generator[models.JournalEntry] {
	return rapid.Custom(func(t *rapid.T) models.JournalEntry {
		ageHours := rapid.IntRange(0, 60*24).Draw(t, "ageHours")
		n := rapid.IntRange(0, 250).Draw(t, "words")
		content := make([]string, 0, n)
		for i := 0; i < n; i++ {
			content = append(content, rapid.SampledFrom(contentWords).Draw(t, "word"))
		}
		j := models.JournalEntry{
			CreatedAt: testNow.Add(-time.Duration(ageHours) * time.Hour),
			Type:      rapid.SampledFrom([]models.JournalType{models.JournalQuickNote, models.JournalGuided, models.JournalStructured}).Draw(t, "type"),
			Content:   strings.Join(content, " "),
		}
		if j.Type == models.JournalStructured && rapid.Bool().Draw(t, "halt") {
			j.TemplateID = models.TemplateHalt
		}
		return j
	})
}

func genGoal() *rapid.Generator[models.Goal] {
	return rapid.Custom(func(t *rapid.T) models.Goal {
		g := goal(
			rapid.StringMatching(`g[0-9]{3}`).Draw(t, "id"),
			rapid.IntRange(0, 100).Draw(t, "progress"),
			rapid.IntRange(0, 60).Draw(t, "age"),
		)
		g.Status = rapid.SampledFrom([]models.GoalStatus{models.GoalActive, models.GoalBacklog, models.GoalCompleted}).Draw(t, "status")
		if rapid.Bool().Draw(t, "hasTarget") {
			target := testNow.Add(time.Duration(rapid.IntRange(-72, 240).Draw(t, "targetHours")) * time.Hour)
			g.TargetDate = &target
		}
		return g
	})
}

func genHabit() *rapid.Generator[models.Habit] {
	return rapid.Custom(func(t *rapid.T) models.Habit {
		h := habit(
			rapid.StringMatching(`h[0-9]{3}`).Draw(t, "id"),
			rapid.IntRange(0, 100).Draw(t, "streak"),
			rapid.IntRange(0, 60).Draw(t, "age"),
		)
		h.CompletionDates = completedDays(rapid.IntRange(0, 20).Draw(t, "completions"))
		if rapid.Bool().Draw(t, "system") {
			h.SystemType = models.SystemTypeDailyReflection
		}
		return h
	})
}

func genSnapshot() *rapid.Generator[models.Snapshot] {
	return rapid.Custom(func(t *rapid.T) models.Snapshot {
		s := models.Snapshot{
			Goals:    rapid.SliceOfN(genGoal(), 0, 4).Draw(t, "goals"),
			Habits:   rapid.SliceOfN(genHabit(), 0, 4).Draw(t, "habits"),
			Journals: rapid.SliceOfN(genJournal(), 0, 12).Draw(t, "journals"),
			Flags: models.FeatureDiscoveryFlags{
				HasCompletedGuidedReflection: rapid.Bool().Draw(t, "guided"),
				HasCheckedOffReflectionHabit: rapid.Bool().Draw(t, "checked"),
				HasOpenedChatScreen:          rapid.Bool().Draw(t, "chat"),
				HasCreatedMilestone:          rapid.Bool().Draw(t, "milestone"),
			},
		}
		sort.SliceStable(s.Journals, func(i, j int) bool {
			return s.Journals[i].CreatedAt.After(s.Journals[j].CreatedAt)
		})
		return s
	})
}

func TestJournalingScoreBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		journals := rapid.SliceOfN(genJournal(), 0, 15).Draw(t, "journals")
		m := ComputeJournalingMetrics(journals, testNow)

		if m.QualityScore < 0 || m.QualityScore > 100 {
			t.Fatalf("QualityScore = %d, out of range", m.QualityScore)
		}
		if m.FrequencyPoints() > 40 || m.QualityPoints() > 40 {
			t.Fatalf("points (%d, %d) exceed 40", m.FrequencyPoints(), m.QualityPoints())
		}
		if b := m.ConsistencyBonus(); b != 0 && b != ConsistencyPoints {
			t.Fatalf("ConsistencyBonus = %d", b)
		}
		if len(journals) == 0 && m.QualityScore != 0 {
			t.Fatalf("QualityScore = %d with no journals", m.QualityScore)
		}
		if m.EntriesLast7Days > m.EntriesLast30Days {
			t.Fatalf("week %d > month %d", m.EntriesLast7Days, m.EntriesLast30Days)
		}
		if m.Insight == "" {
			t.Fatal("empty insight")
		}
	})
}

func TestClassifyProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genSnapshot().Draw(t, "snapshot")
		in := ClassifierInput{
			Snapshot: s,
			Metrics:  ComputeJournalingMetrics(s.Journals, testNow),
			Now:      testNow,
		}

		first := Classify(in)
		second := Classify(in)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("Classify() not deterministic: %+v vs %+v", first, second)
		}
		if !slices.Contains(AllStates, first.Kind) {
			t.Fatalf("unknown kind %q", first.Kind)
		}
		if first.Context == nil || first.Context.Kind() != first.Kind {
			t.Fatalf("context %T does not match kind %q", first.Context, first.Kind)
		}
		if (first.Kind == StateNewUser) != s.IsEmpty() {
			t.Fatalf("kind %q for empty=%v", first.Kind, s.IsEmpty())
		}
	})
}

func TestSelectorsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := genSnapshot().Draw(t, "snapshot")

		if got := GenerateChallenges(s.Goals, s.Habits, s.Journals, testNow); len(got) > MaxChallenges {
			t.Fatalf("GenerateChallenges() returned %d", len(got))
		}

		focus := RecommendFocus(s.Goals, s.Journals, s.Habits, testNow)
		if len(activeGoals(s.Goals)) == 0 && (focus == nil || focus.Kind != FocusStartWithReflection) {
			t.Fatalf("RecommendFocus() = %+v without active goals", focus)
		}

		if c := DetectCelebration(s.Habits, s.Goals); c != nil && c.Kind == CelebrateStreak {
			if !slices.Contains(CelebrationStreaks, c.Value) {
				t.Fatalf("celebrated streak %d", c.Value)
			}
		}
	})
}
