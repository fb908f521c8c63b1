package mentor

import (
	"time"

	"github.com/mrwolf/mentor-server/internal/models"
)

// ClassifierInput is one immutable snapshot plus derived values
type ClassifierInput struct {
	Snapshot models.Snapshot
	Metrics  JournalingMetrics
	// Theme is the precomputed journal theme; empty uses the keyword table
	Theme string
	Now   time.Time
}

type rule func(in ClassifierInput) (StateContext, bool)

// rules run in priority order, first match wins
var rules = []rule{
	checkNewUser,
	checkUrgentDeadline,
	checkStreakAtRisk,
	checkStalledGoal,
	checkMiniWin,
	checkComeback,
	checkHalt,
	checkDiscoverHabitChecking,
	checkDiscoverChat,
	checkDiscoverMilestones,
	checkWinning,
	checkPartialData,
}

// Classify picks exactly one UserState. It is a pure function of its input.
func Classify(in ClassifierInput) UserState {
	for _, r := range rules {
		if ctx, ok := r(in); ok {
			return newState(ctx)
		}
	}
	return newState(BalancedContext{QualityScore: in.Metrics.QualityScore})
}

func checkNewUser(in ClassifierInput) (StateContext, bool) {
	if in.Snapshot.IsEmpty() {
		return NewUserContext{}, true
	}
	return nil, false
}

func checkUrgentDeadline(in ClassifierInput) (StateContext, bool) {
	for _, g := range in.Snapshot.Goals {
		if !g.IsActive() || g.TargetDate == nil || g.CurrentProgress >= 100 {
			continue
		}
		hours := int(g.TargetDate.Sub(in.Now) / time.Hour)
		if hours > 0 && hours <= UrgentDeadlineHours {
			return UrgentDeadlineContext{Goal: g, HoursRemaining: hours}, true
		}
	}
	return nil, false
}

func checkStreakAtRisk(in ClassifierInput) (StateContext, bool) {
	h, ok := findHabit(in.Snapshot.Habits, func(h models.Habit) bool {
		return h.IsActive() && h.CurrentStreak >= StreakAtRiskMin && !h.IsCompletedOn(in.Now)
	})
	if !ok {
		return nil, false
	}
	return StreakAtRiskContext{Habit: h, Streak: h.CurrentStreak}, true
}

func checkStalledGoal(in ClassifierInput) (StateContext, bool) {
	g, ok := findGoal(in.Snapshot.Goals, func(g models.Goal) bool {
		return g.IsActive() &&
			daysBetween(g.CreatedAt, in.Now) >= StalledGoalMinDays &&
			g.CurrentProgress < StalledGoalProgress
	})
	if !ok {
		return nil, false
	}
	return StalledGoalContext{Goal: g, DaysSinceNew: daysBetween(g.CreatedAt, in.Now)}, true
}

func checkMiniWin(in ClassifierInput) (StateContext, bool) {
	s := in.Snapshot
	days, struggling := StrugglingDays(s.Goals, s.Habits, s.Journals, in.Now)
	if !struggling || days < StrugglingMinDays {
		return nil, false
	}
	g, ok := miniWinGoal(s.Goals)
	if !ok {
		return nil, false
	}
	return MiniWinContext{Goal: g, DaysStruggling: days}, true
}

func checkComeback(in ClassifierInput) (StateContext, bool) {
	if len(in.Snapshot.Journals) == 0 {
		return nil, false
	}
	days := daysSinceLastJournal(in.Snapshot.Journals, in.Now)
	if days >= ComebackMinDays && days < NoJournalSentinel {
		return ComebackContext{DaysSinceLastJournal: days}, true
	}
	return nil, false
}

func checkHalt(in ClassifierInput) (StateContext, bool) {
	reason, ok := HaltCheckNeeded(in.Snapshot.Journals, in.Now)
	if !ok {
		return nil, false
	}
	ctx := HaltCheckContext{Reason: reason}
	if reason == HaltStressKeywords {
		for _, j := range journalsWithin(in.Snapshot.Journals, in.Now, WeekWindowDays) {
			if kw, found := matchedStressKeyword(j.Text()); found {
				ctx.MatchedKeyword = kw
				break
			}
		}
	}
	return ctx, true
}

func checkDiscoverHabitChecking(in ClassifierInput) (StateContext, bool) {
	s := in.Snapshot
	reflected := s.Flags.HasCompletedGuidedReflection || len(s.Journals) > 0
	if !reflected || s.Flags.HasCheckedOffReflectionHabit || len(s.Journals) != 1 {
		return nil, false
	}
	h, ok := findHabit(s.Habits, func(h models.Habit) bool {
		return h.SystemType == models.SystemTypeDailyReflection
	})
	if !ok {
		return nil, false
	}
	return DiscoverHabitCheckingContext{Habit: h}, true
}

func checkDiscoverChat(in ClassifierInput) (StateContext, bool) {
	s := in.Snapshot
	if s.Flags.HasOpenedChatScreen {
		return nil, false
	}
	veryNew := len(s.Goals) <= 1 && len(s.Journals) <= 1 && len(s.Habits) <= 1
	if veryNew && (len(s.Goals) >= 1 || len(s.Journals) >= 1) {
		return DiscoverChatContext{HasGoal: len(s.Goals) > 0, HasJournal: len(s.Journals) > 0}, true
	}
	return nil, false
}

func checkDiscoverMilestones(in ClassifierInput) (StateContext, bool) {
	s := in.Snapshot
	if s.Flags.HasCreatedMilestone || len(s.Goals) != 1 {
		return nil, false
	}
	g := s.Goals[0]
	if g.IsActive() && len(g.Milestones) == 0 {
		return DiscoverMilestonesContext{Goal: g}, true
	}
	return nil, false
}

func checkWinning(in ClassifierInput) (StateContext, bool) {
	w, ok := evaluateWinning(in.Snapshot, in.Now)
	if !ok {
		return nil, false
	}
	w.QualityScore = in.Metrics.QualityScore
	return w, true
}

// evaluateWinning needs both sub-checks to pass. A sub-check whose
// population is empty is skipped and counts as passed.
func evaluateWinning(s models.Snapshot, now time.Time) (WinningContext, bool) {
	if len(s.Habits) == 0 && len(s.Goals) == 0 {
		return WinningContext{}, false
	}

	var w WinningContext

	active := activeHabits(s.Habits)
	if len(active) > 0 {
		cutoff := now.Add(-WinningWindowDays * day)
		completions := 0
		for _, h := range active {
			for _, d := range h.CompletionDates {
				if d.After(cutoff) && !d.After(now) {
					completions++
				}
			}
		}
		expected := WinningWindowDays * len(active)
		w.ActiveHabits = len(active)
		w.CompletionRate = float64(completions) / float64(expected)
		if w.CompletionRate < WinningCompletionRate {
			return WinningContext{}, false
		}
	}

	if len(s.Journals) > 0 {
		w.JournalsThisWeek = countJournalsWithin(s.Journals, now, WeekWindowDays)
		if w.JournalsThisWeek < WinningWeeklyJournals {
			return WinningContext{}, false
		}
	}

	return w, true
}

func checkPartialData(in ClassifierInput) (StateContext, bool) {
	s := in.Snapshot
	hasGoals, hasHabits, hasJournals := len(s.Goals) > 0, len(s.Habits) > 0, len(s.Journals) > 0

	switch {
	case hasJournals && !hasHabits && !hasGoals:
		theme := in.Theme
		if theme == "" {
			theme = KeywordTheme(themeTexts(s.Journals)).Theme
		}
		return OnlyJournalsContext{JournalCount: len(s.Journals), Theme: theme}, true

	case hasHabits && !hasGoals && !hasJournals:
		best := 0
		for _, h := range s.Habits {
			best = max(best, h.CurrentStreak)
		}
		return OnlyHabitsContext{HabitCount: len(s.Habits), BestStreak: best}, true

	case hasGoals && !hasHabits && !hasJournals:
		total := 0
		for _, g := range s.Goals {
			total += g.CurrentProgress
		}
		return OnlyGoalsContext{GoalCount: len(s.Goals), AverageProgress: total / len(s.Goals)}, true

	case hasHabits && hasGoals && !hasJournals:
		return HabitsAndGoalsContext{HabitCount: len(s.Habits), GoalCount: len(s.Goals)}, true
	}
	return nil, false
}
