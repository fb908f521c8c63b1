package mentor

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrwolf/mentor-server/internal/models"
)

// Engine runs a full mentor evaluation for one snapshot.
// Insight and Theme are optional; nil means local fallbacks only.
type Engine struct {
	Insight Summarizer
	Theme   Summarizer
	Timeout time.Duration
}

// NewEngine creates an engine with the given summarizers
func NewEngine(insight, theme Summarizer, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = DefaultSummarizerTimeout
	}
	return &Engine{
		Insight: insight,
		Theme:   theme,
		Timeout: timeout,
	}
}

// Evaluation is everything the mentor card layer needs
type Evaluation struct {
	State       UserState            `json:"user_state"`
	Metrics     JournalingMetrics    `json:"journaling"`
	Focus       *FocusRecommendation `json:"focus,omitempty"`
	Celebration *Celebration         `json:"celebration,omitempty"`
	Challenges  []Challenge          `json:"challenges"`
	Theme       *ThemeResult         `json:"theme,omitempty"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// Evaluate scores journaling and, for journals-only users, extracts a
// theme. Both may call out, so they run concurrently; each falls back
// locally on failure. Evaluate itself never fails.
func (e *Engine) Evaluate(ctx context.Context, snap models.Snapshot, cachedTheme string, now time.Time) Evaluation {
	var (
		metrics JournalingMetrics
		theme   *ThemeResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		metrics = ScoreJournaling(gctx, snap.Journals, now, e.Insight, e.Timeout)
		return nil
	})
	if needsTheme(snap) {
		g.Go(func() error {
			t := ExtractTheme(gctx, snap.Journals, cachedTheme, e.Theme, e.Timeout)
			theme = &t
			return nil
		})
	}
	g.Wait()

	in := ClassifierInput{
		Snapshot: snap,
		Metrics:  metrics,
		Now:      now,
	}
	if theme != nil {
		in.Theme = theme.Theme
	}

	return Evaluation{
		State:       Classify(in),
		Metrics:     metrics,
		Focus:       RecommendFocus(snap.Goals, snap.Journals, snap.Habits, now),
		Celebration: DetectCelebration(snap.Habits, snap.Goals),
		Challenges:  GenerateChallenges(snap.Goals, snap.Habits, snap.Journals, now),
		Theme:       theme,
		GeneratedAt: now,
	}
}

// needsTheme reports whether classification can reach the journals-only state
func needsTheme(s models.Snapshot) bool {
	return len(s.Journals) > 0 && len(s.Goals) == 0 && len(s.Habits) == 0
}
