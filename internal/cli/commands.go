package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrwolf/mentor-server/internal/mentor"
	"github.com/mrwolf/mentor-server/internal/models"
)

// snapshotCommand builds a subcommand that loads the snapshot and the
// evaluation time, then prints whatever run returns as JSON.
func snapshotCommand(use, short string, run func(ctx context.Context, snap models.Snapshot, now time.Time) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := loadSnapshot(cmd.InOrStdin())
			if err != nil {
				return err
			}
			now, err := evaluationTime()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			out, err := run(ctx, snap, now)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

var evaluateCmd = snapshotCommand("evaluate", "Run the full mentor evaluation",
	func(ctx context.Context, snap models.Snapshot, now time.Time) (any, error) {
		return newEngine().Evaluate(ctx, snap, "", now), nil
	})

var classifyCmd = snapshotCommand("classify", "Classify the user state",
	func(ctx context.Context, snap models.Snapshot, now time.Time) (any, error) {
		return newEngine().Evaluate(ctx, snap, "", now).State, nil
	})

var scoreCmd = snapshotCommand("score", "Score journaling quality",
	func(ctx context.Context, snap models.Snapshot, now time.Time) (any, error) {
		e := newEngine()
		return mentor.ScoreJournaling(ctx, snap.Journals, now, e.Insight, e.Timeout), nil
	})

var focusCmd = snapshotCommand("focus", "Recommend today's focus",
	func(ctx context.Context, snap models.Snapshot, now time.Time) (any, error) {
		return map[string]any{
			"focus": mentor.RecommendFocus(snap.Goals, snap.Journals, snap.Habits, now),
		}, nil
	})

var celebrateCmd = snapshotCommand("celebrate", "Detect a milestone worth celebrating",
	func(ctx context.Context, snap models.Snapshot, now time.Time) (any, error) {
		return map[string]any{
			"celebration": mentor.DetectCelebration(snap.Habits, snap.Goals),
		}, nil
	})

var challengesCmd = snapshotCommand("challenges", "Generate up to two weekly challenges",
	func(ctx context.Context, snap models.Snapshot, now time.Time) (any, error) {
		challenges := mentor.GenerateChallenges(snap.Goals, snap.Habits, snap.Journals, now)
		if challenges == nil {
			challenges = []mentor.Challenge{}
		}
		return map[string]any{"challenges": challenges}, nil
	})

var haltCmd = snapshotCommand("halt", "Check whether a HALT check-in is due",
	func(ctx context.Context, snap models.Snapshot, now time.Time) (any, error) {
		reason, needed := mentor.HaltCheckNeeded(snap.Journals, now)
		return map[string]any{"needed": needed, "reason": reason}, nil
	})

var themeCmd = snapshotCommand("theme", "Extract the recurring journal theme",
	func(ctx context.Context, snap models.Snapshot, now time.Time) (any, error) {
		e := newEngine()
		return mentor.ExtractTheme(ctx, snap.Journals, "", e.Theme, e.Timeout), nil
	})

func init() {
	rootCmd.AddCommand(
		evaluateCmd,
		classifyCmd,
		scoreCmd,
		focusCmd,
		celebrateCmd,
		challengesCmd,
		haltCmd,
		themeCmd,
	)
}
