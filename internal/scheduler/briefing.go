package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/mrwolf/mentor-server/internal/db"
	"github.com/mrwolf/mentor-server/internal/mentor"
	"github.com/mrwolf/mentor-server/internal/models"
)

// EvaluateActor loads an actor's snapshot and runs the mentor engine.
// A theme freshly produced by the summarizer is cached until the next journal.
func EvaluateActor(ctx context.Context, database *db.DB, engine *mentor.Engine, actor string, now time.Time) (mentor.Evaluation, error) {
	snap, err := database.LoadSnapshot(actor, now)
	if err != nil {
		return mentor.Evaluation{}, fmt.Errorf("loading snapshot: %w", err)
	}

	cached, err := database.GetCachedTheme(actor, len(snap.Journals))
	if err != nil {
		log.Printf("Failed to read cached theme for %s: %v", actor, err)
		cached = ""
	}

	ev := engine.Evaluate(ctx, snap, cached, now)

	if ev.Theme != nil && ev.Theme.Source == mentor.ThemeFromSummarizer {
		if err := database.SaveTheme(actor, ev.Theme.Theme, len(snap.Journals), now); err != nil {
			log.Printf("Failed to cache theme for %s: %v", actor, err)
		}
	}
	return ev, nil
}

// briefActor evaluates one actor and stores the result for today's date
func (s *Scheduler) briefActor(ctx context.Context, actor string) error {
	now := s.now()
	ev, err := EvaluateActor(ctx, s.db, s.engine, actor, now)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding briefing: %w", err)
	}

	forDate := models.DayKey(now, s.timezone)
	if _, err := s.db.SaveBriefing(actor, forDate, string(ev.State.Kind), payload, now); err != nil {
		return err
	}
	log.Printf("Saved briefing for %s on %s: %s", actor, forDate, ev.State.Kind)
	return nil
}
