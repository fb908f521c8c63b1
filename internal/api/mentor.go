package api

import (
	"log"
	"net/http"

	"github.com/mrwolf/mentor-server/internal/mentor"
	"github.com/mrwolf/mentor-server/internal/models"
	"github.com/mrwolf/mentor-server/internal/scheduler"
)

// FocusResponse is returned by the focus endpoint; Focus is null when nothing stands out
type FocusResponse struct {
	Focus *mentor.FocusRecommendation `json:"focus"`
}

// CelebrationResponse is returned by the celebration endpoint
type CelebrationResponse struct {
	Celebration *mentor.Celebration `json:"celebration"`
}

// ChallengesResponse is returned by the challenges endpoint
type ChallengesResponse struct {
	Challenges []mentor.Challenge `json:"challenges"`
}

func (h *Handlers) loadSnapshot(w http.ResponseWriter, r *http.Request) (models.Snapshot, bool) {
	snap, err := h.db.LoadSnapshot(GetActor(r), h.now())
	if err != nil {
		log.Printf("Failed to load snapshot: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load mentor data", "DB_ERROR")
		return snap, false
	}
	return snap, true
}

// MentorState handles GET /mentor/state
func (h *Handlers) MentorState(w http.ResponseWriter, r *http.Request) {
	ev, err := scheduler.EvaluateActor(r.Context(), h.db, h.engine, GetActor(r), h.now())
	if err != nil {
		log.Printf("Failed to evaluate mentor state: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load mentor data", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, ev.State)
}

// MentorFocus handles GET /mentor/focus
func (h *Handlers) MentorFocus(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}
	focus := mentor.RecommendFocus(snap.Goals, snap.Journals, snap.Habits, h.now())
	writeJSON(w, http.StatusOK, FocusResponse{Focus: focus})
}

// MentorChallenges handles GET /mentor/challenges
func (h *Handlers) MentorChallenges(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}
	challenges := mentor.GenerateChallenges(snap.Goals, snap.Habits, snap.Journals, h.now())
	if challenges == nil {
		challenges = []mentor.Challenge{}
	}
	writeJSON(w, http.StatusOK, ChallengesResponse{Challenges: challenges})
}

// MentorCelebration handles GET /mentor/celebration
func (h *Handlers) MentorCelebration(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CelebrationResponse{
		Celebration: mentor.DetectCelebration(snap.Habits, snap.Goals),
	})
}

// MentorJournaling handles GET /mentor/journaling
func (h *Handlers) MentorJournaling(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.loadSnapshot(w, r)
	if !ok {
		return
	}
	metrics := mentor.ScoreJournaling(r.Context(), snap.Journals, h.now(), h.engine.Insight, h.engine.Timeout)
	writeJSON(w, http.StatusOK, metrics)
}

// Briefings handles GET /mentor/briefings
func (h *Handlers) Briefings(w http.ResponseWriter, r *http.Request) {
	briefings, err := h.db.GetBriefings(GetActor(r), queryLimit(r, 30))
	if err != nil {
		log.Printf("Failed to list briefings: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list briefings", "DB_ERROR")
		return
	}
	if briefings == nil {
		briefings = []models.Briefing{}
	}
	writeJSON(w, http.StatusOK, models.BriefingsResponse{Briefings: briefings})
}

// BriefNow handles POST /mentor/briefings
func (h *Handlers) BriefNow(w http.ResponseWriter, r *http.Request) {
	if h.briefer == nil {
		writeError(w, http.StatusServiceUnavailable, "scheduler not running", "SCHEDULER_DISABLED")
		return
	}

	actor := GetActor(r)
	if err := h.briefer.BriefNow(actor); err != nil {
		log.Printf("Failed to generate briefing for %s: %v", actor, err)
		writeError(w, http.StatusInternalServerError, "failed to generate briefing", "BRIEFING_ERROR")
		return
	}

	briefings, err := h.db.GetBriefings(actor, 1)
	if err != nil || len(briefings) == 0 {
		writeError(w, http.StatusInternalServerError, "briefing not stored", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, briefings[0])
}
