package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"github.com/mrwolf/mentor-server/internal/config"
	"github.com/mrwolf/mentor-server/internal/db"
	"github.com/mrwolf/mentor-server/internal/mentor"
	"github.com/mrwolf/mentor-server/internal/models"
	"github.com/mrwolf/mentor-server/internal/scheduler"
)

const version = "1.0.0"

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// Briefer runs an on-demand briefing
type Briefer interface {
	BriefNow(actor string) error
}

// Deps are the optional collaborators of the handlers
type Deps struct {
	// Health is nil when summarizers are disabled
	Health scheduler.HealthChecker
	// Briefer is nil when the scheduler is not running
	Briefer Briefer
	// Clock defaults to the real clock
	Clock clockwork.Clock
}

type Handlers struct {
	cfg     *config.Config
	db      *db.DB
	engine  *mentor.Engine
	health  scheduler.HealthChecker
	briefer Briefer
	clock   clockwork.Clock
}

func NewHandlers(cfg *config.Config, database *db.DB, engine *mentor.Engine, deps Deps) *Handlers {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if engine == nil {
		engine = mentor.NewEngine(nil, nil, cfg.SummarizerTimeout)
	}
	return &Handlers{
		cfg:     cfg,
		db:      database,
		engine:  engine,
		health:  deps.Health,
		briefer: deps.Briefer,
		clock:   clock,
	}
}

func (h *Handlers) now() time.Time {
	return h.clock.Now().In(h.cfg.Location())
}

// localTime uses a client-provided timestamp if available, otherwise server time
func (h *Handlers) localTime(ts string) time.Time {
	if ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			return parsed
		}
	}
	return h.now()
}

func queryLimit(r *http.Request, def int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:     "ok",
		Summarizer: h.checkSummarizer(r.Context()),
		Database:   h.checkDatabase(r.Context()),
		Version:    version,
	}
	if resp.Database != "ok" {
		resp.Status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) checkSummarizer(ctx context.Context) string {
	if h.health == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.health.HealthCheck(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "connected"
}

func (h *Handlers) checkDatabase(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

// CreateGoal handles POST /goals
func (h *Handlers) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required", "MISSING_TITLE")
		return
	}
	if req.Category != "" && !req.Category.Valid() {
		writeError(w, http.StatusBadRequest, "unknown category", "INVALID_CATEGORY")
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status", "INVALID_STATUS")
		return
	}

	goal, err := h.db.CreateGoal(GetActor(r), req, h.now())
	if err != nil {
		log.Printf("Failed to create goal: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create goal", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

// ListGoals handles GET /goals
func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.db.ListGoals(GetActor(r))
	if err != nil {
		log.Printf("Failed to list goals: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list goals", "DB_ERROR")
		return
	}
	if goals == nil {
		goals = []models.Goal{}
	}
	writeJSON(w, http.StatusOK, models.GoalsResponse{Goals: goals})
}

// UpdateGoalProgress handles PATCH /goals/{id}/progress
func (h *Handlers) UpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}
	if req.Progress < 0 || req.Progress > 100 {
		writeError(w, http.StatusBadRequest, "progress must be between 0 and 100", "INVALID_PROGRESS")
		return
	}

	goal, err := h.db.UpdateGoalProgress(GetActor(r), chi.URLParam(r, "id"), req.Progress, h.now())
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "goal not found", "NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("Failed to update goal progress: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update goal", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// UpdateGoalStatus handles PATCH /goals/{id}/status
func (h *Handlers) UpdateGoalStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateGoalStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status", "INVALID_STATUS")
		return
	}

	goal, err := h.db.UpdateGoalStatus(GetActor(r), chi.URLParam(r, "id"), req.Status, h.now())
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "goal not found", "NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("Failed to update goal status: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update goal", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// AddMilestone handles POST /goals/{id}/milestones
func (h *Handlers) AddMilestone(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required", "MISSING_TITLE")
		return
	}

	ms, err := h.db.AddMilestone(GetActor(r), chi.URLParam(r, "id"), req, h.now())
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "goal not found", "NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("Failed to add milestone: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to add milestone", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, ms)
}

// CompleteMilestone handles POST /goals/{id}/milestones/{mid}/complete
func (h *Handlers) CompleteMilestone(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteMilestoneRequest
	// Empty body is allowed
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
			return
		}
	}

	ms, err := h.db.CompleteMilestone(GetActor(r), chi.URLParam(r, "id"), chi.URLParam(r, "mid"), h.localTime(req.TSLocal))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "milestone not found", "NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("Failed to complete milestone: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to complete milestone", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

// CreateHabit handles POST /habits
func (h *Handlers) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var req models.CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required", "MISSING_TITLE")
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status", "INVALID_STATUS")
		return
	}

	habit, err := h.db.CreateHabit(GetActor(r), req, h.now())
	if err != nil {
		log.Printf("Failed to create habit: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create habit", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

// ListHabits handles GET /habits
func (h *Handlers) ListHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := h.db.ListHabits(GetActor(r), h.now())
	if err != nil {
		log.Printf("Failed to list habits: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list habits", "DB_ERROR")
		return
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	writeJSON(w, http.StatusOK, models.HabitsResponse{Habits: habits})
}

// UpdateHabitStatus handles PATCH /habits/{id}/status
func (h *Handlers) UpdateHabitStatus(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateHabitStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status", "INVALID_STATUS")
		return
	}

	habit, err := h.db.UpdateHabitStatus(GetActor(r), chi.URLParam(r, "id"), req.Status, h.now())
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "habit not found", "NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("Failed to update habit status: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update habit", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// CompleteHabit handles POST /habits/{id}/complete
func (h *Handlers) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteHabitRequest
	// Empty body is allowed
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
			return
		}
	}

	habit, err := h.db.CompleteHabit(GetActor(r), chi.URLParam(r, "id"), h.localTime(req.TSLocal))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, "habit not found", "NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("Failed to complete habit: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to complete habit", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// CreateJournal handles POST /journals
func (h *Handlers) CreateJournal(w http.ResponseWriter, r *http.Request) {
	var req models.CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	if req.Type != "" && !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "unknown journal type", "INVALID_TYPE")
		return
	}
	if strings.TrimSpace(req.Content) == "" && len(req.QAPairs) == 0 {
		writeError(w, http.StatusBadRequest, "content or qa_pairs is required", "MISSING_CONTENT")
		return
	}

	entry, err := h.db.CreateJournal(GetActor(r), req, h.localTime(req.TSLocal))
	if err != nil {
		log.Printf("Failed to create journal: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create journal", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListJournals handles GET /journals
func (h *Handlers) ListJournals(w http.ResponseWriter, r *http.Request) {
	journals, err := h.db.ListJournals(GetActor(r), queryLimit(r, 50))
	if err != nil {
		log.Printf("Failed to list journals: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list journals", "DB_ERROR")
		return
	}
	if journals == nil {
		journals = []models.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, models.JournalsResponse{Journals: journals})
}

// Discovery handles GET /discovery
func (h *Handlers) Discovery(w http.ResponseWriter, r *http.Request) {
	flags, err := h.db.GetFlags(GetActor(r))
	if err != nil {
		log.Printf("Failed to read discovery flags: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read discovery flags", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, flags)
}

// SetDiscoveryFlag handles POST /discovery/{flag}
func (h *Handlers) SetDiscoveryFlag(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r)
	err := h.db.SetFlag(actor, chi.URLParam(r, "flag"), h.now())
	if errors.Is(err, db.ErrUnknownFlag) {
		writeError(w, http.StatusBadRequest, "unknown discovery flag", "UNKNOWN_FLAG")
		return
	}
	if err != nil {
		log.Printf("Failed to set discovery flag: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to set discovery flag", "DB_ERROR")
		return
	}

	flags, err := h.db.GetFlags(actor)
	if err != nil {
		log.Printf("Failed to read discovery flags: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read discovery flags", "DB_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, flags)
}
