package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mrwolf/mentor-server/internal/config"
	"github.com/mrwolf/mentor-server/internal/db"
	"github.com/mrwolf/mentor-server/internal/mentor"
)

func NewRouter(cfg *config.Config, database *db.DB, engine *mentor.Engine, deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)

	handlers := NewHandlers(cfg, database, engine, deps)
	limiter := NewRateLimiter(cfg.RateLimit, time.Minute, handlers.clock)

	// Public endpoints
	r.Get("/health", handlers.Health)

	// API v1 routes (authenticated)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg))
		r.Use(RateLimitMiddleware(limiter))
		r.Use(JSONContentType)

		r.Post("/goals", handlers.CreateGoal)
		r.Get("/goals", handlers.ListGoals)
		r.Patch("/goals/{id}/progress", handlers.UpdateGoalProgress)
		r.Patch("/goals/{id}/status", handlers.UpdateGoalStatus)
		r.Post("/goals/{id}/milestones", handlers.AddMilestone)
		r.Post("/goals/{id}/milestones/{mid}/complete", handlers.CompleteMilestone)

		r.Post("/habits", handlers.CreateHabit)
		r.Get("/habits", handlers.ListHabits)
		r.Patch("/habits/{id}/status", handlers.UpdateHabitStatus)
		r.Post("/habits/{id}/complete", handlers.CompleteHabit)

		r.Post("/journals", handlers.CreateJournal)
		r.Get("/journals", handlers.ListJournals)

		r.Get("/discovery", handlers.Discovery)
		r.Post("/discovery/{flag}", handlers.SetDiscoveryFlag)

		r.Route("/mentor", func(r chi.Router) {
			r.Get("/state", handlers.MentorState)
			r.Get("/focus", handlers.MentorFocus)
			r.Get("/challenges", handlers.MentorChallenges)
			r.Get("/celebration", handlers.MentorCelebration)
			r.Get("/journaling", handlers.MentorJournaling)
			r.Get("/briefings", handlers.Briefings)
			r.Post("/briefings", handlers.BriefNow)
		})
	})

	return r
}
