package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/mrwolf/mentor-server/internal/db"
	"github.com/mrwolf/mentor-server/internal/mentor"
)

const (
	JobBriefing    = "daily-briefing"
	JobHealthCheck = "health-check"
)

// HealthChecker is implemented by the summarizer backend
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Scheduler manages scheduled jobs
type Scheduler struct {
	scheduler gocron.Scheduler
	db        *db.DB
	engine    *mentor.Engine
	health    HealthChecker
	clock     clockwork.Clock
	timezone  *time.Location
	actors    []string
	hour      uint
	minute    uint
}

// Config holds scheduler configuration
type Config struct {
	Timezone       string
	Actors         []string
	BriefingHour   uint
	BriefingMinute uint
	// Clock defaults to the real clock
	Clock clockwork.Clock
}

// New creates a new scheduler. health may be nil when summarizers are disabled.
func New(database *db.DB, engine *mentor.Engine, health HealthChecker, cfg Config) (*Scheduler, error) {
	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		tz = time.UTC
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(tz), gocron.WithClock(clock))
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: s,
		db:        database,
		engine:    engine,
		health:    health,
		clock:     clock,
		timezone:  tz,
		actors:    cfg.Actors,
		hour:      cfg.BriefingHour,
		minute:    cfg.BriefingMinute,
	}, nil
}

// Start starts the scheduler and registers all jobs
func (s *Scheduler) Start() error {
	// Daily briefing, 07:00 by default
	_, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(s.hour, s.minute, 0))),
		gocron.NewTask(s.runBriefings),
		gocron.WithName(JobBriefing),
	)
	if err != nil {
		return err
	}

	// Health check the summarizer every 5 minutes
	if s.health != nil {
		_, err = s.scheduler.NewJob(
			gocron.DurationJob(5*time.Minute),
			gocron.NewTask(s.healthCheck),
			gocron.WithName(JobHealthCheck),
		)
		if err != nil {
			return err
		}
	}

	s.scheduler.Start()
	log.Println("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) now() time.Time {
	return s.clock.Now().In(s.timezone)
}

func (s *Scheduler) runBriefings() {
	log.Println("Running daily briefings...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for _, actor := range s.actors {
		s.runBriefingForActor(ctx, actor)
	}
}

func (s *Scheduler) runBriefingForActor(ctx context.Context, actor string) error {
	runID, err := s.db.StartSchedulerRun(actor, JobBriefing, s.clock.Now())
	if err != nil {
		log.Printf("Error recording briefing run for %s: %v", actor, err)
	}

	errMsg := ""
	briefErr := s.briefActor(ctx, actor)
	if briefErr != nil {
		log.Printf("Error generating briefing for %s: %v", actor, briefErr)
		errMsg = briefErr.Error()
	}

	if runID != 0 {
		if err := s.db.CompleteSchedulerRun(runID, errMsg, s.clock.Now()); err != nil {
			log.Printf("Error completing briefing run for %s: %v", actor, err)
		}
	}
	return briefErr
}

func (s *Scheduler) healthCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.health.HealthCheck(ctx); err != nil {
		log.Printf("Health check failed - summarizer unreachable: %v", err)
	}
}

// BriefNow runs the briefing for one actor immediately
func (s *Scheduler) BriefNow(actor string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return s.runBriefingForActor(ctx, actor)
}
