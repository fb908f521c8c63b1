package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrwolf/mentor-server/internal/api"
	"github.com/mrwolf/mentor-server/internal/config"
	"github.com/mrwolf/mentor-server/internal/db"
	"github.com/mrwolf/mentor-server/internal/llm"
	"github.com/mrwolf/mentor-server/internal/mentor"
	"github.com/mrwolf/mentor-server/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting mentor-server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// Summarizers are optional; every mentor feature has a local fallback
	var (
		insight, theme mentor.Summarizer
		health         scheduler.HealthChecker
	)
	if cfg.SummarizerEnabled {
		llmClient := llm.NewClient(cfg.OllamaURL, cfg.OllamaModel, cfg.OllamaModelHeavy)

		log.Println("Validating Ollama connection...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := llmClient.HealthCheck(ctx); err != nil {
			log.Printf("WARNING: Ollama health check failed: %v", err)
			log.Println("Server will start but insights will use local fallbacks")
		} else {
			log.Printf("Ollama connected: %s (models: %s, %s)", cfg.OllamaURL, cfg.OllamaModel, cfg.OllamaModelHeavy)
		}
		cancel()

		insight = llm.NewInsightSummarizer(llmClient)
		theme = llm.NewThemeSummarizer(llmClient)
		health = llmClient
	} else {
		log.Println("Summarizers disabled, using local fallbacks")
	}

	engine := mentor.NewEngine(insight, theme, cfg.SummarizerTimeout)

	// Create scheduler
	hour, minute, err := cfg.BriefingClock()
	if err != nil {
		log.Fatalf("Invalid briefing time: %v", err)
	}
	sched, err := scheduler.New(database, engine, health, scheduler.Config{
		Timezone:       cfg.Timezone,
		Actors:         cfg.Actors(),
		BriefingHour:   hour,
		BriefingMinute: minute,
	})
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Create router
	router := api.NewRouter(cfg, database, engine, api.Deps{
		Health:  health,
		Briefer: sched,
	})

	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	// Start server
	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down gracefully...")

	// Give ongoing requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Stopping scheduler...")
	if err := sched.Stop(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}

	log.Println("Closing database...")
	if err := database.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("Shutdown complete")
}
