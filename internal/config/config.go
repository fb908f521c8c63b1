package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port              string
	DBPath            string
	OllamaURL         string
	OllamaModel       string
	OllamaModelHeavy  string
	SummarizerEnabled bool
	SummarizerTimeout time.Duration
	Timezone          string
	BriefingTime      string
	RateLimit         int

	// tokens maps bearer token to actor
	tokens map[string]string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("MENTOR_PORT", "8080"),
		DBPath:           getEnv("MENTOR_DB_PATH", ""),
		OllamaURL:        getEnv("MENTOR_OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:      getEnv("MENTOR_OLLAMA_MODEL", "qwen2.5:7b"),
		OllamaModelHeavy: getEnv("MENTOR_OLLAMA_MODEL_HEAVY", "qwen2.5:14b"),
		Timezone:         getEnv("MENTOR_TIMEZONE", "Europe/London"),
		BriefingTime:     getEnv("MENTOR_BRIEFING_TIME", "07:00"),
	}

	var err error
	if cfg.SummarizerEnabled, err = strconv.ParseBool(getEnv("MENTOR_SUMMARIZER_ENABLED", "true")); err != nil {
		return nil, fmt.Errorf("MENTOR_SUMMARIZER_ENABLED: %w", err)
	}
	if cfg.SummarizerTimeout, err = time.ParseDuration(getEnv("MENTOR_SUMMARIZER_TIMEOUT", "8s")); err != nil {
		return nil, fmt.Errorf("MENTOR_SUMMARIZER_TIMEOUT: %w", err)
	}
	if cfg.RateLimit, err = strconv.Atoi(getEnv("MENTOR_RATE_LIMIT", "120")); err != nil {
		return nil, fmt.Errorf("MENTOR_RATE_LIMIT: %w", err)
	}
	if cfg.tokens, err = parseTokens(getEnv("MENTOR_TOKENS", "")); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("MENTOR_DB_PATH is required")
	}
	if len(c.tokens) == 0 {
		return fmt.Errorf("MENTOR_TOKENS is required")
	}
	if c.SummarizerTimeout <= 0 {
		return fmt.Errorf("MENTOR_SUMMARIZER_TIMEOUT must be positive")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("MENTOR_RATE_LIMIT must be positive")
	}
	if _, _, err := c.BriefingClock(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("MENTOR_TIMEZONE: %w", err)
	}
	return nil
}

// parseTokens reads "actor:token,actor:token"
func parseTokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		actor, token, ok := strings.Cut(pair, ":")
		actor, token = strings.TrimSpace(actor), strings.TrimSpace(token)
		if !ok || actor == "" || token == "" {
			return nil, fmt.Errorf("MENTOR_TOKENS: invalid entry %q, want actor:token", pair)
		}
		if _, dup := tokens[token]; dup {
			return nil, fmt.Errorf("MENTOR_TOKENS: token for %q is reused", actor)
		}
		tokens[token] = actor
	}
	return tokens, nil
}

// SetTokens replaces the token table, used by tests and tools
func (c *Config) SetTokens(actorTokens map[string]string) {
	c.tokens = make(map[string]string, len(actorTokens))
	for actor, token := range actorTokens {
		c.tokens[token] = actor
	}
}

func (c *Config) ActorFromToken(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	actor, ok := c.tokens[token]
	return actor, ok
}

// Actors returns every configured actor, sorted
func (c *Config) Actors() []string {
	actors := make([]string, 0, len(c.tokens))
	for _, a := range c.tokens {
		actors = append(actors, a)
	}
	sort.Strings(actors)
	return actors
}

// BriefingClock parses BriefingTime as HH:MM
func (c *Config) BriefingClock() (hour, minute uint, err error) {
	t, err := time.Parse("15:04", c.BriefingTime)
	if err != nil {
		return 0, 0, fmt.Errorf("MENTOR_BRIEFING_TIME: want HH:MM, got %q", c.BriefingTime)
	}
	return uint(t.Hour()), uint(t.Minute()), nil
}

// Location returns the configured timezone, UTC if it cannot be loaded
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
