package mentor

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExtractTheme(t *testing.T) {
	gym := journalsOn("Went to the gym for a workout, then a long walk", 0, 1)

	tests := []struct {
		name       string
		cached     string
		summarizer *fakeSummarizer
		wantTheme  string
		wantSource string
		wantCalls  int
	}{
		{
			name:       "cached wins",
			cached:     "sleep",
			summarizer: &fakeSummarizer{out: "fitness"},
			wantTheme:  "sleep",
			wantSource: ThemeFromCache,
		},
		{
			name:       "summarizer normalized",
			summarizer: &fakeSummarizer{out: `"Staying Active Every Day Somehow."`},
			wantTheme:  "staying active every day",
			wantSource: ThemeFromSummarizer,
			wantCalls:  1,
		},
		{
			name:       "summarizer error uses keywords",
			summarizer: &fakeSummarizer{err: errors.New("boom")},
			wantTheme:  "fitness",
			wantSource: ThemeFromKeywords,
			wantCalls:  1,
		},
		{
			name:       "punctuation only reply uses keywords",
			summarizer: &fakeSummarizer{out: "..."},
			wantTheme:  "fitness",
			wantSource: ThemeFromKeywords,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTheme(context.Background(), gym, tt.cached, tt.summarizer, time.Second)
			if got.Theme != tt.wantTheme || got.Source != tt.wantSource {
				t.Errorf("ExtractTheme() = %+v, want {%s %s}", got, tt.wantTheme, tt.wantSource)
			}
			if tt.summarizer.callCount() != tt.wantCalls {
				t.Errorf("summarizer called %d times, want %d", tt.summarizer.callCount(), tt.wantCalls)
			}
		})
	}
}

func TestExtractThemeSamplesNewestEntries(t *testing.T) {
	s := &fakeSummarizer{out: "learning"}
	journals := journalsOn("reading a book", 0, 1, 2, 3, 4, 5, 6)
	ExtractTheme(context.Background(), journals, "", s, time.Second)
	if len(s.texts) != themeSampleSize {
		t.Errorf("summarizer got %d texts, want %d", len(s.texts), themeSampleSize)
	}
}

func TestKeywordTheme(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  string
	}{
		{"career", []string{"Big meeting with my boss about the project"}, "career"},
		{"relationships", []string{"Dinner with family and friends"}, "relationships"},
		{"tie goes to earlier theme", []string{"gym then work"}, "fitness"},
		{"no hits", []string{"the weather was grey"}, DefaultTheme},
		{"empty", nil, DefaultTheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeywordTheme(tt.texts).Theme; got != tt.want {
				t.Errorf("KeywordTheme() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractThemeSlowSummarizerFallsBack(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	slow := SummarizerFunc(func(ctx context.Context, texts []string) (string, error) {
		<-release
		return "too late", nil
	})

	journals := journalsOn("gym workout then a long run", 0, 1)
	start := time.Now()
	got := ExtractTheme(context.Background(), journals, "", slow, 30*time.Millisecond)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("ExtractTheme took %v, want about 30ms", elapsed)
	}
	if got.Source == ThemeFromSummarizer {
		t.Errorf("ExtractTheme() = %+v, want local fallback", got)
	}
}
