package mentor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mrwolf/mentor-server/internal/models"
)

func TestComputeJournalingMetrics(t *testing.T) {
	tests := []struct {
		name          string
		journals      []models.JournalEntry
		wantFrequency Frequency
		wantQuality   Quality
		wantConsist   bool
		wantScore     int
		wantInsight   string
	}{
		{
			name:          "daily deep consistent",
			journals:      journalsOn(words(160), 0, 1, 2, 3, 4),
			wantFrequency: FrequencyDaily,
			wantQuality:   QualityDeep,
			wantConsist:   true,
			wantScore:     100,
			wantInsight:   insightDailyDeep,
		},
		{
			name:          "no journals",
			journals:      nil,
			wantFrequency: FrequencyAbsent,
			wantQuality:   QualityMinimal,
			wantScore:     0,
			wantInsight:   insightAbsent,
		},
		{
			name:          "regular moderate",
			journals:      journalsOn(words(80), 0, 2, 4),
			wantFrequency: FrequencyRegular,
			wantQuality:   QualityModerate,
			wantConsist:   true,
			wantScore:     80,
			wantInsight:   insightRegularModerate,
		},
		{
			name:          "single old shallow entry",
			journals:      journalsOn(words(40), 10),
			wantFrequency: FrequencySporadic,
			wantQuality:   QualityShallow,
			wantScore:     30,
			wantInsight:   insightSporadic,
		},
		{
			name:          "occasional minimal",
			journals:      journalsOn("short one", 1),
			wantFrequency: FrequencyOccasional,
			wantQuality:   QualityMinimal,
			wantScore:     30,
			wantInsight:   insightOccasional,
		},
		{
			name:          "daily shallow same day is not consistent",
			journals:      journalsOn(words(35), 0, 0, 0, 0, 0),
			wantFrequency: FrequencyDaily,
			wantQuality:   QualityShallow,
			wantConsist:   false,
			wantScore:     60,
			wantInsight:   insightDailyShallow,
		},
		{
			name:          "only entries older than a month",
			journals:      journalsOn(words(200), 40, 45),
			wantFrequency: FrequencyAbsent,
			wantQuality:   QualityMinimal,
			wantScore:     10,
			wantInsight:   insightAbsent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeJournalingMetrics(tt.journals, testNow)
			if m.Frequency != tt.wantFrequency {
				t.Errorf("Frequency = %q, want %q", m.Frequency, tt.wantFrequency)
			}
			if m.Quality != tt.wantQuality {
				t.Errorf("Quality = %q, want %q", m.Quality, tt.wantQuality)
			}
			if m.IsConsistent != tt.wantConsist {
				t.Errorf("IsConsistent = %v, want %v", m.IsConsistent, tt.wantConsist)
			}
			if m.QualityScore != tt.wantScore {
				t.Errorf("QualityScore = %d, want %d", m.QualityScore, tt.wantScore)
			}
			if m.Insight != tt.wantInsight {
				t.Errorf("Insight = %q, want %q", m.Insight, tt.wantInsight)
			}
			if m.InsightSource != InsightFromFallback {
				t.Errorf("InsightSource = %q, want %q", m.InsightSource, InsightFromFallback)
			}
		})
	}
}

func TestComputeJournalingMetricsWordCountIgnoresAnswers(t *testing.T) {
	j := journal(0, words(10))
	j.Type = models.JournalGuided
	j.QAPairs = []models.QAPair{{Question: "How was today?", Answer: words(500)}}

	m := ComputeJournalingMetrics([]models.JournalEntry{j}, testNow)
	if m.AverageWordCount != 10 {
		t.Errorf("AverageWordCount = %v, want 10", m.AverageWordCount)
	}
}

func TestScoreJournaling(t *testing.T) {
	journals := journalsOn(words(160), 0, 1, 2, 3, 4)

	t.Run("summarizer reply used", func(t *testing.T) {
		s := &fakeSummarizer{out: "  You write most on quiet mornings.  "}
		m := ScoreJournaling(context.Background(), journals, testNow, s, time.Second)
		if m.Insight != "You write most on quiet mornings." {
			t.Errorf("Insight = %q", m.Insight)
		}
		if m.InsightSource != InsightFromSummarizer {
			t.Errorf("InsightSource = %q, want %q", m.InsightSource, InsightFromSummarizer)
		}
		if s.callCount() != 1 {
			t.Errorf("summarizer called %d times, want 1", s.callCount())
		}
		if m.QualityScore != 100 {
			t.Errorf("QualityScore = %d, want 100", m.QualityScore)
		}
	})

	t.Run("summarizer error falls back", func(t *testing.T) {
		s := &fakeSummarizer{err: errors.New("connection refused")}
		m := ScoreJournaling(context.Background(), journals, testNow, s, time.Second)
		if m.Insight != insightDailyDeep || m.InsightSource != InsightFromFallback {
			t.Errorf("got (%q, %q), want canned fallback", m.Insight, m.InsightSource)
		}
	})

	t.Run("blank reply falls back", func(t *testing.T) {
		s := &fakeSummarizer{out: "   "}
		m := ScoreJournaling(context.Background(), journals, testNow, s, time.Second)
		if m.InsightSource != InsightFromFallback {
			t.Errorf("InsightSource = %q, want %q", m.InsightSource, InsightFromFallback)
		}
	})

	t.Run("timeout falls back", func(t *testing.T) {
		s := &fakeSummarizer{block: true}
		start := time.Now()
		m := ScoreJournaling(context.Background(), journals, testNow, s, 20*time.Millisecond)
		if time.Since(start) > 2*time.Second {
			t.Errorf("ScoreJournaling took %v, timeout not applied", time.Since(start))
		}
		if m.InsightSource != InsightFromFallback {
			t.Errorf("InsightSource = %q, want %q", m.InsightSource, InsightFromFallback)
		}
	})

	t.Run("summarizer ignoring ctx is cut off", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		s := SummarizerFunc(func(ctx context.Context, texts []string) (string, error) {
			<-release
			return "late", nil
		})
		start := time.Now()
		m := ScoreJournaling(context.Background(), journals, testNow, s, 30*time.Millisecond)
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("ScoreJournaling took %v, want about 30ms", elapsed)
		}
		if m.Insight == "late" || m.InsightSource != InsightFromFallback {
			t.Errorf("got (%q, %q), want canned fallback", m.Insight, m.InsightSource)
		}
	})

	t.Run("nil summarizer", func(t *testing.T) {
		m := ScoreJournaling(context.Background(), journals, testNow, nil, time.Second)
		if m.Insight != insightDailyDeep {
			t.Errorf("Insight = %q, want %q", m.Insight, insightDailyDeep)
		}
	})

	t.Run("not called without recent entries", func(t *testing.T) {
		s := &fakeSummarizer{out: "unused"}
		m := ScoreJournaling(context.Background(), journalsOn(words(50), 45), testNow, s, time.Second)
		if s.callCount() != 0 {
			t.Errorf("summarizer called %d times, want 0", s.callCount())
		}
		if m.InsightSource != InsightFromFallback {
			t.Errorf("InsightSource = %q, want %q", m.InsightSource, InsightFromFallback)
		}
	})
}
