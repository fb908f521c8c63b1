package mentor

import (
	"context"
	"strings"
	"time"

	"github.com/mrwolf/mentor-server/internal/models"
)

// Frequency buckets how often the user journaled in the last week
type Frequency string

const (
	FrequencyDaily      Frequency = "daily"
	FrequencyRegular    Frequency = "regular"
	FrequencyOccasional Frequency = "occasional"
	FrequencySporadic   Frequency = "sporadic"
	FrequencyAbsent     Frequency = "absent"
)

// Quality buckets how much the user wrote per entry
type Quality string

const (
	QualityDeep     Quality = "deep"
	QualityModerate Quality = "moderate"
	QualityShallow  Quality = "shallow"
	QualityMinimal  Quality = "minimal"
)

// Where an insight line came from
const (
	InsightFromSummarizer = "summarizer"
	InsightFromFallback   = "fallback"
)

// JournalingMetrics is derived per call and never stored
type JournalingMetrics struct {
	EntriesLast7Days  int       `json:"entries_last_7_days"`
	EntriesLast30Days int       `json:"entries_last_30_days"`
	AverageWordCount  float64   `json:"average_word_count"`
	Frequency         Frequency `json:"frequency"`
	Quality           Quality   `json:"quality"`
	IsConsistent      bool      `json:"is_consistent"`
	QualityScore      int       `json:"quality_score"`
	Insight           string    `json:"insight"`
	InsightSource     string    `json:"insight_source"`
}

// FrequencyPoints returns the frequency share of the score
func (m JournalingMetrics) FrequencyPoints() int {
	return FrequencyPoints[m.Frequency]
}

// QualityPoints returns the depth share of the score
func (m JournalingMetrics) QualityPoints() int {
	return QualityPoints[m.Quality]
}

// ConsistencyBonus is 0 or ConsistencyPoints
func (m JournalingMetrics) ConsistencyBonus() int {
	if m.IsConsistent {
		return ConsistencyPoints
	}
	return 0
}

// ComputeJournalingMetrics scores frequency, depth and consistency with the
// canned insight line. It never calls out.
func ComputeJournalingMetrics(journals []models.JournalEntry, now time.Time) JournalingMetrics {
	week := journalsWithin(journals, now, WeekWindowDays)
	month := journalsWithin(journals, now, MonthWindowDays)

	m := JournalingMetrics{
		EntriesLast7Days:  len(week),
		EntriesLast30Days: len(month),
		Frequency:         classifyFrequency(len(week), len(month)),
	}

	if len(month) > 0 {
		words := 0
		for _, j := range month {
			words += len(strings.Fields(j.Content))
		}
		m.AverageWordCount = float64(words) / float64(len(month))
	}
	m.Quality = classifyQuality(m.AverageWordCount)
	m.IsConsistent = isConsistent(month, now.Location())
	m.QualityScore = m.FrequencyPoints() + m.QualityPoints() + m.ConsistencyBonus()

	// Zero journals scores zero, not the minimal-depth floor. Journals that
	// are all older than the window keep the floor.
	if len(journals) == 0 {
		m.QualityScore = 0
	}

	m.Insight = fallbackInsight(m)
	m.InsightSource = InsightFromFallback
	return m
}

// ScoreJournaling computes metrics and, when the last 30 days have entries,
// asks the insight summarizer once for a personal line.
func ScoreJournaling(ctx context.Context, journals []models.JournalEntry, now time.Time, insight Summarizer, timeout time.Duration) JournalingMetrics {
	m := ComputeJournalingMetrics(journals, now)
	if m.EntriesLast30Days == 0 {
		return m
	}

	texts := recentTexts(journals, now, MonthWindowDays, 10)
	if text, ok := summarizeOnce(ctx, insight, texts, timeout, "insight"); ok {
		m.Insight = text
		m.InsightSource = InsightFromSummarizer
	}
	return m
}

func classifyFrequency(week, month int) Frequency {
	switch {
	case week >= FrequencyDailyMin:
		return FrequencyDaily
	case week >= FrequencyRegularMin:
		return FrequencyRegular
	case week >= FrequencyOccasionalMin:
		return FrequencyOccasional
	case month > 0:
		return FrequencySporadic
	default:
		return FrequencyAbsent
	}
}

func classifyQuality(avgWords float64) Quality {
	switch {
	case avgWords >= QualityDeepWords:
		return QualityDeep
	case avgWords >= QualityModerateWords:
		return QualityModerate
	case avgWords >= QualityShallowWords:
		return QualityShallow
	default:
		return QualityMinimal
	}
}

func isConsistent(sample []models.JournalEntry, loc *time.Location) bool {
	if len(sample) < ConsistencyMinEntries {
		return false
	}
	days := make(map[string]bool)
	for _, j := range sample {
		days[models.DayKey(j.CreatedAt, loc)] = true
	}
	return len(days) >= ConsistencyMinDays
}

// Canned insight lines, most specific first
const (
	insightDailyDeep       = "You're journaling daily and going deep. This is where real self-understanding happens."
	insightRegularDeep     = "Your entries are rich and thoughtful. Writing a little more often would compound that depth."
	insightRegularModerate = "You've built a steady journaling rhythm. Try one longer entry this week to dig deeper."
	insightDailyShallow    = "Great consistency! Next step: spend a few extra minutes on one entry to explore what's underneath."
	insightOccasional      = "You're checking in now and then. A short entry on more days will help patterns emerge."
	insightSporadic        = "It's been a while since your last entry. Even two sentences today can restart the habit."
	insightMinimal         = "Short entries still count. Try answering one question in a full paragraph next time."
	insightAbsent          = "Journaling helps you notice what matters. Start with a single line about today."
	insightDefault         = "Keep writing. Every entry adds to a clearer picture of where you're headed."
)

// fallbackInsight walks the precedence table
func fallbackInsight(m JournalingMetrics) string {
	switch {
	case m.Frequency == FrequencyDaily && m.Quality == QualityDeep:
		return insightDailyDeep
	case m.Frequency == FrequencyRegular && m.Quality == QualityDeep:
		return insightRegularDeep
	case m.Frequency == FrequencyRegular && m.Quality == QualityModerate:
		return insightRegularModerate
	case m.Frequency == FrequencyDaily && m.Quality == QualityShallow:
		return insightDailyShallow
	case m.Frequency == FrequencyOccasional:
		return insightOccasional
	case m.Frequency == FrequencySporadic:
		return insightSporadic
	case m.Quality == QualityMinimal && m.EntriesLast30Days > 0:
		return insightMinimal
	case m.Frequency == FrequencyAbsent:
		return insightAbsent
	default:
		return insightDefault
	}
}
