package mentor

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/mrwolf/mentor-server/internal/models"
)

// Where a theme came from
const (
	ThemeFromCache      = "cached"
	ThemeFromSummarizer = "summarizer"
	ThemeFromKeywords   = "keywords"
	ThemeFromDefault    = "default"
)

// themeSampleSize caps how many recent entries are sent out
const themeSampleSize = 5

// ThemeResult is the topic a user keeps writing about
type ThemeResult struct {
	Theme  string `json:"theme"`
	Source string `json:"source"`
}

var wordRegex = regexp.MustCompile(`[a-zA-Z']+`)

// ExtractTheme prefers the cached value, then one summarizer call, then
// the local keyword table. It never fails.
func ExtractTheme(ctx context.Context, journals []models.JournalEntry, cached string, theme Summarizer, timeout time.Duration) ThemeResult {
	if c := strings.TrimSpace(cached); c != "" {
		return ThemeResult{Theme: c, Source: ThemeFromCache}
	}

	texts := themeTexts(journals)
	if out, ok := summarizeOnce(ctx, theme, texts, timeout, "theme"); ok {
		if t := normalizeTheme(out); t != "" {
			return ThemeResult{Theme: t, Source: ThemeFromSummarizer}
		}
	}
	return KeywordTheme(texts)
}

// themeTexts takes the newest entries that have any text
func themeTexts(journals []models.JournalEntry) []string {
	texts := make([]string, 0, themeSampleSize)
	for _, j := range journals {
		if text := j.Text(); text != "" {
			texts = append(texts, text)
		}
		if len(texts) == themeSampleSize {
			break
		}
	}
	return texts
}

// KeywordTheme scores each theme by keyword hits. Ties go to the earlier
// theme in ThemeKeywords; no hits gives DefaultTheme.
func KeywordTheme(texts []string) ThemeResult {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, word := range wordRegex.FindAllString(strings.ToLower(text), -1) {
			counts[word]++
		}
	}

	bestTheme, bestHits := "", 0
	for _, entry := range ThemeKeywords {
		hits := 0
		for _, kw := range entry.Keywords {
			hits += counts[kw]
		}
		if hits > bestHits {
			bestTheme, bestHits = entry.Theme, hits
		}
	}

	if bestHits == 0 {
		return ThemeResult{Theme: DefaultTheme, Source: ThemeFromDefault}
	}
	return ThemeResult{Theme: bestTheme, Source: ThemeFromKeywords}
}

// normalizeTheme keeps the summarizer's topic short and lower case
func normalizeTheme(s string) string {
	s = strings.ToLower(strings.Trim(strings.TrimSpace(s), `"'.`))
	words := strings.Fields(s)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}
