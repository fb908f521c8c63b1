package mentor

import (
	"strings"
	"time"

	"github.com/mrwolf/mentor-server/internal/models"
)

// HaltReason explains why a HALT check-in is suggested
type HaltReason string

const (
	HaltStressKeywords HaltReason = "stress_keywords"
	HaltNoJournaling   HaltReason = "no_journaling"
	HaltPeriodicCheck  HaltReason = "periodic_check"
	HaltFirstCheck     HaltReason = "first_halt"
)

// HaltCheckNeeded decides whether to suggest a hungry/angry/lonely/tired
// check-in. Reasons are tried in priority order.
func HaltCheckNeeded(journals []models.JournalEntry, now time.Time) (HaltReason, bool) {
	for _, j := range journalsWithin(journals, now, WeekWindowDays) {
		if containsStressKeyword(j.Text()) {
			return HaltStressKeywords, true
		}
	}

	if len(journals) > 0 && daysSinceLastJournal(journals, now) >= HaltNoJournalDays {
		return HaltNoJournaling, true
	}

	var lastHalt *time.Time
	for i := range journals {
		if !journals[i].IsHalt() {
			continue
		}
		if lastHalt == nil || journals[i].CreatedAt.After(*lastHalt) {
			lastHalt = &journals[i].CreatedAt
		}
	}
	if lastHalt != nil {
		if daysBetween(*lastHalt, now) >= HaltPeriodicDays {
			return HaltPeriodicCheck, true
		}
		return "", false
	}

	if len(journals) >= HaltFirstMinJournals {
		return HaltFirstCheck, true
	}
	return "", false
}

// matchedStressKeyword returns the first stress keyword in text
func matchedStressKeyword(text string) (string, bool) {
	lower := strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	for _, kw := range StressKeywords {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

func containsStressKeyword(text string) bool {
	_, ok := matchedStressKeyword(text)
	return ok
}
