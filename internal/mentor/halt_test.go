package mentor

import (
	"testing"

	"github.com/mrwolf/mentor-server/internal/models"
)

func haltEntry(ageDays int) models.JournalEntry {
	j := journal(ageDays, "")
	j.Type = models.JournalStructured
	j.TemplateID = models.TemplateHalt
	j.QAPairs = []models.QAPair{{Question: "Hungry?", Answer: "no"}}
	return j
}

func TestHaltCheckNeeded(t *testing.T) {
	tests := []struct {
		name       string
		journals   []models.JournalEntry
		wantReason HaltReason
		wantOK     bool
	}{
		{"no journals", nil, "", false},
		{"stress keyword today", journalsOn("I feel overwhelmed by everything", 0), HaltStressKeywords, true},
		{"curly apostrophe", journalsOn("I can’t cope with this week", 2), HaltStressKeywords, true},
		{"keyword in answer", []models.JournalEntry{{
			CreatedAt: daysAgo(1),
			Type:      models.JournalGuided,
			QAPairs:   []models.QAPair{{Question: "How are you?", Answer: "Honestly pretty LONELY"}},
		}}, HaltStressKeywords, true},
		{
			name:     "stress keyword outside week",
			journals: append(journalsOn("a calm day", 0), journal(8, "so stressed")),
		},
		{"no recent journaling", journalsOn("a calm day", 4), HaltNoJournaling, true},
		{
			name:       "periodic check",
			journals:   []models.JournalEntry{journal(0, "a calm day"), haltEntry(8)},
			wantReason: HaltPeriodicCheck,
			wantOK:     true,
		},
		{
			name: "recent halt suppresses first check",
			journals: []models.JournalEntry{
				journal(0, "calm"), journal(0, "calm"), journal(1, "calm"),
				journal(1, "calm"), haltEntry(2), journal(2, "calm"),
			},
		},
		{"first halt", journalsOn("a calm day", 0, 0, 1, 1, 2), HaltFirstCheck, true},
		{"too few for first halt", journalsOn("a calm day", 0, 1, 2, 2), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := HaltCheckNeeded(tt.journals, testNow)
			if ok != tt.wantOK || reason != tt.wantReason {
				t.Errorf("HaltCheckNeeded() = (%q, %v), want (%q, %v)", reason, ok, tt.wantReason, tt.wantOK)
			}
		})
	}
}

func TestMatchedStressKeyword(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Work is too much lately", "too much"},
		{"Feeling burnt out", "burnt"},
		{"Great run this morning", ""},
	}
	for _, tt := range tests {
		got, _ := matchedStressKeyword(tt.text)
		if got != tt.want {
			t.Errorf("matchedStressKeyword(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
