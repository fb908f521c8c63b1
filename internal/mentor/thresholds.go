package mentor

import "time"

// Journaling windows and frequency cutoffs (entries in the trailing window)
const (
	WeekWindowDays  = 7
	MonthWindowDays = 30

	FrequencyDailyMin      = 5
	FrequencyRegularMin    = 3
	FrequencyOccasionalMin = 1
)

// Quality cutoffs on mean words per entry over the 30-day sample
const (
	QualityDeepWords     = 150
	QualityModerateWords = 75
	QualityShallowWords  = 30
)

// Consistency: enough entries spread over enough distinct days
const (
	ConsistencyMinEntries = 3
	ConsistencyMinDays    = 3
)

// ConsistencyPoints is the bonus for consistent journaling
const ConsistencyPoints = 20

// FrequencyPoints maps a frequency bucket to score points (max 40)
var FrequencyPoints = map[Frequency]int{
	FrequencyDaily:      40,
	FrequencyRegular:    30,
	FrequencyOccasional: 20,
	FrequencySporadic:   10,
	FrequencyAbsent:     0,
}

// QualityPoints maps a depth bucket to score points (max 40)
var QualityPoints = map[Quality]int{
	QualityDeep:     40,
	QualityModerate: 30,
	QualityShallow:  20,
	QualityMinimal:  10,
}

// Focus recommendation priorities
const (
	PriorityStartWithReflection = 30
	PriorityUrgentBase          = 90
	PriorityUrgentPerDay        = 10
	PriorityStalledBase         = 60
	PriorityStalledPerPercent   = 0.5
	PriorityCelebration         = 40
	PriorityMiniWin             = 65
	PriorityReflection          = 35

	UrgentMaxDays          = 3
	FocusStalledProgress   = 30
	ReflectionGapDays      = 2
	CelebrationStreakEvery = 7
)

// Struggling pattern: an old, barely started goal or habit with no recent journaling
const (
	StrugglingProgress  = 5
	StrugglingMinDays   = 3
	StrugglingQuietDays = 3
)

// CelebrationStreaks are the habit streak lengths worth celebrating
var CelebrationStreaks = []int{7, 14, 21, 30, 60, 90}

// Goal progress bands worth celebrating, [low, high)
const (
	HalfwayLow     = 50
	HalfwayHigh    = 55
	FinishLineLow  = 75
	FinishLineHigh = 80
)

// Challenge rules
const (
	MaxChallenges             = 2
	ChallengeStreakMean       = 7
	ChallengeProgressBelow    = 50
	ChallengeWeeklyJournalMin = 3
	ChallengeBoostDays        = 30
)

// Classifier thresholds
const (
	UrgentDeadlineHours   = 24
	StreakAtRiskMin       = 7
	StalledGoalMinDays    = 3
	StalledGoalProgress   = 10
	ComebackMinDays       = 3
	NoJournalSentinel     = 999
	HaltNoJournalDays     = 3
	HaltPeriodicDays      = 7
	HaltFirstMinJournals  = 5
	WinningWindowDays     = 14
	WinningCompletionRate = 0.8
	WinningWeeklyJournals = 4
)

// DefaultSummarizerTimeout bounds every external summarizer call
const DefaultSummarizerTimeout = 8 * time.Second

// StressKeywords trigger a HALT check-in when found in a recent journal
var StressKeywords = []string{
	"stress",
	"overwhelm",
	"exhausted",
	"tired",
	"frustrated",
	"angry",
	"alone",
	"lonely",
	"isolated",
	"anxious",
	"panic",
	"burnt",
	"burnout",
	"can't cope",
	"too much",
	"struggling",
}

// DefaultTheme is used when no theme can be detected
const DefaultTheme = "personal growth"

// ThemeKeywords is the local fallback table for journal themes.
// Order matters: ties go to the earlier theme.
var ThemeKeywords = []struct {
	Theme    string
	Keywords []string
}{
	{"fitness", []string{"workout", "exercise", "gym", "run", "running", "fitness", "yoga", "training", "health", "walk"}},
	{"career", []string{"work", "job", "career", "boss", "meeting", "project", "promotion", "office", "colleague", "interview"}},
	{"relationships", []string{"friend", "friends", "family", "partner", "relationship", "love", "mom", "dad", "wife", "husband"}},
	{"learning", []string{"learn", "learning", "study", "book", "reading", "course", "class", "skill", "practice", "lesson"}},
}
