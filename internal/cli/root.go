package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrwolf/mentor-server/internal/llm"
	"github.com/mrwolf/mentor-server/internal/mentor"
	"github.com/mrwolf/mentor-server/internal/models"
)

var (
	snapshotFile string
	nowFlag      string
	ollamaURL    string
	ollamaModel  string
	timeoutFlag  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "mentorctl",
	Short: "Run the mentor engine against a snapshot file",
	Long: `mentorctl evaluates a YAML snapshot of goals, habits, journals and
discovery flags with the same engine the server uses, and prints JSON.

Summaries use local fallbacks unless --ollama-url is set.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&snapshotFile, "file", "f", "", "snapshot YAML file (- for stdin)")
	pf.StringVar(&nowFlag, "now", "", "evaluation time as RFC3339 (default: current time)")
	pf.StringVar(&ollamaURL, "ollama-url", "", "Ollama base URL; empty disables summarizers")
	pf.StringVar(&ollamaModel, "model", "qwen2.5:7b", "Ollama model used for summaries")
	pf.DurationVar(&timeoutFlag, "timeout", mentor.DefaultSummarizerTimeout, "per-call summarizer timeout")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// evaluationTime parses --now or falls back to the current time
func evaluationTime() (time.Time, error) {
	if nowFlag == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, nowFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --now: %w", err)
	}
	return t, nil
}

// loadSnapshot reads the snapshot named by --file. Journals are sorted
// newest first since the engine relies on that order.
func loadSnapshot(stdin io.Reader) (models.Snapshot, error) {
	var snap models.Snapshot
	if snapshotFile == "" {
		return snap, fmt.Errorf("--file is required")
	}

	var (
		data []byte
		err  error
	)
	if snapshotFile == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(snapshotFile)
	}
	if err != nil {
		return snap, fmt.Errorf("reading snapshot: %w", err)
	}

	if err := yaml.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parsing snapshot: %w", err)
	}

	sort.SliceStable(snap.Journals, func(i, j int) bool {
		return snap.Journals[i].CreatedAt.After(snap.Journals[j].CreatedAt)
	})
	for i := range snap.Journals {
		if snap.Journals[i].Type == "" {
			snap.Journals[i].Type = models.JournalQuickNote
		}
	}
	return snap, nil
}

// newEngine wires Ollama summarizers when --ollama-url is set
func newEngine() *mentor.Engine {
	if ollamaURL == "" {
		return mentor.NewEngine(nil, nil, timeoutFlag)
	}
	client := llm.NewClient(ollamaURL, ollamaModel, "")
	return mentor.NewEngine(llm.NewInsightSummarizer(client), llm.NewThemeSummarizer(client), timeoutFlag)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
