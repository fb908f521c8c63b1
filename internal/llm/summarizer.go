package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Purpose selects the prompt a Summarizer sends
type Purpose string

const (
	PurposeInsight Purpose = "insight"
	PurposeTheme   Purpose = "theme"
)

// maxEntryChars trims each journal text before it goes into a prompt
const maxEntryChars = 600

const insightPrompt = `You are a warm, encouraging personal mentor. Below are a user's recent journal entries.
Write ONE sentence (max 30 words) of personal insight about their journaling: a pattern you notice or a gentle nudge.
Speak directly to the user as "you". No greeting, no quotes, no lists.

Entries:
%s

Insight:`

const themePrompt = `Below are a user's most recent journal entries.
Name the single main topic they keep writing about in 1 to 4 lowercase words (for example: "career change", "sleep", "family").
Reply with the topic only.

Entries:
%s

Topic:`

// ErrEmptyReply is returned when the model answers with nothing usable
var ErrEmptyReply = errors.New("empty reply from model")

// Summarizer turns journal texts into one short line using Ollama
type Summarizer struct {
	client  *Client
	purpose Purpose
}

// NewInsightSummarizer uses the heavy model for the personal insight line
func NewInsightSummarizer(c *Client) *Summarizer {
	return &Summarizer{client: c, purpose: PurposeInsight}
}

// NewThemeSummarizer uses the light model for short topic labels
func NewThemeSummarizer(c *Client) *Summarizer {
	return &Summarizer{client: c, purpose: PurposeTheme}
}

// Summarize sends one prompt and returns the first non-blank line of the reply
func (s *Summarizer) Summarize(ctx context.Context, texts []string) (string, error) {
	prompt, heavy, opts := s.buildPrompt(texts)

	reply, err := s.client.GenerateText(ctx, prompt, heavy, opts)
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", s.purpose, err)
	}

	line := firstLine(reply)
	if line == "" {
		return "", ErrEmptyReply
	}
	return line, nil
}

func (s *Summarizer) buildPrompt(texts []string) (string, bool, *GenerateOption) {
	var sb strings.Builder
	for i, t := range texts {
		t = strings.TrimSpace(t)
		if len(t) > maxEntryChars {
			t = t[:maxEntryChars] + "..."
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, t)
	}

	if s.purpose == PurposeTheme {
		return fmt.Sprintf(themePrompt, sb.String()), false, &GenerateOption{Temperature: 0.2, NumPredict: 16}
	}
	return fmt.Sprintf(insightPrompt, sb.String()), true, &GenerateOption{Temperature: 0.7, NumPredict: 80}
}

// firstLine strips wrapping quotes and keeps the first non-blank line
func firstLine(reply string) string {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "\"'`")
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
