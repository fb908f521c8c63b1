package mentor

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// Summarizer turns recent journal texts into one short line of text.
// Implementations may call a remote model; every caller has a local fallback.
type Summarizer interface {
	Summarize(ctx context.Context, texts []string) (string, error)
}

// SummarizerFunc adapts a function to the Summarizer interface
type SummarizerFunc func(ctx context.Context, texts []string) (string, error)

// Summarize calls f
func (f SummarizerFunc) Summarize(ctx context.Context, texts []string) (string, error) {
	return f(ctx, texts)
}

var errEmptySummary = errors.New("summarizer returned empty text")

// summarizeOnce makes a single bounded call. A nil summarizer, an error,
// a timeout or a blank reply all report ok=false. A reply that arrives
// after the deadline is discarded even if the summarizer ignored ctx.
func summarizeOnce(ctx context.Context, s Summarizer, texts []string, timeout time.Duration, purpose string) (string, bool) {
	if s == nil || len(texts) == 0 {
		return "", false
	}
	if timeout <= 0 {
		timeout = DefaultSummarizerTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		out string
		err error
	}
	// Buffered so a late reply never blocks the sender
	done := make(chan reply, 1)
	go func() {
		out, err := s.Summarize(callCtx, texts)
		done <- reply{out, err}
	}()

	var (
		out string
		err error
	)
	select {
	case r := <-done:
		out, err = r.out, r.err
	case <-callCtx.Done():
		err = callCtx.Err()
	}
	if err == nil && strings.TrimSpace(out) == "" {
		err = errEmptySummary
	}
	if err != nil {
		log.Printf("WARNING: %s summarizer failed, using local fallback: %v", purpose, err)
		return "", false
	}
	return strings.TrimSpace(out), true
}
