// Package llm wraps the text-generation model used to derive summaries and
// titles from free-form input.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/infohub-ai/knowledge-companion/internal/model"
)

// Summarizer produces short summaries from free-form text.
type Summarizer interface {
	// Summarize returns a 1-2 sentence summary of the given text.
	Summarize(ctx context.Context, text string) (string, error)
	// SummarizeStructured returns a short title plus a longer summary.
	SummarizeStructured(ctx context.Context, text string) (TitleSummary, error)
}

// TitleSummary is the structured result for feature-request summarization.
type TitleSummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// StripCodeFence removes a surrounding Markdown code fence, including an
// optional language tag, so the remainder can be parsed as JSON.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 && !strings.ContainsAny(s[:i], "{[") {
		// first line is a language tag like "json"
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseTitleSummary decodes a model response into a TitleSummary, tolerating
// a code-fenced payload.
func ParseTitleSummary(raw string) (TitleSummary, error) {
	var out TitleSummary
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &out); err != nil {
		return TitleSummary{}, fmt.Errorf("%w: parse summarizer response: %v", model.ErrDependency, err)
	}
	if out.Title == "" || out.Summary == "" {
		return TitleSummary{}, fmt.Errorf("%w: summarizer response missing title or summary", model.ErrDependency)
	}
	return out, nil
}
