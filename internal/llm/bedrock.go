package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/infohub-ai/knowledge-companion/internal/model"
)

const (
	noteSystemPrompt    = "You are a helpful assistant. Summarize the following meeting note in 1-2 sentences."
	featureSystemPrompt = `You are a helpful assistant summarizing software feature requests.

Based on the provided input:
1. Generate a clear and concise TITLE of 80 characters or fewer.
2. Then generate a longer SUMMARY explaining the feature in more detail (1-3 paragraphs).

Return only the JSON object in this format:
{
  "title": "<title here>",
  "summary": "<summary here>"
}`
)

// BedrockSummarizer calls an Anthropic messages model through a
// Bedrock-compatible runtime.
type BedrockSummarizer struct {
	client *resty.Client
	model  string
}

// NewBedrockSummarizer creates a summarizer for the given gateway base URL
// and model id.
func NewBedrockSummarizer(baseURL, modelID string, timeout time.Duration) *BedrockSummarizer {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &BedrockSummarizer{client: c, model: modelID}
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type invokeRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	System           string    `json:"system"`
	Messages         []message `json:"messages"`
}

type invokeResponse struct {
	Content []contentBlock `json:"content"`
}

func (s *BedrockSummarizer) invoke(ctx context.Context, system, input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("%w: text must not be blank", model.ErrValidation)
	}

	reqBody := invokeRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        1000,
		Temperature:      0.7,
		System:           system,
		Messages: []message{{
			Role:    "user",
			Content: []contentBlock{{Type: "text", Text: input}},
		}},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/model/" + s.model + "/invoke")
	if err != nil {
		return "", fmt.Errorf("%w: summarizer request: %v", model.ErrDependency, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%w: summarizer status %d: %s", model.ErrDependency, resp.StatusCode(), resp.String())
	}

	var ir invokeResponse
	if err := json.Unmarshal(resp.Body(), &ir); err != nil {
		return "", fmt.Errorf("%w: decode summarizer response: %v", model.ErrDependency, err)
	}
	if len(ir.Content) == 0 {
		return "", fmt.Errorf("%w: empty summarizer response", model.ErrDependency)
	}
	return strings.TrimSpace(ir.Content[0].Text), nil
}

// Summarize returns a short free-text summary of the given text.
func (s *BedrockSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.invoke(ctx, noteSystemPrompt, text)
}

// SummarizeStructured asks the model for a {title, summary} JSON object and
// parses it, stripping a code fence if present.
func (s *BedrockSummarizer) SummarizeStructured(ctx context.Context, text string) (TitleSummary, error) {
	raw, err := s.invoke(ctx, featureSystemPrompt, text)
	if err != nil {
		return TitleSummary{}, err
	}
	return ParseTitleSummary(raw)
}

var _ Summarizer = (*BedrockSummarizer)(nil)
