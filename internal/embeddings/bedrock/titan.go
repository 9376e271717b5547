// Package bedrock implements the embeddings.Provider against a
// Bedrock-compatible model runtime over HTTP.
package bedrock

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

// Provider calls the Titan text embedding model through the gateway's
// invoke endpoint.
type Provider struct {
	client *resty.Client
	model  string
}

// New creates a Provider for the given gateway base URL and model id.
func New(baseURL, modelID string, timeout time.Duration) *Provider {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Provider{client: c, model: modelID}
}

type embedRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions"`
	Normalize  bool   `json:"normalize"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed generates a dense vector for the given text. Blank text is rejected
// before any network call; provider failures surface as model.ErrEmbedding
// with the underlying cause attached.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text must not be blank", model.ErrValidation)
	}

	reqBody := embedRequest{InputText: text, Dimensions: model.EmbeddingDim, Normalize: true}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/model/" + p.model + "/invoke")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrEmbedding, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway status %d: %s", model.ErrEmbedding, resp.StatusCode(), resp.String())
	}

	var er embedResponse
	if err := json.Unmarshal(resp.Body(), &er); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", model.ErrEmbedding, err)
	}
	if len(er.Embedding) != model.EmbeddingDim {
		return nil, fmt.Errorf("%w: expected %d dimensions, got %d", model.ErrEmbedding, model.EmbeddingDim, len(er.Embedding))
	}

	vec := make([]float32, len(er.Embedding))
	for i, v := range er.Embedding {
		vec[i] = float32(v)
	}
	return vec, nil
}

// HealthPing checks gateway reachability without invoking a model.
func (p *Provider) HealthPing(ctx context.Context) error {
	resp, err := p.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("gateway status %d", resp.StatusCode())
	}
	return nil
}
