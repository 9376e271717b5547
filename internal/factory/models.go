package factory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/infohub-ai/knowledge-companion/internal/config"
	emb "github.com/infohub-ai/knowledge-companion/internal/embeddings"
	"github.com/infohub-ai/knowledge-companion/internal/embeddings/bedrock"
	"github.com/infohub-ai/knowledge-companion/internal/llm"
)

// NewEmbeddingProvider creates the gateway-backed embedding provider.
// Launches an async warmup probe; returns immediately for fast startup.
func NewEmbeddingProvider(ctx context.Context, cfg *config.Config, log zerolog.Logger) emb.Provider {
	timeout := time.Duration(cfg.ModelTimeoutSeconds) * time.Second
	provider := bedrock.New(cfg.GatewayURL, cfg.EmbedModel, timeout)

	go func() {
		warmupTimeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
		warmupCtx, cancel := context.WithTimeout(ctx, warmupTimeout)
		defer cancel()

		if vec, err := provider.Embed(warmupCtx, "factory-warmup-check"); err != nil || len(vec) == 0 {
			log.Warn().Err(err).Int("vec_len", len(vec)).
				Str("model", cfg.EmbedModel).
				Msg("embedding provider warmup failed")
		} else {
			log.Debug().Str("model", cfg.EmbedModel).
				Msg("embedding provider warmup completed")
		}
	}()

	return provider
}

// NewSummarizer creates the gateway-backed summarizer.
func NewSummarizer(cfg *config.Config) llm.Summarizer {
	timeout := time.Duration(cfg.ModelTimeoutSeconds) * time.Second
	return llm.NewBedrockSummarizer(cfg.GatewayURL, cfg.SummaryModel, timeout)
}
