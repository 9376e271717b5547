package embeddings

import "context"

// Provider produces fixed-width vector representations for text.
//
// Implementations must reject blank input without a network call, make a
// single attempt (no internal retry), and return vectors of exactly
// model.EmbeddingDim elements.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
