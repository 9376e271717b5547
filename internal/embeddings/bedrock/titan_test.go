package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/infohub-ai/knowledge-companion/internal/model"
)

func newGateway(t *testing.T, dim int, status int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Dimensions != model.EmbeddingDim || !req.Normalize {
			t.Errorf("unexpected request: %+v", req)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		vec := make([]float64, dim)
		for i := range vec {
			vec[i] = float64(i) / float64(dim)
		}
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: vec})
	}))
}

func TestEmbed_ReturnsFixedDimensionVector(t *testing.T) {
	var calls atomic.Int32
	srv := newGateway(t, model.EmbeddingDim, http.StatusOK, &calls)
	defer srv.Close()

	p := New(srv.URL, "amazon.titan-embed-text-v2:0", 5*time.Second)
	vec, err := p.Embed(context.Background(), "Acme Corp")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != model.EmbeddingDim {
		t.Fatalf("len(vec) = %d, want %d", len(vec), model.EmbeddingDim)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestEmbed_RejectsBlankTextWithoutNetworkCall(t *testing.T) {
	var calls atomic.Int32
	srv := newGateway(t, model.EmbeddingDim, http.StatusOK, &calls)
	defer srv.Close()

	p := New(srv.URL, "amazon.titan-embed-text-v2:0", 5*time.Second)
	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := p.Embed(context.Background(), text); !errors.Is(err, model.ErrValidation) {
			t.Fatalf("Embed(%q): err = %v, want ErrValidation", text, err)
		}
	}
	if calls.Load() != 0 {
		t.Fatalf("calls = %d, want 0", calls.Load())
	}
}

func TestEmbed_GatewayFailureIsDependencyError(t *testing.T) {
	var calls atomic.Int32
	srv := newGateway(t, model.EmbeddingDim, http.StatusInternalServerError, &calls)
	defer srv.Close()

	p := New(srv.URL, "amazon.titan-embed-text-v2:0", 5*time.Second)
	_, err := p.Embed(context.Background(), "Acme Corp")
	if !errors.Is(err, model.ErrEmbedding) {
		t.Fatalf("err = %v, want ErrEmbedding", err)
	}
	if !errors.Is(err, model.ErrDependency) {
		t.Fatalf("err = %v, want ErrDependency via ErrEmbedding", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1 (single attempt, no retry)", calls.Load())
	}
}

func TestEmbed_RejectsWrongDimensionResponse(t *testing.T) {
	var calls atomic.Int32
	srv := newGateway(t, 8, http.StatusOK, &calls)
	defer srv.Close()

	p := New(srv.URL, "amazon.titan-embed-text-v2:0", 5*time.Second)
	if _, err := p.Embed(context.Background(), "Acme Corp"); !errors.Is(err, model.ErrEmbedding) {
		t.Fatalf("err = %v, want ErrEmbedding for short vector", err)
	}
}
