package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/infohub-ai/knowledge-companion/internal/model"
)

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`{"title":"a","summary":"b"}`, `{"title":"a","summary":"b"}`},
		{"```json\n{\"title\":\"a\"}\n```", `{"title":"a"}`},
		{"```\n{\"title\":\"a\"}\n```", `{"title":"a"}`},
		{"  ```json\n{}\n```  ", `{}`},
	}
	for _, c := range cases {
		if got := StripCodeFence(c.in); got != c.want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseTitleSummary(t *testing.T) {
	ts, err := ParseTitleSummary("```json\n{\"title\":\"Dark mode\",\"summary\":\"Add a dark theme.\"}\n```")
	if err != nil {
		t.Fatalf("ParseTitleSummary: %v", err)
	}
	if ts.Title != "Dark mode" || ts.Summary != "Add a dark theme." {
		t.Fatalf("unexpected result: %+v", ts)
	}
}

func TestParseTitleSummary_Malformed(t *testing.T) {
	for _, raw := range []string{"not json", `{"title":"only title"}`, ""} {
		if _, err := ParseTitleSummary(raw); !errors.Is(err, model.ErrDependency) {
			t.Fatalf("ParseTitleSummary(%q): err = %v, want ErrDependency", raw, err)
		}
	}
}

func newModelServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req invokeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.System == "" || len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected request shape: %+v", req)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(invokeResponse{Content: []contentBlock{{Type: "text", Text: reply}}})
	}))
}

func TestSummarize(t *testing.T) {
	srv := newModelServer(t, "Short summary of the note.", http.StatusOK)
	defer srv.Close()

	s := NewBedrockSummarizer(srv.URL, "anthropic.claude-sonnet-4-20250514-v1:0", 5*time.Second)
	got, err := s.Summarize(context.Background(), "long note text")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "Short summary of the note." {
		t.Fatalf("got %q", got)
	}
}

func TestSummarizeStructured_FencedResponse(t *testing.T) {
	srv := newModelServer(t, "```json\n{\"title\":\"CSV export\",\"summary\":\"Allow exporting reports as CSV.\"}\n```", http.StatusOK)
	defer srv.Close()

	s := NewBedrockSummarizer(srv.URL, "anthropic.claude-sonnet-4-20250514-v1:0", 5*time.Second)
	ts, err := s.SummarizeStructured(context.Background(), "we need csv export")
	if err != nil {
		t.Fatalf("SummarizeStructured: %v", err)
	}
	if ts.Title != "CSV export" {
		t.Fatalf("title = %q", ts.Title)
	}
}

func TestSummarize_GatewayFailure(t *testing.T) {
	srv := newModelServer(t, "", http.StatusBadGateway)
	defer srv.Close()

	s := NewBedrockSummarizer(srv.URL, "anthropic.claude-sonnet-4-20250514-v1:0", 5*time.Second)
	if _, err := s.Summarize(context.Background(), "text"); !errors.Is(err, model.ErrDependency) {
		t.Fatalf("err = %v, want ErrDependency", err)
	}
}

func TestSummarize_BlankInput(t *testing.T) {
	s := NewBedrockSummarizer("http://localhost:1", "m", time.Second)
	if _, err := s.Summarize(context.Background(), "  "); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
