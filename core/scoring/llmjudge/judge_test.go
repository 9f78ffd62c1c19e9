package llmjudge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vela-voice/vela-core/core/scoring"
)

func completionResponse(t *testing.T, scorecard scoring.Scorecard) string {
	t.Helper()
	content, err := json.Marshal(scorecard)
	if err != nil {
		t.Fatalf("failed to marshal scorecard: %v", err)
	}
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{{
			"message": map[string]any{"role": "assistant", "content": string(content)},
		}},
	})
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}
	return string(body)
}

func TestAnalyzeParsesScorecard(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")

	want := scoring.Scorecard{
		Overall: 82, Fluency: 78, Vocabulary: 85, Engagement: 80,
		Commentary: "Good pacing, try longer answers.",
	}

	var requestedModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req requestBody
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("failed to unmarshal request: %v", err)
		}
		requestedModel = req.Model
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_schema" {
			t.Error("expected request to constrain the response format to a json schema")
		}
		if len(req.Messages) != 2 {
			t.Errorf("expected system prompt plus transcript, got %d messages", len(req.Messages))
		}
		w.Write([]byte(completionResponse(t, want)))
	}))
	defer server.Close()

	judge, err := NewJudge(WithCompletionsURL(server.URL), WithModel("test-model"))
	if err != nil {
		t.Fatalf("failed to build judge: %v", err)
	}

	got, err := judge.Analyze(context.Background(), "User: hi\nAgent: hey")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if *got != want {
		t.Fatalf("expected scorecard %+v, got %+v", want, *got)
	}
	if requestedModel != "test-model" {
		t.Fatalf("expected configured model in request, got %q", requestedModel)
	}
}

func TestAnalyzeDoesNotMutateTemplate(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(completionResponse(t, scoring.Scorecard{Overall: 50})))
	}))
	defer server.Close()

	judge, err := NewJudge(WithCompletionsURL(server.URL))
	if err != nil {
		t.Fatalf("failed to build judge: %v", err)
	}

	for range 3 {
		if _, err := judge.Analyze(context.Background(), "User: hello"); err != nil {
			t.Fatalf("analyze failed: %v", err)
		}
	}
	if len(judge.requestTemplate.Messages) != 1 {
		t.Fatalf("expected template to keep only the system prompt, got %d messages",
			len(judge.requestTemplate.Messages))
	}
}

func TestAnalyzeRejectsEmptyTranscript(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")

	judge, err := NewJudge(WithCompletionsURL("http://127.0.0.1:0"))
	if err != nil {
		t.Fatalf("failed to build judge: %v", err)
	}
	if _, err := judge.Analyze(context.Background(), "   \n  "); err == nil {
		t.Fatal("expected empty transcript to be rejected")
	}
}

func TestAnalyzeSurfacesHTTPFailure(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	judge, err := NewJudge(WithCompletionsURL(server.URL))
	if err != nil {
		t.Fatalf("failed to build judge: %v", err)
	}
	if _, err := judge.Analyze(context.Background(), "User: hi"); err == nil {
		t.Fatal("expected non-OK status to surface as an error")
	}
}

func TestPlaceholderScorecardIsMarked(t *testing.T) {
	scorecard := scoring.PlaceholderScorecard()
	if !scorecard.Placeholder {
		t.Fatal("expected placeholder scorecard to be marked")
	}
	if scorecard.Commentary == "" {
		t.Fatal("expected placeholder scorecard to explain itself")
	}
}
