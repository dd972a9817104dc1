package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini("", "")
	if !IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if !strings.Contains(err.Error(), "set-key gemini") {
		t.Errorf("error should name the exact set-key invocation: %v", err)
	}
}

func TestGenerate(t *testing.T) {
	var captured apiRequest

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.URL.Path, "models/gemini-2.0-flash:generateContent") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("key") != "test-key" {
				t.Errorf("missing api key in query")
			}
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Errorf("decoding request: %v", err)
			}

			resp := apiResponse{
				Candidates: []apiCandidate{
					{Content: apiContent{Parts: []apiPart{
						{Text: "Hello "},
						{Text: "there."},
					}}},
				},
			}
			json.NewEncoder(w).Encode(resp)
		},
	))
	defer srv.Close()

	client, err := NewGemini("test-key", "gemini-2.0-flash")
	if err != nil {
		t.Fatal(err)
	}
	client.SetBaseURL(srv.URL)

	got, err := client.Generate(context.Background(), GenerateRequest{
		System:      "be brief",
		Prompt:      "say hello",
		Temperature: 0.3,
		MaxTokens:   128,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "Hello there." {
		t.Errorf("Generate = %q", got)
	}

	if captured.SystemInstruction == nil ||
		captured.SystemInstruction.Parts[0].Text != "be brief" {
		t.Error("system instruction not forwarded")
	}
	if len(captured.Contents) != 1 ||
		captured.Contents[0].Parts[0].Text != "say hello" {
		t.Error("prompt not forwarded")
	}
	if captured.GenerationConfig == nil {
		t.Fatal("generation config missing")
	}
	if captured.GenerationConfig.Temperature != 0.3 {
		t.Errorf("temperature = %v", captured.GenerationConfig.Temperature)
	}
	if captured.GenerationConfig.MaxOutputTokens != 128 {
		t.Errorf("max tokens = %d", captured.GenerationConfig.MaxOutputTokens)
	}
}

func TestGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error": {"code": 429, "message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
		},
	))
	defer srv.Close()

	client, err := NewGemini("test-key", "")
	if err != nil {
		t.Fatal(err)
	}
	client.SetBaseURL(srv.URL)

	_, err = client.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error should carry the backend message: %v", err)
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates": []}`))
		},
	))
	defer srv.Close()

	client, err := NewGemini("test-key", "")
	if err != nil {
		t.Fatal(err)
	}
	client.SetBaseURL(srv.URL)

	_, err = client.Generate(context.Background(), GenerateRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error on empty candidates")
	}
}
