package style

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/orenp/quill/internal/llm"
)

// stubGenerator records generate requests and returns a canned
// response.
type stubGenerator struct {
	requests []llm.GenerateRequest
	response string
	err      error
}

func (s *stubGenerator) Generate(
	_ context.Context, req llm.GenerateRequest,
) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestExtractProducesProfile(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "one.txt", "Hey, quick note about the launch plan.")
	writeSample(t, dir, "two.txt", "Cheers, see you Tuesday!")
	profilePath := filepath.Join(t.TempDir(), "profile.json")

	gen := &stubGenerator{response: sampleProfileJSON}
	analyzer := NewAnalyzer(gen)

	profile, err := analyzer.Extract(context.Background(), dir, profilePath)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if profile.Degraded() {
		t.Fatalf("expected parsed profile: %s", profile.ParseError)
	}

	if len(gen.requests) != 1 {
		t.Fatalf("expected 1 backend call, got %d", len(gen.requests))
	}
	req := gen.requests[0]
	if req.Temperature != analysisTemperature {
		t.Errorf("analysis temperature = %v, want %v", req.Temperature, analysisTemperature)
	}
	if !strings.Contains(req.Prompt, "=== SAMPLE 1: one.txt ===") {
		t.Error("corpus should delimit sample 1 with its filename")
	}
	if !strings.Contains(req.Prompt, "=== SAMPLE 2: two.txt ===") {
		t.Error("corpus should delimit sample 2 with its filename")
	}
	if !strings.Contains(req.Prompt, "quick note about the launch plan") {
		t.Error("corpus should contain the sample content")
	}

	// The extracted profile must round trip through the store.
	loaded, err := LoadProfile(profilePath)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if loaded.Tone() != profile.Tone() {
		t.Error("persisted profile does not match extracted profile")
	}
}

func TestExtractEmptySamples(t *testing.T) {
	dir := t.TempDir()
	gen := &stubGenerator{response: sampleProfileJSON}
	analyzer := NewAnalyzer(gen)

	_, err := analyzer.Extract(
		context.Background(), dir, filepath.Join(t.TempDir(), "p.json"),
	)
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if !strings.Contains(err.Error(), dir) {
		t.Errorf("error should name the scanned directory: %v", err)
	}
	if !strings.Contains(err.Error(), ".txt") {
		t.Errorf("error should name the accepted extensions: %v", err)
	}
	if len(gen.requests) != 0 {
		t.Error("empty batch must not trigger a backend call")
	}
}

func TestExtractNoCredential(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "one.txt", "some sample content here")

	analyzer := NewAnalyzer(nil)
	_, err := analyzer.Extract(
		context.Background(), dir, filepath.Join(t.TempDir(), "p.json"),
	)
	if !llm.IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if !strings.Contains(err.Error(), "set-key gemini") {
		t.Errorf("error should name the exact set-key invocation: %v", err)
	}
}

func TestExtractFencedResponse(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "one.txt", "some sample content here")
	profilePath := filepath.Join(t.TempDir(), "profile.json")

	gen := &stubGenerator{response: "```json\n" + sampleProfileJSON + "\n```"}
	analyzer := NewAnalyzer(gen)

	profile, err := analyzer.Extract(context.Background(), dir, profilePath)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if profile.Degraded() {
		t.Fatalf("fenced response should still parse: %s", profile.ParseError)
	}
}

func TestExtractDegradedStillPersisted(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "one.txt", "some sample content here")
	profilePath := filepath.Join(t.TempDir(), "profile.json")

	raw := "definitely not JSON"
	gen := &stubGenerator{response: raw}
	analyzer := NewAnalyzer(gen)

	profile, err := analyzer.Extract(context.Background(), dir, profilePath)
	if err != nil {
		t.Fatalf("Extract should not fail on unparseable output: %v", err)
	}
	if !profile.Degraded() {
		t.Fatal("expected degraded profile")
	}
	if profile.RawAnalysis != raw {
		t.Errorf("RawAnalysis = %q, want %q", profile.RawAnalysis, raw)
	}
	if profile.ParseError == "" {
		t.Error("expected non-empty parse error")
	}

	loaded, err := LoadProfile(profilePath)
	if err != nil {
		t.Fatalf("degraded profile must still be persisted: %v", err)
	}
	if !loaded.Degraded() || loaded.RawAnalysis != raw {
		t.Error("persisted degraded profile does not match")
	}
}
