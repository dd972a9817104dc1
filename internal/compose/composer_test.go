package compose

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/orenp/quill/internal/llm"
	"github.com/orenp/quill/internal/style"
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

func testProfile(formality int) *style.Profile {
	return &style.Profile{
		Data: &style.ProfileData{
			Tone:           "casual",
			FormalityLevel: formality,
			GreetingPatterns: []string{
				"Hey,",
			},
		},
	}
}

func testRequest() ReplyRequest {
	return ReplyRequest{
		Subject:    "Project update meeting",
		Body:       "Can we schedule a meeting to discuss the project status?",
		SenderName: "Dana",
	}
}

func TestGenerateReplyEmbedsFormality(t *testing.T) {
	for _, formality := range []int{2, 9} {
		t.Run(fmt.Sprintf("formality_%d", formality), func(t *testing.T) {
			gen := &stubGenerator{response: "Sure, Tuesday works."}
			composer := NewComposer(gen)

			_, err := composer.GenerateReply(
				context.Background(), testRequest(), testProfile(formality),
			)
			if err != nil {
				t.Fatalf("GenerateReply: %v", err)
			}

			system := gen.requests[0].System
			want := fmt.Sprintf("formality level (%d/10)", formality)
			if !strings.Contains(system, want) {
				t.Errorf("instruction context missing %q", want)
			}
			if !strings.Contains(system, fmt.Sprintf(`"formality_level": %d`, formality)) {
				t.Error("serialized profile missing the formality field")
			}
		})
	}
}

func TestGenerateReplyDegradedProfile(t *testing.T) {
	gen := &stubGenerator{response: "ok"}
	composer := NewComposer(gen)

	profile := &style.Profile{RawAnalysis: "raw", ParseError: "bad"}
	_, err := composer.GenerateReply(context.Background(), testRequest(), profile)
	if err != nil {
		t.Fatalf("composition must not fail on a degraded profile: %v", err)
	}

	system := gen.requests[0].System
	if !strings.Contains(system, "formality level (unknown/10)") {
		t.Error("degraded profile should report formality as unknown")
	}
	if !strings.Contains(system, "raw_analysis") {
		t.Error("degraded profile should still be serialized into the instruction")
	}
}

func TestGenerateReplyTaskPrompt(t *testing.T) {
	gen := &stubGenerator{response: "ok"}
	composer := NewComposer(gen)

	req := testRequest()
	_, err := composer.GenerateReply(context.Background(), req, testProfile(5))
	if err != nil {
		t.Fatal(err)
	}

	prompt := gen.requests[0].Prompt
	if !strings.Contains(prompt, "FROM: Dana") {
		t.Error("task prompt missing sender name")
	}
	if !strings.Contains(prompt, "SUBJECT: Project update meeting") {
		t.Error("task prompt missing subject")
	}
	if !strings.Contains(prompt, req.Body) {
		t.Error("task prompt missing the full body")
	}
	if strings.Contains(prompt, "ADDITIONAL CONTEXT") {
		t.Error("empty additional context must not appear in the prompt")
	}
	if gen.requests[0].Temperature != replyTemperature {
		t.Errorf("reply temperature = %v, want %v", gen.requests[0].Temperature, replyTemperature)
	}
	if gen.requests[0].MaxTokens != replyMaxTokens {
		t.Errorf("reply max tokens = %d, want %d", gen.requests[0].MaxTokens, replyMaxTokens)
	}
}

func TestGenerateReplyAdditionalContext(t *testing.T) {
	gen := &stubGenerator{response: "ok"}
	composer := NewComposer(gen)

	req := testRequest()
	req.AdditionalContext = "keep it to two sentences and decline politely"

	_, err := composer.GenerateReply(context.Background(), req, testProfile(5))
	if err != nil {
		t.Fatal(err)
	}

	prompt := gen.requests[0].Prompt
	if !strings.Contains(prompt, req.AdditionalContext) {
		t.Error("additional context must appear verbatim in the prompt")
	}
}

func TestGenerateReplyTrimsWhitespace(t *testing.T) {
	gen := &stubGenerator{response: "\n\n  Sounds good!  \n"}
	composer := NewComposer(gen)

	reply, err := composer.GenerateReply(
		context.Background(), testRequest(), testProfile(5),
	)
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Sounds good!" {
		t.Errorf("reply = %q, want trimmed text", reply)
	}
}

func TestGenerateReplyNoCredential(t *testing.T) {
	composer := NewComposer(nil)

	_, err := composer.GenerateReply(
		context.Background(), testRequest(), testProfile(5),
	)
	if !llm.IsConfigError(err) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if !strings.Contains(err.Error(), "set-key gemini") {
		t.Errorf("error should name the exact set-key invocation: %v", err)
	}
}
