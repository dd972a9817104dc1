package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/orenp/quill/internal/llm"
	"github.com/orenp/quill/internal/style"
)

// Reply sampling settings. Replies should read as natural prose, so the
// temperature is higher than analysis.
const (
	replyTemperature = 0.7
	replyMaxTokens   = 2048
)

const replyDirectives = `You are a ghostwriter. Your ONLY job is to write email replies
that perfectly mimic a specific person's writing style. You must sound EXACTLY like them —
not like an AI, not like a generic professional, but like THIS specific person.

Here is their detailed Style Profile:
%s

CRITICAL RULES:
1. Match their tone EXACTLY — if they're blunt, be blunt. If they're warm, be warm.
2. Use their greeting and closing patterns naturally.
3. Incorporate their unique phrases and terminology where appropriate.
4. Match their punctuation habits (exclamation marks, ellipses, dashes, etc.)
5. Match their paragraph style and sentence structure.
6. Match their formality level (%s/10).
7. If they use humor, use similar humor. If they don't, stay serious.
8. NEVER add corporate-speak or AI-style filler unless that's how they write.
9. Keep the reply length similar to how they typically respond.
10. Write in the same language as the incoming email. If the person writes in Hebrew,
    reply in Hebrew. If English, reply in English.

You will receive an email to reply to. Write ONLY the reply body.
No subject line. No "Subject:" prefix. Just the reply text.`

// ReplyRequest describes one incoming message to draft a reply for.
type ReplyRequest struct {
	Subject    string
	Body       string
	SenderName string

	// AdditionalContext carries ad hoc operator instructions for this
	// specific reply. It is appended to the task prompt only when
	// non-empty.
	AdditionalContext string
}

// Composer drafts replies that emulate a style profile.
type Composer struct {
	gen llm.Generator
}

// NewComposer creates a composer backed by the given generator. A nil
// generator means no backend credential is configured; GenerateReply
// will fail with a ConfigError before any network call.
func NewComposer(gen llm.Generator) *Composer {
	return &Composer{gen: gen}
}

// BuildStylingInstruction serializes the full profile verbatim into the
// instruction context so every captured dimension is available to the
// backend, then appends the fixed emulation directives.
func BuildStylingInstruction(profile *style.Profile) (string, error) {
	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializing style profile: %w", err)
	}

	formality := "unknown"
	if level, ok := profile.Formality(); ok {
		formality = fmt.Sprintf("%d", level)
	}

	return fmt.Sprintf(replyDirectives, profileJSON, formality), nil
}

// BuildTaskPrompt formats the incoming message, clearly delimited, plus
// the optional additional context.
func BuildTaskPrompt(req ReplyRequest) string {
	var sb strings.Builder
	sb.WriteString("Reply to this email:\n\n")
	sb.WriteString(fmt.Sprintf("FROM: %s\n", req.SenderName))
	sb.WriteString(fmt.Sprintf("SUBJECT: %s\n\n", req.Subject))
	sb.WriteString("--- EMAIL BODY ---\n")
	sb.WriteString(req.Body)
	sb.WriteString("\n--- END ---\n")

	if req.AdditionalContext != "" {
		sb.WriteString(fmt.Sprintf(
			"\nADDITIONAL CONTEXT/INSTRUCTIONS: %s\n", req.AdditionalContext,
		))
	}

	return sb.String()
}

// GenerateReply drafts a reply to req in the voice described by
// profile. Two calls with identical inputs may return different text;
// callers wanting another draft simply call again. The result is
// trimmed but otherwise untouched: no signature, no subject line.
func (c *Composer) GenerateReply(
	ctx context.Context,
	req ReplyRequest,
	profile *style.Profile,
) (string, error) {
	if c.gen == nil {
		return "", &llm.ConfigError{
			Message: "Gemini API key not set; run 'quill config set-key gemini' " +
				"or export GEMINI_API_KEY",
		}
	}

	system, err := BuildStylingInstruction(profile)
	if err != nil {
		return "", err
	}

	reply, err := c.gen.Generate(ctx, llm.GenerateRequest{
		System:      system,
		Prompt:      BuildTaskPrompt(req),
		Temperature: replyTemperature,
		MaxTokens:   replyMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}

	return strings.TrimSpace(reply), nil
}
