package style

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/orenp/quill/internal/llm"
)

// Analysis sampling settings. Analysis should be as consistent as the
// backend allows, so the temperature stays low.
const (
	analysisTemperature = 0.3
	analysisMaxTokens   = 4096
)

const analysisPrompt = `You are a linguistic analyst. Analyze the following writing samples
from a single author and produce a comprehensive "Style Profile" in JSON format.

The profile MUST capture ALL of the following dimensions:

1. **tone**: The overall emotional tone (e.g., formal, casual, sarcastic, warm, blunt, diplomatic)
2. **formality_level**: Scale of 1-10 where 1 is extremely casual and 10 is extremely formal
3. **sentence_structure**: How the author builds sentences (short/punchy, long/complex, mixed)
4. **vocabulary_level**: Simple everyday words vs. sophisticated/technical vocabulary
5. **greeting_patterns**: How they open emails/messages (examples from the text)
6. **closing_patterns**: How they sign off (examples from the text)
7. **unique_phrases**: Recurring phrases, pet expressions, or catchphrases
8. **terminology**: Domain-specific or preferred terms they use repeatedly
9. **emotional_expression**: How they express agreement, disagreement, urgency, humor
10. **punctuation_habits**: Use of exclamation marks, ellipses, dashes, parentheses
11. **paragraph_style**: Short paragraphs, long blocks, bullet points, numbered lists
12. **language_quirks**: Any spelling preferences, abbreviations, or unconventional usage
13. **response_patterns**: How they typically structure a reply (acknowledge then answer, jump straight in, etc.)
14. **temper_indicators**: How they handle frustration, pressure, or disagreement in writing
15. **persuasion_style**: How they make arguments or push for action

Return ONLY valid JSON. No markdown fences. No extra text.
Use this exact structure:
{
    "tone": "...",
    "formality_level": 5,
    "sentence_structure": "...",
    "vocabulary_level": "...",
    "greeting_patterns": ["..."],
    "closing_patterns": ["..."],
    "unique_phrases": ["..."],
    "terminology": ["..."],
    "emotional_expression": {
        "agreement": "...",
        "disagreement": "...",
        "urgency": "...",
        "humor": "..."
    },
    "punctuation_habits": "...",
    "paragraph_style": "...",
    "language_quirks": ["..."],
    "response_patterns": "...",
    "temper_indicators": "...",
    "persuasion_style": "...",
    "representative_snippets": ["3-5 short quotes that best represent the author's voice"]
}

--- WRITING SAMPLES ---
`

// Analyzer turns a directory of writing samples into a persisted style
// profile.
type Analyzer struct {
	gen llm.Generator
}

// NewAnalyzer creates an analyzer backed by the given generator. A nil
// generator means no backend credential is configured; Extract will
// fail with a ConfigError before touching the network or the disk.
func NewAnalyzer(gen llm.Generator) *Analyzer {
	return &Analyzer{gen: gen}
}

// BuildCorpus formats samples into one delimited text block. Each
// sample is labeled with its index and filename so the backend can
// attribute patterns to individual samples.
func BuildCorpus(samples []Sample) string {
	var sb strings.Builder
	for i, sample := range samples {
		sb.WriteString(fmt.Sprintf(
			"\n=== SAMPLE %d: %s ===\n%s\n", i+1, sample.Filename, sample.Content,
		))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Extract loads samples from samplesDir, submits them for analysis,
// parses the result, persists it at profilePath (even when degraded),
// and returns the profile.
func (a *Analyzer) Extract(
	ctx context.Context,
	samplesDir string,
	profilePath string,
) (*Profile, error) {
	if a.gen == nil {
		return nil, &llm.ConfigError{
			Message: "Gemini API key not set; run 'quill config set-key gemini' " +
				"or export GEMINI_API_KEY",
		}
	}

	samples, err := LoadSamples(samplesDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading samples from %s: %w", samplesDir, err)
	}

	if len(samples) == 0 {
		return nil, &NotFoundError{
			Path: samplesDir,
			Hint: fmt.Sprintf(
				"no writing samples found; add %s files and retry",
				strings.Join(SampleExtensions, ", "),
			),
		}
	}

	raw, err := a.gen.Generate(ctx, llm.GenerateRequest{
		Prompt:      analysisPrompt + BuildCorpus(samples),
		Temperature: analysisTemperature,
		MaxTokens:   analysisMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing writing style: %w", err)
	}

	profile := ParseProfile(raw)

	// Persist even a degraded profile so the operator can inspect the
	// raw analysis and retry.
	if err := SaveProfile(profile, profilePath); err != nil {
		return nil, err
	}

	return profile, nil
}
