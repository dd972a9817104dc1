package style

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// EmotionalExpression describes how the author expresses the four
// tracked emotional registers.
type EmotionalExpression struct {
	Agreement    string `json:"agreement"`
	Disagreement string `json:"disagreement"`
	Urgency      string `json:"urgency"`
	Humor        string `json:"humor"`
}

// ProfileData is the well-formed style descriptor produced by analysis.
// Unknown keys returned by the backend are preserved in Extra so the
// document round-trips losslessly even as the backend drifts.
type ProfileData struct {
	Tone                   string              `json:"tone"`
	FormalityLevel         int                 `json:"formality_level"`
	SentenceStructure      string              `json:"sentence_structure"`
	VocabularyLevel        string              `json:"vocabulary_level"`
	GreetingPatterns       []string            `json:"greeting_patterns"`
	ClosingPatterns        []string            `json:"closing_patterns"`
	UniquePhrases          []string            `json:"unique_phrases"`
	Terminology            []string            `json:"terminology"`
	EmotionalExpression    EmotionalExpression `json:"emotional_expression"`
	PunctuationHabits      string              `json:"punctuation_habits"`
	ParagraphStyle         string              `json:"paragraph_style"`
	LanguageQuirks         []string            `json:"language_quirks"`
	ResponsePatterns       string              `json:"response_patterns"`
	TemperIndicators       string              `json:"temper_indicators"`
	PersuasionStyle        string              `json:"persuasion_style"`
	RepresentativeSnippets []string            `json:"representative_snippets"`

	// Extra holds fields the backend returned that are not part of the
	// fixed schema.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownProfileKeys are the fixed schema keys; anything else lands in Extra.
var knownProfileKeys = map[string]bool{
	"tone":                    true,
	"formality_level":         true,
	"sentence_structure":      true,
	"vocabulary_level":        true,
	"greeting_patterns":       true,
	"closing_patterns":        true,
	"unique_phrases":          true,
	"terminology":             true,
	"emotional_expression":    true,
	"punctuation_habits":      true,
	"paragraph_style":         true,
	"language_quirks":         true,
	"response_patterns":       true,
	"temper_indicators":       true,
	"persuasion_style":        true,
	"representative_snippets": true,
}

// Profile is the central artifact of the system. It is either a parsed
// descriptor (Data non-nil) or a degraded raw-analysis holder when the
// backend output could not be decoded. Degraded profiles are still
// persisted so the operator can inspect and retry.
type Profile struct {
	// Data holds the parsed descriptor; nil when degraded.
	Data *ProfileData

	// RawAnalysis is the undecodable backend output (degraded only).
	RawAnalysis string

	// ParseError describes why decoding failed (degraded only).
	ParseError string
}

// Degraded reports whether the profile holds raw analysis output
// instead of a parsed descriptor.
func (p *Profile) Degraded() bool {
	return p.Data == nil
}

// Tone returns the profile tone, or "unknown" when degraded.
func (p *Profile) Tone() string {
	if p.Data == nil || p.Data.Tone == "" {
		return "unknown"
	}
	return p.Data.Tone
}

// Formality returns the 1-10 formality level and whether it is known.
func (p *Profile) Formality() (int, bool) {
	if p.Data == nil || p.Data.FormalityLevel == 0 {
		return 0, false
	}
	return p.Data.FormalityLevel, true
}

// MarshalJSON serializes the profile as the style profile document:
// either the full descriptor (with extras merged back in) or the
// degraded {"raw_analysis", "parse_error"} shape.
func (p *Profile) MarshalJSON() ([]byte, error) {
	if p.Data == nil {
		return json.Marshal(map[string]string{
			"raw_analysis": p.RawAnalysis,
			"parse_error":  p.ParseError,
		})
	}

	type alias ProfileData
	base, err := json.Marshal((*alias)(p.Data))
	if err != nil {
		return nil, err
	}

	if len(p.Data.Extra) == 0 {
		return base, nil
	}

	// Merge extras into the serialized object.
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Data.Extra {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes either profile variant. A document carrying
// raw_analysis or parse_error is treated as degraded; everything else
// is decoded into the fixed schema with unknown keys preserved.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding profile document: %w", err)
	}

	if _, degraded := fields["parse_error"]; degraded {
		var raw struct {
			RawAnalysis string `json:"raw_analysis"`
			ParseError  string `json:"parse_error"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decoding degraded profile: %w", err)
		}
		p.Data = nil
		p.RawAnalysis = raw.RawAnalysis
		p.ParseError = raw.ParseError
		return nil
	}

	type alias ProfileData
	var parsed alias
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("decoding profile fields: %w", err)
	}

	d := ProfileData(parsed)
	for key, value := range fields {
		if knownProfileKeys[key] {
			continue
		}
		if d.Extra == nil {
			d.Extra = make(map[string]json.RawMessage)
		}
		d.Extra[key] = value
	}

	p.Data = &d
	p.RawAnalysis = ""
	p.ParseError = ""
	return nil
}

// ExtraKeys returns the sorted unknown field names, mostly for
// diagnostics.
func (p *Profile) ExtraKeys() []string {
	if p.Data == nil || len(p.Data.Extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(p.Data.Extra))
	for k := range p.Data.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseProfile decodes backend analysis output into a Profile. A
// leading and trailing markdown code fence is stripped before decoding;
// undecodable output yields a degraded profile rather than an error.
func ParseProfile(raw string) *Profile {
	cleaned := StripFence(raw)

	var p Profile
	if err := p.UnmarshalJSON([]byte(cleaned)); err != nil {
		return &Profile{
			RawAnalysis: cleaned,
			ParseError:  err.Error(),
		}
	}
	return &p
}

// StripFence removes one leading and one trailing markdown code fence
// from s, if present. Some backends wrap structured output in fences
// despite instructions not to.
func StripFence(s string) string {
	trimmed := strings.TrimSpace(s)

	if strings.HasPrefix(trimmed, "```") {
		if idx := strings.Index(trimmed, "\n"); idx >= 0 {
			trimmed = trimmed[idx+1:]
		} else {
			trimmed = strings.TrimPrefix(trimmed, "```")
		}
	}
	if strings.HasSuffix(strings.TrimSpace(trimmed), "```") {
		t := strings.TrimSpace(trimmed)
		trimmed = t[:strings.LastIndex(t, "```")]
	}

	return strings.TrimSpace(trimmed)
}
