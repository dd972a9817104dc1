package style

import (
	"encoding/json"
	"reflect"
	"testing"
)

const sampleProfileJSON = `{
	"tone": "warm but direct",
	"formality_level": 4,
	"sentence_structure": "short, punchy",
	"vocabulary_level": "everyday with technical terms",
	"greeting_patterns": ["Hi there,", "Hey,"],
	"closing_patterns": ["Cheers,", "Talk soon"],
	"unique_phrases": ["to be honest"],
	"terminology": ["sprint", "backlog"],
	"emotional_expression": {
		"agreement": "enthusiastic",
		"disagreement": "blunt but polite",
		"urgency": "short sentences",
		"humor": "dry asides"
	},
	"punctuation_habits": "frequent dashes",
	"paragraph_style": "short paragraphs",
	"language_quirks": ["lowercase greetings"],
	"response_patterns": "acknowledge then answer",
	"temper_indicators": "gets terse",
	"persuasion_style": "leads with data",
	"representative_snippets": ["to be honest, this works"]
}`

func TestParseProfile(t *testing.T) {
	p := ParseProfile(sampleProfileJSON)

	if p.Degraded() {
		t.Fatalf("expected parsed profile, got degraded: %s", p.ParseError)
	}
	if p.Tone() != "warm but direct" {
		t.Errorf("Tone = %q", p.Tone())
	}
	formality, ok := p.Formality()
	if !ok || formality != 4 {
		t.Errorf("Formality = %d, %v; want 4, true", formality, ok)
	}
	if len(p.Data.GreetingPatterns) != 2 {
		t.Errorf("GreetingPatterns = %v", p.Data.GreetingPatterns)
	}
	if p.Data.EmotionalExpression.Humor != "dry asides" {
		t.Errorf("EmotionalExpression.Humor = %q", p.Data.EmotionalExpression.Humor)
	}
}

func TestParseProfileStripsFence(t *testing.T) {
	fenced := "```json\n" + sampleProfileJSON + "\n```"

	plain := ParseProfile(sampleProfileJSON)
	stripped := ParseProfile(fenced)

	if stripped.Degraded() {
		t.Fatalf("fenced payload should parse, got: %s", stripped.ParseError)
	}
	if !reflect.DeepEqual(plain.Data, stripped.Data) {
		t.Error("fenced and unfenced payloads should parse identically")
	}
}

func TestParseProfileDegraded(t *testing.T) {
	raw := "I could not produce JSON, sorry about that."
	p := ParseProfile(raw)

	if !p.Degraded() {
		t.Fatal("expected degraded profile")
	}
	if p.RawAnalysis != raw {
		t.Errorf("RawAnalysis = %q, want original text", p.RawAnalysis)
	}
	if p.ParseError == "" {
		t.Error("expected non-empty ParseError")
	}
	if p.Tone() != "unknown" {
		t.Errorf("degraded Tone = %q, want unknown", p.Tone())
	}
	if _, ok := p.Formality(); ok {
		t.Error("degraded profile should not report a formality level")
	}
}

func TestProfileRoundTripWithExtras(t *testing.T) {
	var withExtra map[string]json.RawMessage
	if err := json.Unmarshal([]byte(sampleProfileJSON), &withExtra); err != nil {
		t.Fatal(err)
	}
	withExtra["signature_style"] = json.RawMessage(`"initials only"`)
	data, err := json.Marshal(withExtra)
	if err != nil {
		t.Fatal(err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(p.Data.Extra["signature_style"]) != `"initials only"` {
		t.Fatalf("extra field not preserved: %v", p.ExtraKeys())
	}

	out, err := json.Marshal(&p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var p2 Profile
	if err := json.Unmarshal(out, &p2); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if !reflect.DeepEqual(p.Data, p2.Data) {
		t.Error("profile did not round trip losslessly")
	}
}

func TestDegradedProfileRoundTrip(t *testing.T) {
	p := &Profile{RawAnalysis: "raw text", ParseError: "unexpected token"}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}

	var p2 Profile
	if err := json.Unmarshal(data, &p2); err != nil {
		t.Fatal(err)
	}
	if !p2.Degraded() {
		t.Fatal("round-tripped profile should stay degraded")
	}
	if p2.RawAnalysis != "raw text" || p2.ParseError != "unexpected token" {
		t.Errorf("degraded fields lost: %+v", p2)
	}
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFence(tt.in); got != tt.want {
				t.Errorf("StripFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
