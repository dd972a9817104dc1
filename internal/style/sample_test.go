package style

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSample(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadSamples(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "a.txt", "  hello world  \n")
	writeSample(t, dir, "b.md", "markdown sample")
	writeSample(t, dir, "nested/c.eml", "exported mail body")
	writeSample(t, dir, "ignored.pdf", "not a sample")
	writeSample(t, dir, "empty.txt", "   \n\t ")

	samples, err := LoadSamples(dir)
	if err != nil {
		t.Fatalf("LoadSamples: %v", err)
	}

	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	byName := make(map[string]string)
	for _, s := range samples {
		byName[s.Filename] = s.Content
	}

	if byName["a.txt"] != "hello world" {
		t.Errorf("a.txt content = %q, want trimmed %q", byName["a.txt"], "hello world")
	}
	if _, ok := byName["c.eml"]; !ok {
		t.Error("expected nested c.eml to be loaded")
	}
	if _, ok := byName["empty.txt"]; ok {
		t.Error("empty file should be dropped")
	}
	if _, ok := byName["ignored.pdf"]; ok {
		t.Error("unrecognized extension should be ignored")
	}
}

func TestLoadSamplesInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "bad.txt", "valid \xff\xfe text")

	samples, err := LoadSamples(dir)
	if err != nil {
		t.Fatalf("LoadSamples: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(samples))
	}
	for _, r := range samples[0].Content {
		if r == 0xFFFD {
			return
		}
	}
	t.Error("expected undecodable bytes to be substituted")
}

func TestLoadSamplesMissingDir(t *testing.T) {
	samples, err := LoadSamples(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing directory should not error, got %v", err)
	}
	if len(samples) != 0 {
		t.Fatalf("expected no samples, got %d", len(samples))
	}
}

func TestHasSampleExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"note.txt", true},
		{"mail.EML", true},
		{"page.html", true},
		{"doc.MD", true},
		{"old.msg", true},
		{"image.png", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := hasSampleExtension(tt.name); got != tt.want {
			t.Errorf("hasSampleExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
