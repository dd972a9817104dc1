package style

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// SampleExtensions lists the file extensions recognized as writing
// samples: plain text, mail exports, lightweight markup, and hypertext.
var SampleExtensions = []string{".txt", ".eml", ".msg", ".md", ".html"}

// Sample is one normalized writing sample loaded from disk. Samples are
// transient: they exist only between loading and analysis.
type Sample struct {
	// Filename identifies the sample for traceability.
	Filename string

	// Content is the decoded, whitespace-trimmed sample text.
	Content string
}

// hasSampleExtension reports whether name carries one of the accepted
// sample file extensions.
func hasSampleExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SampleExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadSamples recursively scans dir for writing sample files and loads
// them in walk order. Undecodable byte sequences are substituted rather
// than rejected, empty files are dropped, and a single unreadable file
// logs a warning without aborting the batch.
func LoadSamples(dir string) ([]Sample, error) {
	var samples []Sample

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				log.Printf("warning: skipping unreadable directory %s: %v", path, err)
				return fs.SkipDir
			}
			log.Printf("warning: could not read %s: %v", path, err)
			return nil
		}
		if d.IsDir() || !hasSampleExtension(d.Name()) {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			log.Printf("warning: could not read %s: %v", path, readErr)
			return nil
		}

		content := strings.TrimSpace(strings.ToValidUTF8(string(data), "�"))
		if content == "" {
			log.Printf("warning: skipping empty sample %s", path)
			return nil
		}

		samples = append(samples, Sample{
			Filename: filepath.Base(path),
			Content:  content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return samples, nil
}
