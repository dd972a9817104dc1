package mailbox

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/orenp/quill/internal/textutil"
)

// minExportBody is the minimum body length worth keeping as a writing
// sample; very short messages carry no usable style signal.
const minExportBody = 20

// progressEvery controls how often Export reports scan progress.
const progressEvery = 50

// ExportResult summarizes one export run.
type ExportResult struct {
	Scanned  int
	Exported int
	Skipped  int
	Errored  int
}

// ProgressFunc receives periodic scan progress during an export.
type ProgressFunc func(scanned, exported int)

// fileUnsafeChars matches characters not allowed in exported filenames.
var fileUnsafeChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SampleFilename builds the canonical exported sample filename:
// from_<YYYYMMDD>_<sanitized-subject-up-to-60-chars>.txt. Identical
// sender/date/subject always produce the same name, which is what makes
// re-exports idempotent.
func SampleFilename(msg Message) string {
	subject := msg.Subject
	if subject == "" {
		subject = "no_subject"
	}

	safeSubject := fileUnsafeChars.ReplaceAllString(subject, "_")
	safeSubject = strings.TrimSpace(textutil.Truncate(safeSubject, 60))

	return fmt.Sprintf(
		"from_%s_%s.txt", msg.Received.Format("20060102"), safeSubject,
	)
}

// sampleContent formats the exported sample file: a header block
// followed by the raw body. The file always starts with the literal
// "From:" line.
func sampleContent(msg Message) string {
	return fmt.Sprintf(
		"From: %s <%s>\nSubject: %s\nReceived: %s\n%s\n\n%s\n",
		msg.SenderName,
		msg.SenderAddr,
		msg.Subject,
		msg.Received.Format("2006-01-02 15:04:05"),
		strings.Repeat("=", 50),
		msg.Body,
	)
}

// Export fetches messages from sender via mbox and writes them as
// writing sample files under dir. Existing files are skipped so
// repeated runs are idempotent; a single failed message logs a warning
// and counts toward Errored without aborting the batch.
func Export(
	ctx context.Context,
	mbox Mailbox,
	sender string,
	dir string,
	max int,
	progress ProgressFunc,
) (ExportResult, error) {
	var result ExportResult

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("creating samples directory %s: %w", dir, err)
	}

	messages, err := mbox.FetchFromSender(ctx, sender, max)
	if err != nil {
		return result, fmt.Errorf("fetching messages from %s: %w", sender, err)
	}

	for _, msg := range messages {
		result.Scanned++
		if progress != nil && result.Scanned%progressEvery == 0 {
			progress(result.Scanned, result.Exported)
		}

		if len(strings.TrimSpace(msg.Body)) < minExportBody {
			continue
		}

		path := filepath.Join(dir, SampleFilename(msg))

		if _, err := os.Stat(path); err == nil {
			result.Skipped++
			continue
		}

		if err := os.WriteFile(path, []byte(sampleContent(msg)), 0o644); err != nil {
			log.Printf("warning: could not write sample %s: %v", path, err)
			result.Errored++
			continue
		}

		result.Exported++
	}

	return result, nil
}
