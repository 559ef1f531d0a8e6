package wizard

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"kokos-intake/internal/models"
)

const defaultExportName = "isletme"

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// Export returns the downloadable document for a completed wizard.
func (e *Engine) Export(now time.Time) (models.Export, error) {
	if !e.state.Complete {
		return models.Export{}, ErrIncomplete
	}
	return models.Export{
		Answers:            e.state.Answers.Clone(),
		ConditionalAnswers: e.state.ConditionalAnswers.Clone(),
		ExportedAt:         now.UTC(),
		Version:            models.ExportVersion,
	}, nil
}

// Payload builds the submission payload handed to the gateway.
func (e *Engine) Payload(now time.Time) (models.SubmissionPayload, error) {
	if !e.state.Complete {
		return models.SubmissionPayload{}, ErrIncomplete
	}
	return models.SubmissionPayload{
		Answers:            e.state.Answers.Clone(),
		ConditionalAnswers: e.state.ConditionalAnswers.Clone(),
		CompletedAt:        now.UTC(),
	}, nil
}

// ExportFilename names an export file after the business, falling back to
// a generic name when none was given.
func ExportFilename(businessName string, at time.Time) string {
	name := strings.TrimSpace(businessName)
	if name == models.Missing {
		name = ""
	}
	name = strings.Trim(unsafeFilenameChars.ReplaceAllString(name, "-"), "-")
	if name == "" {
		name = defaultExportName
	}
	return fmt.Sprintf("kok-os-intake-%s-%d.json", name, at.UnixMilli())
}
