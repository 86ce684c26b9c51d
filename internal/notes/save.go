package notes

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Filename names the notes of a run after its local start time, to the second.
func Filename(t time.Time) string {
	return "meeting_notes_" + t.Format("20060102_150405") + ".md"
}

// ReadTranscript loads the transcript with surrounding whitespace removed.
func ReadTranscript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes text verbatim.
func Save(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("save notes: %w", err)
	}
	return nil
}
