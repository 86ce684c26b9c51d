package notes

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoNotes means the model produced nothing worth saving.
var ErrNoNotes = errors.New("no notes produced")

// Summarizer turns a transcript file into a timestamped markdown note.
type Summarizer struct {
	Backend   Backend
	OutputDir string
	Docx      bool             // also write a .docx next to the markdown
	Now       func() time.Time // defaults to time.Now
}

// Run reads the transcript, calls the model once and saves the answer. It
// returns the markdown path, or ErrNoNotes when the reply was the
// NoResponse sentinel, in which case nothing is written.
func (s *Summarizer) Run(ctx context.Context, transcriptPath string) (string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	started := now()

	transcript, err := ReadTranscript(transcriptPath)
	if err != nil {
		return "", err
	}
	if transcript == "" {
		log.Warn("Transcript is empty", "path", transcriptPath)
	}

	log.Info("Processing transcript", "path", transcriptPath, "chars", len(transcript))

	reply := CallModel(ctx, s.Backend, BuildPrompt(transcript))
	text := ExtractText(reply)
	if text == NoResponse {
		return "", ErrNoNotes
	}

	name := Filename(started)
	path := filepath.Join(s.OutputDir, name)
	if err := Save(path, text); err != nil {
		return "", err
	}

	if s.Docx {
		docxPath := strings.TrimSuffix(path, ".md") + ".docx"
		title := "Meeting notes " + started.Format("2006-01-02 15:04")
		if err := WriteDocx(title, text, docxPath); err != nil {
			return path, fmt.Errorf("write docx: %w", err)
		}
		log.Info("Saved docx", "path", docxPath)
	}

	return path, nil
}
