package transcribe

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Policy decides what a failed chunk does to the run.
type Policy string

const (
	PolicyAbort Policy = "abort" // stop the run on the first failure
	PolicySkip  Policy = "skip"  // leave the window out and keep going
	PolicyRetry Policy = "retry" // try once more, then abort
)

// Splitter probes the input and materialises windows of it.
type Splitter interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
	Extract(ctx context.Context, input string, w Window, format Format, out string) error
}

type Pipeline struct {
	Splitter    Splitter
	Engine      Engine
	ChunkDir    string
	ChunkLength time.Duration
	Format      Format
	Policy      Policy
	Cleanup     bool // remove each chunk once transcribed
}

// Outcome is the result of one run.
type Outcome struct {
	Transcript string
	Duration   time.Duration
	Windows    []Window
	Gaps       []Window // windows left out under PolicySkip
}

// Run splits input into windows, transcribes them strictly in start order
// and assembles the transcript.
func (p *Pipeline) Run(ctx context.Context, input string) (Outcome, error) {
	if p.ChunkLength <= 0 {
		return Outcome{}, fmt.Errorf("chunk length must be positive, got %v", p.ChunkLength)
	}

	duration, err := p.Splitter.Duration(ctx, input)
	if err != nil {
		return Outcome{}, err
	}

	windows := ChunkBounds(duration, p.ChunkLength)
	log.Info("Probed input", "path", input, "duration", duration, "chunks", len(windows))

	if err := os.MkdirAll(p.ChunkDir, 0o755); err != nil {
		return Outcome{}, fmt.Errorf("create chunk dir: %w", err)
	}

	out := Outcome{Duration: duration, Windows: windows}
	texts := make([]string, 0, len(windows))

	for i, w := range windows {
		chunk := filepath.Join(p.ChunkDir, w.Name(p.Format.Ext()))

		if err := p.Splitter.Extract(ctx, input, w, p.Format, chunk); err != nil {
			return Outcome{}, err
		}

		log.Info("Transcribing chunk", "n", i+1, "of", len(windows), "chunk", chunk)

		text, err := p.transcribe(ctx, w, chunk)
		p.cleanup(chunk)
		if err != nil {
			if p.Policy == PolicySkip {
				log.Warn("Skipping chunk", "chunk", chunk, "err", err)
				out.Gaps = append(out.Gaps, w)
				continue
			}
			return Outcome{}, err
		}

		log.Debug("Chunk text", "chunk", chunk, "text", text)
		texts = append(texts, text)
	}

	out.Transcript = Assemble(texts)
	return out, nil
}

func (p *Pipeline) transcribe(ctx context.Context, w Window, chunk string) (string, error) {
	text, err := p.Engine.Transcribe(ctx, chunk)
	if err != nil && p.Policy == PolicyRetry {
		log.Warn("Retrying chunk", "chunk", chunk, "err", err)
		text, err = p.Engine.Transcribe(ctx, chunk)
	}
	if err != nil {
		return "", &TranscriptionError{Window: w, Chunk: chunk, Err: err}
	}
	return text, nil
}

func (p *Pipeline) cleanup(chunk string) {
	if !p.Cleanup {
		return
	}
	if err := os.Remove(chunk); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Failed to remove chunk", "chunk", chunk, "err", err)
	}
}

// Assemble joins chunk texts in order with single spaces and trims the ends.
func Assemble(texts []string) string {
	return strings.TrimSpace(strings.Join(texts, " "))
}

// WriteTranscript persists the assembled transcript verbatim.
func WriteTranscript(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
