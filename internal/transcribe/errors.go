package transcribe

import (
	"errors"
	"fmt"
)

var (
	ErrProbe         = errors.New("probe failed")
	ErrSplit         = errors.New("split failed")
	ErrTranscription = errors.New("transcription failed")
)

// ProbeError means the input duration could not be determined.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error        { return e.Err }
func (e *ProbeError) Is(target error) bool { return target == ErrProbe }

// SplitError means one window could not be extracted.
type SplitError struct {
	Window Window
	Output string
	Err    error
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("split %s into %s: %v", e.Window, e.Output, e.Err)
}

func (e *SplitError) Unwrap() error        { return e.Err }
func (e *SplitError) Is(target error) bool { return target == ErrSplit }

// TranscriptionError means the engine failed on one chunk.
type TranscriptionError struct {
	Window Window
	Chunk  string
	Err    error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcribe %s (%s): %v", e.Chunk, e.Window, e.Err)
}

func (e *TranscriptionError) Unwrap() error        { return e.Err }
func (e *TranscriptionError) Is(target error) bool { return target == ErrTranscription }
