package transcribe

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"scribe/pkg/executor"
)

// Format is the container chunks are written in.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatOgg  Format = "ogg"
	FormatOpus Format = "opus"
)

func (f Format) Ext() string { return "." + string(f) }

// Every chunk is mono 16 kHz, the rate whisper runs at, so decoding later
// only has to reinterpret samples.
func (f Format) codecArgs() []string {
	base := []string{"-ac", "1", "-ar", "16000"}
	switch f {
	case FormatMP3:
		return append(base, "-c:a", "libmp3lame", "-q:a", "2")
	case FormatOgg:
		return append(base, "-c:a", "libvorbis", "-q:a", "5")
	case FormatOpus:
		return append(base, "-c:a", "libopus", "-b:a", "32k")
	default:
		return append(base, "-c:a", "pcm_s16le")
	}
}

// Tools shells out to ffprobe and ffmpeg.
type Tools struct {
	Exec    executor.Executor
	FFmpeg  string
	FFprobe string
}

func NewTools(exec executor.Executor, ffmpeg, ffprobe string) Tools {
	return Tools{Exec: exec, FFmpeg: ffmpeg, FFprobe: ffprobe}
}

// Duration asks ffprobe for the container duration of path.
func (t Tools) Duration(ctx context.Context, path string) (time.Duration, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, &ProbeError{Path: path, Err: err}
	}

	res, err := t.Exec.Execute(ctx, t.FFprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, &ProbeError{Path: path, Err: err}
	}

	out := strings.TrimSpace(res.Stdout)
	secs, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, &ProbeError{Path: path, Err: fmt.Errorf("parse duration %q: %w", out, err)}
	}
	if secs < 0 {
		return 0, &ProbeError{Path: path, Err: fmt.Errorf("negative duration %v", secs)}
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// Extract writes window w of input to out as an independent file.
func (t Tools) Extract(ctx context.Context, input string, w Window, format Format, out string) error {
	args := []string{
		"-y",
		"-v", "error",
		"-i", input,
		"-ss", seconds(w.Start),
		"-t", seconds(w.Length),
	}
	args = append(args, format.codecArgs()...)
	args = append(args, out)

	if _, err := t.Exec.Execute(ctx, t.FFmpeg, args...); err != nil {
		return &SplitError{Window: w, Output: out, Err: err}
	}
	return nil
}
