package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"scribe/pkg/executor"
)

type call struct {
	name string
	args []string
}

type fakeExec struct {
	calls  []call
	stdout string
	err    error
}

func (f *fakeExec) Execute(_ context.Context, name string, args ...string) (executor.Result, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if f.err != nil {
		return executor.Result{ExitCode: 1, Stderr: "boom"}, f.err
	}
	return executor.Result{Stdout: f.stdout}, nil
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDuration(t *testing.T) {
	input := touch(t, t.TempDir(), "system_audio_recording.wav")
	exec := &fakeExec{stdout: "65.250000\n"}
	tools := NewTools(exec, "ffmpeg", "ffprobe")

	got, err := tools.Duration(context.Background(), input)
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if got != 65250*time.Millisecond {
		t.Errorf("Duration() = %v, want 65.25s", got)
	}

	if len(exec.calls) != 1 || exec.calls[0].name != "ffprobe" {
		t.Fatalf("calls = %+v", exec.calls)
	}
	if last := exec.calls[0].args[len(exec.calls[0].args)-1]; last != input {
		t.Errorf("ffprobe input = %q, want %q", last, input)
	}
}

func TestDurationMissingFile(t *testing.T) {
	exec := &fakeExec{stdout: "10"}
	tools := NewTools(exec, "ffmpeg", "ffprobe")

	_, err := tools.Duration(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	if !errors.Is(err, ErrProbe) {
		t.Fatalf("error = %v, want ErrProbe", err)
	}
	var pe *ProbeError
	if !errors.As(err, &pe) {
		t.Fatalf("error %T is not *ProbeError", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("ffprobe should not run for a missing file")
	}
}

func TestDurationProbeFailure(t *testing.T) {
	input := touch(t, t.TempDir(), "in.wav")

	tests := []struct {
		name string
		exec *fakeExec
	}{
		{"non-zero exit", &fakeExec{err: errors.New("exit status 1")}},
		{"garbage output", &fakeExec{stdout: "N/A\n"}},
		{"negative", &fakeExec{stdout: "-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTools(tt.exec, "ffmpeg", "ffprobe").Duration(context.Background(), input)
			if !errors.Is(err, ErrProbe) {
				t.Errorf("error = %v, want ErrProbe", err)
			}
		})
	}
}

func TestExtractArgs(t *testing.T) {
	exec := &fakeExec{}
	tools := NewTools(exec, "/opt/bin/ffmpeg", "ffprobe")
	w := Window{Start: 60 * time.Second, Length: 30 * time.Second}

	if err := tools.Extract(context.Background(), "in.wav", w, FormatWAV, "chunks/chunk_60.wav"); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	c := exec.calls[0]
	if c.name != "/opt/bin/ffmpeg" {
		t.Errorf("binary = %q", c.name)
	}
	joined := strings.Join(c.args, " ")
	for _, want := range []string{"-i in.wav", "-ss 60", "-t 30", "-c:a pcm_s16le", "-ar 16000", "-ac 1"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
	if c.args[len(c.args)-1] != "chunks/chunk_60.wav" {
		t.Errorf("output = %q", c.args[len(c.args)-1])
	}
	if !slices.Contains(c.args, "-y") {
		t.Error("ffmpeg must overwrite existing chunks")
	}
}

func TestExtractCodecs(t *testing.T) {
	tests := []struct {
		format Format
		codec  string
	}{
		{FormatWAV, "pcm_s16le"},
		{FormatMP3, "libmp3lame"},
		{FormatOgg, "libvorbis"},
		{FormatOpus, "libopus"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			args := tt.format.codecArgs()
			i := slices.Index(args, "-c:a")
			if i < 0 || args[i+1] != tt.codec {
				t.Errorf("codecArgs() = %v, want codec %s", args, tt.codec)
			}
		})
	}
}

func TestExtractFailure(t *testing.T) {
	exec := &fakeExec{err: errors.New("exit status 1")}
	w := Window{Start: 0, Length: 30 * time.Second}

	err := NewTools(exec, "ffmpeg", "ffprobe").Extract(context.Background(), "in.wav", w, FormatWAV, "out.wav")
	if !errors.Is(err, ErrSplit) {
		t.Fatalf("error = %v, want ErrSplit", err)
	}
	var se *SplitError
	if !errors.As(err, &se) || se.Window != w {
		t.Errorf("SplitError window = %+v, want %v", se, w)
	}
}
