package executor

import "context"

// Result is what a finished external command left behind.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs external commands such as ffmpeg and ffprobe.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (Result, error)
}
