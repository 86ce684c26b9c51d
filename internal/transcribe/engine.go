package transcribe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"scribe/internal/config"
	"scribe/pkg/executor"
	"scribe/pkg/stt"
)

// Engine turns one chunk file into text.
type Engine interface {
	Transcribe(ctx context.Context, chunkPath string) (string, error)
	Close() error
}

// WhisperEngine runs whisper.cpp in process through its Go bindings.
type WhisperEngine struct {
	tr  *stt.Transcriber
	opt stt.Options
}

func NewWhisperEngine(modelPath string, opt stt.Options) (*WhisperEngine, error) {
	tr, err := stt.NewTranscriber(modelPath)
	if err != nil {
		return nil, err
	}
	return &WhisperEngine{tr: tr, opt: opt}, nil
}

func (e *WhisperEngine) Transcribe(ctx context.Context, chunkPath string) (string, error) {
	res, err := e.tr.TranscribeFile(ctx, chunkPath, e.opt)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func (e *WhisperEngine) Close() error { return e.tr.Close() }

// CLIEngine runs a whisper.cpp binary per chunk and reads the text from
// stdout.
type CLIEngine struct {
	exec   executor.Executor
	binary string
	model  string
	opt    stt.Options
}

func NewCLIEngine(exec executor.Executor, binary, model string, opt stt.Options) *CLIEngine {
	return &CLIEngine{
		exec:   exec,
		binary: binary,
		model:  model,
		opt:    opt,
	}
}

func (e *CLIEngine) Transcribe(ctx context.Context, chunkPath string) (string, error) {
	lang := e.opt.Language
	if lang == "" {
		lang = "auto"
	}
	args := []string{
		"-m", e.model,
		"-f", chunkPath,
		"-l", lang,
		"-nt", // no timestamps
		"-np", // no progress / system info
	}
	if e.opt.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(e.opt.Threads))
	}
	if e.opt.TranslateToEn {
		args = append(args, "-tr")
	}
	if e.opt.BeamSize > 0 {
		args = append(args, "-bs", strconv.Itoa(e.opt.BeamSize))
	}
	if e.opt.Temperature != 0 {
		args = append(args, "-tp", strconv.FormatFloat(float64(e.opt.Temperature), 'f', -1, 32))
	}
	if e.opt.InitialPrompt != "" {
		args = append(args, "--prompt", e.opt.InitialPrompt)
	}

	res, err := e.exec.Execute(ctx, e.binary, args...)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(res.Stdout), " "), nil
}

func (e *CLIEngine) Close() error { return nil }

// DecodingOptions maps the transcribe config onto whisper decoding options.
func DecodingOptions(c config.TranscribeConfig) stt.Options {
	return stt.Options{
		Language:      c.Language,
		TranslateToEn: c.Translate,
		Threads:       c.Threads,
		InitialPrompt: c.Prompt,
		BeamSize:      c.BeamSize,
		Temperature:   c.Temperature,
	}
}

// NewEngine builds the engine c.Engine names.
func NewEngine(c config.TranscribeConfig, exec executor.Executor) (Engine, error) {
	opt := DecodingOptions(c)
	switch c.Engine {
	case config.EngineCLI:
		return NewCLIEngine(exec, c.BinaryPath, c.ModelPath, opt), nil
	case config.EngineWhisper, "":
		e, err := NewWhisperEngine(c.ModelPath, opt)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", c.Engine)
	}
}
