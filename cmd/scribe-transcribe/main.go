package main

import (
	"context"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"scribe/internal/bus"
	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/transcribe"
	"scribe/pkg/executor"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	cfgFile := cli.StringP("config", "c", "", "YAML config file")
	input := cli.StringP("input", "i", "", "Recording to transcribe")
	output := cli.StringP("output", "o", "", "Transcript output path")
	model := cli.StringP("model", "m", "", "Whisper model path")
	engine := cli.String("engine", "", "Transcription engine: whisper or cli")
	chunk := cli.Duration("chunk", 0, "Chunk length")
	format := cli.String("format", "", "Chunk format: wav, mp3, ogg or opus")
	onFailure := cli.String("on-failure", "", "Chunk failure policy: abort, skip or retry")
	keep := cli.Bool("keep-chunks", true, "Keep chunk files after transcription")
	translate := cli.Bool("translate", false, "Translate speech to English")
	prompt := cli.String("prompt", "", "Initial prompt for the decoder (names, jargon)")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	logging.Setup(*logLevel)
	godotenv.Load(*envFile)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}
	cfg.ApplyEnv(os.LookupEnv)
	if !cli.CommandLine.Changed("log") && cfg.Logging.Level != "" {
		logging.Setup(cfg.Logging.Level)
	}

	t := &cfg.Transcribe
	if *input != "" {
		t.Input = *input
	}
	if *output != "" {
		t.Output = *output
	}
	if *model != "" {
		t.ModelPath = *model
	}
	if *engine != "" {
		t.Engine = *engine
	}
	if *chunk > 0 {
		t.ChunkLength = *chunk
	}
	if *format != "" {
		t.ChunkFormat = *format
	}
	if *onFailure != "" {
		t.OnFailure = *onFailure
	}
	if *translate {
		t.Translate = true
	}
	if *prompt != "" {
		t.Prompt = *prompt
	}
	if cli.CommandLine.Changed("keep-chunks") {
		t.Cleanup = !*keep
	}
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid config", "err", err)
		os.Exit(1)
	}

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	t := cfg.Transcribe

	if _, err := os.Stat(t.Input); err != nil {
		log.Error("Input file not found", "path", t.Input)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exec := executor.New()
	eng, err := transcribe.NewEngine(t, exec)
	if err != nil {
		log.Error("Failed to load transcription engine", "engine", t.Engine, "err", err)
		return 1
	}
	defer eng.Close()

	p := &transcribe.Pipeline{
		Splitter:    transcribe.NewTools(exec, t.FFmpegPath, t.FFprobePath),
		Engine:      eng,
		ChunkDir:    t.ChunkDir,
		ChunkLength: t.ChunkLength,
		Format:      transcribe.Format(t.ChunkFormat),
		Policy:      transcribe.Policy(t.OnFailure),
		Cleanup:     t.Cleanup,
	}

	log.Info("Transcribing", "input", t.Input, "chunk", t.ChunkLength, "engine", t.Engine)
	out, err := p.Run(ctx, t.Input)
	if err != nil {
		log.Error("Transcription failed", "err", err)
		return 1
	}
	if len(out.Gaps) > 0 {
		log.Warn("Transcript has gaps", "skipped", len(out.Gaps))
	}

	fmt.Println("\nFull Transcription:")
	fmt.Println(out.Transcript)

	if err := transcribe.WriteTranscript(t.Output, out.Transcript); err != nil {
		log.Error("Failed to write transcript", "path", t.Output, "err", err)
		return 1
	}
	log.Info("Transcript saved", "path", t.Output, "windows", len(out.Windows), "duration", out.Duration)

	pub, err := bus.Dial(cfg.Bus.URL, "scribe-transcribe")
	if err != nil {
		log.Warn("Failed to reach bus", "err", err)
		return 0
	}
	defer pub.Close()
	if err := pub.Publish(bus.KindTranscript, t.Output); err != nil {
		log.Warn("Failed to publish", "err", err)
	}
	return 0
}
