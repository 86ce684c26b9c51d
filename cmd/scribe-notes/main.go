package main

import (
	"context"
	"errors"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"scribe/internal/bus"
	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/notes"
	"scribe/internal/notify"
	"scribe/internal/proxy"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	cfgFile := cli.StringP("config", "c", "", "YAML config file")
	input := cli.StringP("input", "i", "", "Transcript to summarize")
	outDir := cli.StringP("output-dir", "o", "", "Directory for the notes")
	provider := cli.StringP("provider", "p", "", "Model provider: openai or gemini")
	docx := cli.Bool("docx", false, "Also write the notes as .docx")
	socks := cli.String("proxy", "", "SOCKS5 proxy address for the API call")
	timeout := cli.Duration("timeout", 0, "Timeout for the API call (0 = none)")
	desktop := cli.Bool("notify", false, "Send a desktop notification when done")
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

	s := &cfg.Summary
	if *input != "" {
		s.Input = *input
	}
	if *outDir != "" {
		s.OutputDir = *outDir
	}
	if *provider != "" {
		s.Provider = *provider
	}
	if *docx {
		s.Docx = true
	}
	if *socks != "" {
		s.Proxy = *socks
	}
	if *timeout > 0 {
		s.Timeout = *timeout
	}
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid config", "err", err)
		os.Exit(1)
	}
	if err := cfg.RequireSummary(); err != nil {
		log.Error("Missing credentials", "err", err)
		os.Exit(1)
	}

	os.Exit(run(cfg, *desktop))
}

func run(cfg *config.Config, desktop bool) int {
	s := cfg.Summary

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := proxy.NewHTTPClient(s.Proxy, s.Timeout)
	if err != nil {
		log.Error("Failed to set up proxy", "proxy", s.Proxy, "err", err)
		return 1
	}

	backend, err := newBackend(ctx, s, client)
	if err != nil {
		log.Error("Failed to create backend", "provider", s.Provider, "err", err)
		return 1
	}

	sum := &notes.Summarizer{
		Backend:   backend,
		OutputDir: s.OutputDir,
		Docx:      s.Docx,
	}
	path, err := sum.Run(ctx, s.Input)
	switch {
	case errors.Is(err, notes.ErrNoNotes):
		log.Error("Failed to create markdown notes due to API error")
		return 1
	case err != nil && path == "":
		log.Error("Failed to create notes", "err", err)
		return 1
	case err != nil:
		log.Warn("Notes saved without docx", "err", err)
	}
	log.Info("Markdown notes saved", "path", path)

	if desktop {
		if err := notify.Desktop(ctx, "Meeting notes ready", path); err != nil {
			log.Warn("Failed to send notification", "err", err)
		}
	}

	pub, err := bus.Dial(cfg.Bus.URL, "scribe-notes")
	if err != nil {
		log.Warn("Failed to reach bus", "err", err)
		return 0
	}
	defer pub.Close()
	if err := pub.Publish(bus.KindNotes, path); err != nil {
		log.Warn("Failed to publish", "err", err)
	}
	return 0
}

func newBackend(ctx context.Context, s config.SummaryConfig, client *http.Client) (notes.Backend, error) {
	switch s.Provider {
	case config.ProviderGemini:
		return notes.NewGeminiBackend(ctx, s.Gemini.APIKey, s.Gemini.Model, "", client)
	default:
		return notes.NewOpenAIBackend(s.OpenAI.APIKey, s.OpenAI.APIURL, s.OpenAI.Model, client), nil
	}
}
