package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidateDefaults(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Capture.DeviceQuery != "BlackHole" {
		t.Errorf("DeviceQuery = %q, want BlackHole", cfg.Capture.DeviceQuery)
	}
	if cfg.Capture.SampleRate != 44100 || cfg.Capture.Channels != 2 {
		t.Errorf("capture format = %d Hz x %d, want 44100 x 2", cfg.Capture.SampleRate, cfg.Capture.Channels)
	}
	if cfg.Capture.Output != DefaultRecording {
		t.Errorf("Capture.Output = %q, want %q", cfg.Capture.Output, DefaultRecording)
	}
	if cfg.Transcribe.Input != DefaultRecording || cfg.Transcribe.Output != DefaultTranscript {
		t.Errorf("transcribe paths = %q -> %q", cfg.Transcribe.Input, cfg.Transcribe.Output)
	}
	if cfg.Transcribe.ChunkDir != DefaultChunkDir {
		t.Errorf("ChunkDir = %q, want %q", cfg.Transcribe.ChunkDir, DefaultChunkDir)
	}
	if cfg.Transcribe.ChunkLength != 30*time.Second {
		t.Errorf("ChunkLength = %v, want 30s", cfg.Transcribe.ChunkLength)
	}
	if cfg.Summary.Input != DefaultTranscript {
		t.Errorf("Summary.Input = %q, want %q", cfg.Summary.Input, DefaultTranscript)
	}
	if cfg.Summary.OpenAI.Model != "sonar" {
		t.Errorf("OpenAI.Model = %q, want sonar", cfg.Summary.OpenAI.Model)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative sample rate", func(c *Config) { c.Capture.SampleRate = -1 }, true},
		{"negative chunk length", func(c *Config) { c.Transcribe.ChunkLength = -time.Second }, true},
		{"unknown chunk format", func(c *Config) { c.Transcribe.ChunkFormat = "flac" }, true},
		{"unknown failure policy", func(c *Config) { c.Transcribe.OnFailure = "ignore" }, true},
		{"unknown engine", func(c *Config) { c.Transcribe.Engine = "vosk" }, true},
		{"cli engine with mp3 chunks", func(c *Config) {
			c.Transcribe.Engine = EngineCLI
			c.Transcribe.ChunkFormat = "mp3"
		}, true},
		{"cli engine with wav chunks", func(c *Config) { c.Transcribe.Engine = EngineCLI }, false},
		{"unknown provider", func(c *Config) { c.Summary.Provider = "claude" }, true},
		{"gemini provider", func(c *Config) { c.Summary.Provider = ProviderGemini }, false},
		{"negative beam size", func(c *Config) { c.Transcribe.BeamSize = -1 }, true},
		{"temperature above one", func(c *Config) { c.Transcribe.Temperature = 1.5 }, true},
		{"beam search with temperature", func(c *Config) {
			c.Transcribe.BeamSize = 5
			c.Transcribe.Temperature = 0.2
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMaxDurationGrowsBuffer(t *testing.T) {
	cfg := &Config{Capture: CaptureConfig{MaxDuration: 6 * time.Hour}}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Capture.BufferDuration != 6*time.Hour {
		t.Errorf("BufferDuration = %v, want 6h", cfg.Capture.BufferDuration)
	}
}

func TestRequireSummary(t *testing.T) {
	tests := []struct {
		name    string
		summary SummaryConfig
		wantErr bool
	}{
		{"missing key", SummaryConfig{OpenAI: OpenAIConfig{APIURL: "https://api.example.com/chat/completions"}}, true},
		{"missing url", SummaryConfig{OpenAI: OpenAIConfig{APIKey: "k"}}, true},
		{"openai complete", SummaryConfig{OpenAI: OpenAIConfig{APIKey: "k", APIURL: "https://api.example.com"}}, false},
		{"gemini missing key", SummaryConfig{Provider: ProviderGemini}, true},
		{"gemini complete", SummaryConfig{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Summary: tt.summary}
			if err := cfg.Validate(); err != nil {
				t.Fatal(err)
			}
			err := cfg.RequireSummary()
			if (err != nil) != tt.wantErr {
				t.Errorf("RequireSummary() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scribe.yaml")
	content := `
capture:
  device_query: "Loopback"
  max_duration: 90m
transcribe:
  chunk_length: 45s
  chunk_format: ogg
  on_failure: skip
  translate: true
  initial_prompt: "Weekly sync, Kubernetes, Postgres."
  beam_size: 5
  temperature: 0.2
summary:
  provider: gemini
  openai:
    api_url: "https://api.perplexity.ai/chat/completions"
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Capture.DeviceQuery != "Loopback" {
		t.Errorf("DeviceQuery = %q, want Loopback", cfg.Capture.DeviceQuery)
	}
	if cfg.Capture.MaxDuration != 90*time.Minute {
		t.Errorf("MaxDuration = %v, want 90m", cfg.Capture.MaxDuration)
	}
	if cfg.Transcribe.ChunkLength != 45*time.Second {
		t.Errorf("ChunkLength = %v, want 45s", cfg.Transcribe.ChunkLength)
	}
	if cfg.Transcribe.ChunkFormat != "ogg" || cfg.Transcribe.OnFailure != "skip" {
		t.Errorf("transcribe = %+v", cfg.Transcribe)
	}
	if !cfg.Transcribe.Translate || cfg.Transcribe.BeamSize != 5 || cfg.Transcribe.Temperature != 0.2 {
		t.Errorf("decoding = translate %v beam %d temperature %v", cfg.Transcribe.Translate, cfg.Transcribe.BeamSize, cfg.Transcribe.Temperature)
	}
	if cfg.Transcribe.Prompt != "Weekly sync, Kubernetes, Postgres." {
		t.Errorf("Prompt = %q", cfg.Transcribe.Prompt)
	}
	if cfg.Summary.Provider != ProviderGemini {
		t.Errorf("Provider = %q, want gemini", cfg.Summary.Provider)
	}
	if cfg.Summary.OpenAI.APIURL != "https://api.perplexity.ai/chat/completions" {
		t.Errorf("APIURL = %q", cfg.Summary.OpenAI.APIURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load(\"\") returned nil config")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml")); err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PERPLEXITY_API_KEY": "pplx-key",
		"PERPLEXITY_API_URL": "https://api.perplexity.ai/chat/completions",
		"SCRIBE_DEVICE":      "Soundflower",
		"SCRIBE_BUS_URL":     "ws://localhost:8092/ws",
		"PERPLEXITY_MODEL":   "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := &Config{}
	cfg.ApplyEnv(lookup)
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	if cfg.Summary.OpenAI.APIKey != "pplx-key" {
		t.Errorf("APIKey = %q", cfg.Summary.OpenAI.APIKey)
	}
	if cfg.Capture.DeviceQuery != "Soundflower" {
		t.Errorf("DeviceQuery = %q", cfg.Capture.DeviceQuery)
	}
	if cfg.Bus.URL != "ws://localhost:8092/ws" {
		t.Errorf("Bus.URL = %q", cfg.Bus.URL)
	}
	// empty variable keeps the default model
	if cfg.Summary.OpenAI.Model != "sonar" {
		t.Errorf("Model = %q, want sonar", cfg.Summary.OpenAI.Model)
	}
	if err := cfg.RequireSummary(); err != nil {
		t.Errorf("RequireSummary() error = %v", err)
	}
}
