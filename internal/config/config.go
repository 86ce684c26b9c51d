package config

import (
	"fmt"
	"slices"
	"time"
)

// Hand-off files shared by the three stages.
const (
	DefaultRecording  = "system_audio_recording.wav"
	DefaultChunkDir   = "chunks"
	DefaultTranscript = "transcript.txt"
)

type Config struct {
	Capture    CaptureConfig    `yaml:"capture"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Summary    SummaryConfig    `yaml:"summary"`
	Bus        BusConfig        `yaml:"bus"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type CaptureConfig struct {
	DeviceQuery     string        `yaml:"device_query"`
	SampleRate      int           `yaml:"sample_rate"`
	Channels        int           `yaml:"channels"`
	FramesPerBuffer int           `yaml:"frames_per_buffer"`
	MaxDuration     time.Duration `yaml:"max_duration"`
	BufferDuration  time.Duration `yaml:"buffer_duration"`
	Output          string        `yaml:"output"`
	Cue             string        `yaml:"cue"`
	Socket          string        `yaml:"socket"`
}

type TranscribeConfig struct {
	Input       string        `yaml:"input"`
	Output      string        `yaml:"output"`
	ChunkDir    string        `yaml:"chunk_dir"`
	ChunkLength time.Duration `yaml:"chunk_length"`
	ChunkFormat string        `yaml:"chunk_format"`
	Cleanup     bool          `yaml:"cleanup"`
	OnFailure   string        `yaml:"on_failure"`
	Engine      string        `yaml:"engine"`
	ModelPath   string        `yaml:"model_path"`
	BinaryPath  string        `yaml:"binary_path"`
	Language    string        `yaml:"language"`
	Threads     int           `yaml:"threads"`
	Translate   bool          `yaml:"translate"`
	Prompt      string        `yaml:"initial_prompt"`
	BeamSize    int           `yaml:"beam_size"`
	Temperature float32       `yaml:"temperature"`
	FFmpegPath  string        `yaml:"ffmpeg_path"`
	FFprobePath string        `yaml:"ffprobe_path"`
}

type SummaryConfig struct {
	Provider  string        `yaml:"provider"`
	Input     string        `yaml:"input"`
	OutputDir string        `yaml:"output_dir"`
	Docx      bool          `yaml:"docx"`
	Proxy     string        `yaml:"proxy"`
	Timeout   time.Duration `yaml:"timeout"`
	OpenAI    OpenAIConfig  `yaml:"openai"`
	Gemini    GeminiConfig  `yaml:"gemini"`
}

// OpenAIConfig targets any chat-completions compatible endpoint.
type OpenAIConfig struct {
	APIKey string `yaml:"-"`
	APIURL string `yaml:"api_url"`
	Model  string `yaml:"model"`
}

type GeminiConfig struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"`
}

type BusConfig struct {
	URL string `yaml:"url"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	EngineWhisper = "whisper"
	EngineCLI     = "cli"
)

var (
	chunkFormats    = []string{"wav", "mp3", "ogg", "opus"}
	failurePolicies = []string{"abort", "skip", "retry"}
)

// Validate fills defaults and rejects values no stage can run with.
func (c *Config) Validate() error {
	if err := c.Capture.validate(); err != nil {
		return err
	}
	if err := c.Transcribe.validate(); err != nil {
		return err
	}
	if err := c.Summary.validate(); err != nil {
		return err
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	return nil
}

func (c *CaptureConfig) validate() error {
	if c.DeviceQuery == "" {
		c.DeviceQuery = "BlackHole"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 44100
	}
	if c.Channels == 0 {
		c.Channels = 2
	}
	if c.FramesPerBuffer == 0 {
		c.FramesPerBuffer = 1024
	}
	if c.BufferDuration == 0 {
		c.BufferDuration = 4 * time.Hour
	}
	if c.Output == "" {
		c.Output = DefaultRecording
	}
	if c.Socket == "" {
		c.Socket = "/tmp/scribe.sock"
	}

	if c.SampleRate < 0 {
		return fmt.Errorf("capture.sample_rate must be positive")
	}
	if c.Channels < 0 {
		return fmt.Errorf("capture.channels must be positive")
	}
	if c.FramesPerBuffer < 0 {
		return fmt.Errorf("capture.frames_per_buffer must be positive")
	}
	if c.MaxDuration < 0 || c.BufferDuration < 0 {
		return fmt.Errorf("capture durations must not be negative")
	}
	if c.MaxDuration > c.BufferDuration {
		c.BufferDuration = c.MaxDuration
	}
	return nil
}

func (c *TranscribeConfig) validate() error {
	if c.Input == "" {
		c.Input = DefaultRecording
	}
	if c.Output == "" {
		c.Output = DefaultTranscript
	}
	if c.ChunkDir == "" {
		c.ChunkDir = DefaultChunkDir
	}
	if c.ChunkLength == 0 {
		c.ChunkLength = 30 * time.Second
	}
	if c.ChunkFormat == "" {
		c.ChunkFormat = "wav"
	}
	if c.OnFailure == "" {
		c.OnFailure = "abort"
	}
	if c.Engine == "" {
		c.Engine = EngineWhisper
	}
	if c.ModelPath == "" {
		c.ModelPath = "models/ggml-base.bin"
	}
	if c.BinaryPath == "" {
		c.BinaryPath = "whisper-cli"
	}
	if c.Language == "" {
		c.Language = "auto"
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = "ffmpeg"
	}
	if c.FFprobePath == "" {
		c.FFprobePath = "ffprobe"
	}

	if c.ChunkLength < 0 {
		return fmt.Errorf("transcribe.chunk_length must be positive")
	}
	if c.BeamSize < 0 {
		return fmt.Errorf("transcribe.beam_size must not be negative")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("transcribe.temperature %v not in [0, 1]", c.Temperature)
	}
	if !slices.Contains(chunkFormats, c.ChunkFormat) {
		return fmt.Errorf("transcribe.chunk_format %q not one of %v", c.ChunkFormat, chunkFormats)
	}
	if !slices.Contains(failurePolicies, c.OnFailure) {
		return fmt.Errorf("transcribe.on_failure %q not one of %v", c.OnFailure, failurePolicies)
	}
	switch c.Engine {
	case EngineWhisper:
	case EngineCLI:
		if c.ChunkFormat != "wav" {
			return fmt.Errorf("transcribe.engine %q needs wav chunks", c.Engine)
		}
	default:
		return fmt.Errorf("transcribe.engine %q not supported", c.Engine)
	}
	return nil
}

func (c *SummaryConfig) validate() error {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Input == "" {
		c.Input = DefaultTranscript
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "sonar"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}

	if c.Provider != ProviderOpenAI && c.Provider != ProviderGemini {
		return fmt.Errorf("summary.provider %q not supported", c.Provider)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("summary.timeout must not be negative")
	}
	return nil
}

// RequireSummary checks the credentials the selected provider needs.
func (c *Config) RequireSummary() error {
	switch c.Summary.Provider {
	case ProviderGemini:
		if c.Summary.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
	default:
		if c.Summary.OpenAI.APIKey == "" {
			return fmt.Errorf("PERPLEXITY_API_KEY not set")
		}
		if c.Summary.OpenAI.APIURL == "" {
			return fmt.Errorf("PERPLEXITY_API_URL not set")
		}
	}
	return nil
}
