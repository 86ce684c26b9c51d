package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file. An empty path yields a zero Config so
// every value comes from defaults and the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set("SCRIBE_DEVICE", &c.Capture.DeviceQuery)
	set("WHISPER_MODEL", &c.Transcribe.ModelPath)
	set("SCRIBE_PROVIDER", &c.Summary.Provider)
	set("SCRIBE_PROXY", &c.Summary.Proxy)
	set("SCRIBE_BUS_URL", &c.Bus.URL)

	set("PERPLEXITY_API_KEY", &c.Summary.OpenAI.APIKey)
	set("PERPLEXITY_API_URL", &c.Summary.OpenAI.APIURL)
	set("PERPLEXITY_MODEL", &c.Summary.OpenAI.Model)

	set("GEMINI_API_KEY", &c.Summary.Gemini.APIKey)
	set("GEMINI_MODEL", &c.Summary.Gemini.Model)
}
