package app

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClaudeConfig configures the Anthropic gateway.
type ClaudeConfig struct {
	APIKey       string            `yaml:"api_key"`
	BaseURL      string            `yaml:"base_url"`
	MaxTokens    int               `yaml:"max_tokens"`
	DefaultModel string            `yaml:"default_model"`
	ModelIDs     map[string]string `yaml:"model_ids"`
}

// OpenAIConfig configures the OpenAI gateway.
type OpenAIConfig struct {
	APIKey       string            `yaml:"api_key"`
	BaseURL      string            `yaml:"base_url"`
	MaxTokens    int               `yaml:"max_tokens"`
	DefaultModel string            `yaml:"default_model"`
	ModelIDs     map[string]string `yaml:"model_ids"`
}

type Config struct {
	Addr        string       `yaml:"addr"`
	MaxMessages int          `yaml:"max_messages"`
	Debug       bool         `yaml:"debug"`
	Claude      ClaudeConfig `yaml:"claude"`
	OpenAI      OpenAIConfig `yaml:"openai"`
}

func DefaultConfig() Config {
	return Config{
		Addr:        ":8000",
		MaxMessages: DefaultMaxMessages,
		Claude: ClaudeConfig{
			BaseURL:      defaultClaudeBaseURL,
			MaxTokens:    4096,
			DefaultModel: "claude-sonnet-4-5",
			ModelIDs:     defaultClaudeModelIDs(),
		},
		OpenAI: OpenAIConfig{
			MaxTokens:    4096,
			DefaultModel: "gpt-4o",
			ModelIDs:     defaultOpenAIModelIDs(),
		},
	}
}

// LoadConfig reads the YAML config at path over the defaults, then lets the
// environment override the secrets and addresses. A missing file is not an
// error; the env-only setup is the common deployment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return cfg, err
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Claude.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("REACT_ASSISTANT_ADDR"); v != "" {
		cfg.Addr = v
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = DefaultMaxMessages
	}
	if cfg.Claude.BaseURL == "" {
		cfg.Claude.BaseURL = defaultClaudeBaseURL
	}
	if cfg.Claude.MaxTokens <= 0 {
		cfg.Claude.MaxTokens = 4096
	}
	if cfg.OpenAI.MaxTokens <= 0 {
		cfg.OpenAI.MaxTokens = 4096
	}
	if len(cfg.Claude.ModelIDs) == 0 {
		cfg.Claude.ModelIDs = defaultClaudeModelIDs()
	}
	if len(cfg.OpenAI.ModelIDs) == 0 {
		cfg.OpenAI.ModelIDs = defaultOpenAIModelIDs()
	}
	return cfg, nil
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "react-assistant", "config.yml")
}
