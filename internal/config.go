package internal

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envFile    = ".env"
	configFile = "config.yaml"

	defaultBaseURL     = "https://web-production-f4992.up.railway.app"
	defaultTextModel   = "gpt-4"
	defaultVisionModel = "gpt-4-vision-preview"
	defaultMaxTokens   = 1000
	defaultTemperature = 0.3
	defaultTimeoutSecs = 60
)

// Config is the application configuration, loaded from config.yaml with
// environment overrides. The API key is environment-only and never written
// to the config file.
type Config struct {
	Gateway GatewayConfig `yaml:"gateway"`
	DataDir string        `yaml:"data_dir"`
}

// GatewayConfig configures the chat-completion client
type GatewayConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"-"`
	TextModel   string  `yaml:"text_model"`
	VisionModel string  `yaml:"vision_model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TimeoutSecs int     `yaml:"timeout_seconds"`
}

// Timeout returns the transport timeout as a duration
func (g GatewayConfig) Timeout() time.Duration {
	secs := g.TimeoutSecs
	if secs <= 0 {
		secs = defaultTimeoutSecs
	}
	return time.Duration(secs) * time.Second
}

// LoadConfig loads configuration from dir. A missing .env or config.yaml is
// not an error; defaults and environment variables fill the gaps.
// Recognized environment variables: CHATHUB_API_KEY, CHATHUB_BASE_URL,
// CHATHUB_DATA_DIR, CHATHUB_MAX_TOKENS.
func LoadConfig(dir string) (Config, error) {
	_ = godotenv.Load(filepath.Join(dir, envFile))

	cfg := Config{
		Gateway: GatewayConfig{
			BaseURL:     defaultBaseURL,
			TextModel:   defaultTextModel,
			VisionModel: defaultVisionModel,
			MaxTokens:   defaultMaxTokens,
			Temperature: defaultTemperature,
			TimeoutSecs: defaultTimeoutSecs,
		},
	}

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	if v := os.Getenv("CHATHUB_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("CHATHUB_BASE_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("CHATHUB_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("CHATHUB_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Gateway.MaxTokens = n
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = dir
	}

	return cfg, nil
}

// DatabasePath returns the path of the key/value database inside the data dir
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "chathub.db")
}
