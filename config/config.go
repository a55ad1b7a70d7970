// Package config loads daemon configuration from an optional YAML file,
// environment variables and built-in defaults, in ascending precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the swarmdeck daemon.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Model    ModelConfig    `mapstructure:"model"`
	Executor ExecutorConfig `mapstructure:"executor"`
	Tools    ToolsConfig    `mapstructure:"tools"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds the HTTP gateway settings.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

// ModelConfig selects and configures the language-model provider. An empty
// APIKey is valid: the swarm runs in its deterministic mock mode.
type ModelConfig struct {
	// Provider is one of "groq", "openai", "anthropic" or "none".
	Provider string `mapstructure:"provider"`
	// APIKey may be set here or via MODEL_API_KEY.
	APIKey string `mapstructure:"api_key"`
	// BaseURL overrides the provider endpoint (OpenAI-compatible providers).
	BaseURL string `mapstructure:"base_url"`
	// Name is the model identifier; empty selects the provider default.
	Name string `mapstructure:"name"`
	// Resilient enables the circuit-breaker/rate-limited wrapper.
	Resilient bool `mapstructure:"resilient"`
	// RatePerSecond caps outbound model calls when Resilient is set.
	RatePerSecond float64 `mapstructure:"rate_per_second"`
}

// ExecutorConfig overrides the task-synthesis sampling defaults.
type ExecutorConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int64   `mapstructure:"max_tokens"`
}

// ToolsConfig configures the lookup adapters.
type ToolsConfig struct {
	// Attempts is the per-request retry budget for tool HTTP calls.
	Attempts uint `mapstructure:"attempts"`
	// Timeout bounds a single tool HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggerConfig selects the slog handler behavior.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// Load reads config.yaml (working directory or ./configs), applies
// environment overrides (MODEL_API_KEY overrides model.api_key, SERVER_PORT
// overrides server.port, and so on) and fills in defaults. A missing file is
// not an error: env and defaults suffice.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Every key needs a registered default: AutomaticEnv only surfaces
	// variables for keys viper already knows about when unmarshalling.
	v.SetDefault("model.provider", "groq")
	v.SetDefault("model.api_key", "")
	v.SetDefault("model.base_url", "")
	v.SetDefault("model.name", "")
	v.SetDefault("model.resilient", true)
	v.SetDefault("model.rate_per_second", 5.0)

	v.SetDefault("executor.temperature", 0.7)
	v.SetDefault("executor.max_tokens", 1000)

	v.SetDefault("tools.attempts", 3)
	v.SetDefault("tools.timeout", 10*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
}

func (c *Config) validate() error {
	switch c.Model.Provider {
	case "groq", "openai", "anthropic", "none":
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
