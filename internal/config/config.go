// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Chat      ChatConfig      `yaml:"chat" mapstructure:"chat"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings. An empty Key puts the whole
// pipeline into deterministic mock mode.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// HasCredential reports whether a model credential is configured. This is the
// only credential signal the core inspects.
func (c AnthropicConfig) HasCredential() bool {
	return strings.TrimSpace(c.Key) != ""
}

// FetchConfig configures document acquisition.
type FetchConfig struct {
	NavTimeoutSecs  int     `yaml:"nav_timeout_secs" mapstructure:"nav_timeout_secs"`
	HTTPTimeoutSecs int     `yaml:"http_timeout_secs" mapstructure:"http_timeout_secs"`
	UserAgent       string  `yaml:"user_agent" mapstructure:"user_agent"`
	RatePerSec      float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	RateBurst       int     `yaml:"rate_burst" mapstructure:"rate_burst"`
	DisableBrowser  bool    `yaml:"disable_browser" mapstructure:"disable_browser"`
}

// ChatConfig configures the conversational assistant.
type ChatConfig struct {
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BOLIGSJEKK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. The key defaults empty so the env override binds; empty means
	// mock mode, never an error.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("anthropic.temperature", 0.3)
	v.SetDefault("anthropic.timeout_secs", 60)
	v.SetDefault("fetch.nav_timeout_secs", 25)
	v.SetDefault("fetch.http_timeout_secs", 15)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; Boligsjekk/1.0)")
	v.SetDefault("fetch.rate_per_sec", 2)
	v.SetDefault("fetch.rate_burst", 4)
	v.SetDefault("fetch.disable_browser", false)
	v.SetDefault("chat.max_tokens", 1024)
	v.SetDefault("store.path", "boligsjekk.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
