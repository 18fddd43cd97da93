package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	LogLevel string         `mapstructure:"log_level"`
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Summary  SummaryConfig  `mapstructure:"summary"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

type LLMConfig struct {
	Provider       string                    `mapstructure:"provider"`
	Model          string                    `mapstructure:"model"`
	MaxTokens      int                       `mapstructure:"max_tokens"`
	TimeoutSeconds int                       `mapstructure:"timeout_seconds"`
	Providers      map[string]ProviderConfig `mapstructure:"providers"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url,omitempty"`
}

// SummaryConfig holds the buffer and summary retention knobs.
// BufferCapacity is clamped into [MinCount, MaxCount] at load time.
type SummaryConfig struct {
	BufferCapacity int `mapstructure:"buffer_capacity"`
	MaxPerUser     int `mapstructure:"max_per_user"`
	DefaultCount   int `mapstructure:"default_count"`
	MinCount       int `mapstructure:"min_count"`
	MaxCount       int `mapstructure:"max_count"`
}

// Timeout returns the bound on a single LLM call.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file is fine; defaults plus env cover everything.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvOverrides(&cfg)
	cfg.clamp()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("env", "development")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "recapbot")
	viper.SetDefault("database.database", "recapbot")
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("llm.provider", "anthropic")
	viper.SetDefault("llm.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("llm.max_tokens", 2048)
	viper.SetDefault("llm.timeout_seconds", 120)

	viper.SetDefault("summary.buffer_capacity", 50)
	viper.SetDefault("summary.max_per_user", 5)
	viper.SetDefault("summary.default_count", 50)
	viper.SetDefault("summary.min_count", 10)
	viper.SetDefault("summary.max_count", 200)
}

func loadEnvOverrides(cfg *Config) {
	if env := os.Getenv("RECAP_ENV"); env != "" {
		cfg.Env = env
	}
	if level := os.Getenv("RECAP_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if port := os.Getenv("RECAP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	// PORT is what Render and friends inject.
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if host := os.Getenv("RECAP_HOST"); host != "" {
		cfg.Server.Host = host
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}

	if dbHost := os.Getenv("POSTGRES_HOST"); dbHost != "" {
		cfg.Database.Host = dbHost
	}
	if dbPort := os.Getenv("POSTGRES_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			cfg.Database.Port = port
		}
	}
	if dbUser := os.Getenv("POSTGRES_USER"); dbUser != "" {
		cfg.Database.User = dbUser
	}
	if dbPass := os.Getenv("POSTGRES_PASSWORD"); dbPass != "" {
		cfg.Database.Password = dbPass
	}
	if dbName := os.Getenv("POSTGRES_DB"); dbName != "" {
		cfg.Database.Database = dbName
	}

	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		pc := cfg.LLM.Providers["anthropic"]
		pc.APIKey = key
		cfg.LLM.Providers["anthropic"] = pc
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		pc := cfg.LLM.Providers["openai"]
		pc.APIKey = key
		cfg.LLM.Providers["openai"] = pc
	}
	if provider := os.Getenv("RECAP_LLM_PROVIDER"); provider != "" {
		cfg.LLM.Provider = provider
	}
	if model := os.Getenv("RECAP_LLM_MODEL"); model != "" {
		cfg.LLM.Model = model
	}
}

// clamp forces the summary knobs back into their documented ranges rather
// than rejecting a config file that drifted out of bounds.
func (c *Config) clamp() {
	if c.Summary.MinCount <= 0 {
		c.Summary.MinCount = 10
	}
	if c.Summary.MaxCount < c.Summary.MinCount {
		c.Summary.MaxCount = 200
	}
	if c.Summary.BufferCapacity < c.Summary.MinCount {
		c.Summary.BufferCapacity = c.Summary.MinCount
	}
	if c.Summary.BufferCapacity > c.Summary.MaxCount {
		c.Summary.BufferCapacity = c.Summary.MaxCount
	}
	if c.Summary.MaxPerUser <= 0 {
		c.Summary.MaxPerUser = 5
	}
	if c.Summary.DefaultCount < c.Summary.MinCount {
		c.Summary.DefaultCount = c.Summary.MinCount
	}
	if c.Summary.DefaultCount > c.Summary.MaxCount {
		c.Summary.DefaultCount = c.Summary.MaxCount
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = 120
	}
}

func (c *Config) Validate() error {
	if len(c.Telegram.Token) < 40 {
		return fmt.Errorf("invalid telegram bot token: get one from @BotFather and set TELEGRAM_BOT_TOKEN")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	pc, ok := c.LLM.Providers[c.LLM.Provider]
	if !ok || pc.APIKey == "" {
		return fmt.Errorf("no API key configured for LLM provider %q", c.LLM.Provider)
	}
	if c.LLM.Provider == "anthropic" && !strings.HasPrefix(pc.APIKey, "sk-ant-") {
		return fmt.Errorf("invalid Anthropic API key: expected sk-ant- prefix")
	}

	return nil
}

// IsProduction reports whether the bot runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Env) == "production"
}
