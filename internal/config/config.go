package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	app_errors "enchanted-day/backend/internal/errors"
)

// LLM providers and stream modes.
const (
	ProviderOllama  = "ollama"
	ProviderBedrock = "bedrock"

	StreamNative  = "native"
	StreamChunked = "chunked"
)

type Config struct {
	AppPort           int           `mapstructure:"APP_PORT" validate:"gt=0"`
	DatabasePath      string        `mapstructure:"DATABASE_PATH" validate:"required"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	LLMProvider       string        `mapstructure:"LLM_PROVIDER" validate:"oneof=ollama bedrock"`
	LLMStreamMode     string        `mapstructure:"LLM_STREAM_MODE" validate:"oneof=native chunked"`
	OllamaURL         string        `mapstructure:"OLLAMA_URL"`
	OllamaModel       string        `mapstructure:"OLLAMA_MODEL"`
	BedrockRegion     string        `mapstructure:"BEDROCK_REGION"`
	BedrockModelID    string        `mapstructure:"BEDROCK_MODEL_ID"`
	AgentName         string        `mapstructure:"AGENT_NAME"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	ChatRatePerMinute int           `mapstructure:"CHAT_RATE_PER_MINUTE" validate:"gte=0"`
	SelectionTTL      time.Duration `mapstructure:"SELECTION_TTL"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`

	// ConfigFile is the .env file that was read, empty when only the
	// environment and defaults were used.
	ConfigFile string `mapstructure:"-"`
}

var defaults = map[string]any{
	"APP_PORT":             8000,
	"DATABASE_PATH":        "/data/enchanted-day.db",
	"REDIS_ADDR":           "redis:6379",
	"LLM_PROVIDER":         ProviderOllama,
	"LLM_STREAM_MODE":      StreamNative,
	"OLLAMA_URL":           "http://ollama:11434",
	"OLLAMA_MODEL":         "qwen3:latest",
	"BEDROCK_REGION":       "us-east-1",
	"BEDROCK_MODEL_ID":     "anthropic.claude-3-5-sonnet-20240620-v1:0",
	"AGENT_NAME":           "EnchantedDay AI Assistant",
	"JWT_SECRET":           "",
	"CHAT_RATE_PER_MINUTE": 20,
	"SELECTION_TTL":        "720h",
	"LOG_LEVEL":            "INFO",
}

// LoadConfig reads settings from the environment and an optional .env file in
// dir (the working directory when dir is empty).
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if dir == "" {
		dir = "."
	}
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.LLMProvider = strings.ToLower(cfg.LLMProvider)
	cfg.LLMStreamMode = strings.ToLower(cfg.LLMStreamMode)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrValidation, err.Error())
	}
	return &cfg, nil
}
