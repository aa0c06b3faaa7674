package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidProvider  = errors.New("invalid llm provider")
	ErrMissingAPIKey    = errors.New("OPENROUTER_API_KEY is required for the openrouter provider")
	ErrInvalidMaxTokens = errors.New("MAX_NEW_TOKENS must be positive")

	ErrInvalidPayloadVersion = errors.New("LAMBDA_PAYLOAD_VERSION must be 1.0 or 2.0")
)

const (
	ProviderBedrock    = "bedrock"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// API Gateway event payload versions: 1.0 for REST APIs, 2.0 for HTTP APIs.
const (
	PayloadV1 = "1.0"
	PayloadV2 = "2.0"
)

type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
	Lambda  LambdaConfig  `yaml:"lambda"`
	Timeout TimeoutConfig `yaml:"timeout"`
}

type LLMConfig struct {
	Provider     string           `yaml:"provider"`
	MaxNewTokens int              `yaml:"max_new_tokens"`
	Bedrock      BedrockConfig    `yaml:"bedrock"`
	OpenRouter   OpenRouterConfig `yaml:"openrouter"`
}

type BedrockConfig struct {
	ModelID string `yaml:"model_id"`
	Region  string `yaml:"region"`
}

type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "json" or "console". Empty picks console for debug, json otherwise.
	Format string `yaml:"format"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MetricsAddr string `yaml:"metrics_addr"`
}

type LambdaConfig struct {
	PayloadVersion string `yaml:"payload_version"`
}

type TimeoutConfig struct {
	// LLM of zero leaves model calls bounded only by the host.
	LLM time.Duration `yaml:"llm"`
}

func defaults() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:     ProviderBedrock,
			MaxNewTokens: 2000,
			Bedrock: BedrockConfig{
				ModelID: "amazon.nova-micro-v1:0",
				Region:  "us-east-1",
			},
			OpenRouter: OpenRouterConfig{
				Model:   "amazon/nova-micro-v1",
				BaseURL: "https://openrouter.ai/api/v1",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MetricsAddr: ":9090",
		},
		Lambda: LambdaConfig{
			PayloadVersion: PayloadV1,
		},
	}
}

// Load builds the config from defaults, then the YAML file named by
// CONFIG_FILE (if any), then the environment.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.LLM.Provider = getEnvOrDefault("LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.MaxNewTokens = getEnvIntOrDefault("MAX_NEW_TOKENS", cfg.LLM.MaxNewTokens)
	cfg.LLM.Bedrock.ModelID = getEnvOrDefault("BEDROCK_MODEL_ID", cfg.LLM.Bedrock.ModelID)
	cfg.LLM.Bedrock.Region = getEnvOrDefault("AWS_REGION", cfg.LLM.Bedrock.Region)
	cfg.LLM.OpenRouter.APIKey = getEnvOrDefault("OPENROUTER_API_KEY", cfg.LLM.OpenRouter.APIKey)
	cfg.LLM.OpenRouter.Model = getEnvOrDefault("OPENROUTER_MODEL", cfg.LLM.OpenRouter.Model)
	cfg.LLM.OpenRouter.BaseURL = getEnvOrDefault("OPENROUTER_BASE_URL", cfg.LLM.OpenRouter.BaseURL)
	cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnvOrDefault("LOG_FORMAT", cfg.Log.Format)
	cfg.Server.Addr = getEnvOrDefault("HTTP_ADDR", cfg.Server.Addr)
	cfg.Server.MetricsAddr = getEnvOrDefault("METRICS_ADDR", cfg.Server.MetricsAddr)
	cfg.Lambda.PayloadVersion = getEnvOrDefault("LAMBDA_PAYLOAD_VERSION", cfg.Lambda.PayloadVersion)
	if sec := getEnvIntOrDefault("LLM_TIMEOUT_SEC", -1); sec >= 0 {
		cfg.Timeout.LLM = time.Duration(sec) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderBedrock, ProviderMock:
	case ProviderOpenRouter:
		if c.LLM.OpenRouter.APIKey == "" {
			return ErrMissingAPIKey
		}
	default:
		return ErrInvalidProvider
	}
	if c.LLM.MaxNewTokens <= 0 {
		return ErrInvalidMaxTokens
	}
	switch c.Lambda.PayloadVersion {
	case PayloadV1, PayloadV2:
	default:
		return ErrInvalidPayloadVersion
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
