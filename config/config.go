package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// KnowledgeSource describes one document the knowledge loader ingests at
// startup. Missing files are skipped, so the list may name documents that
// are only present in some deployments.
type KnowledgeSource struct {
	Path        string `mapstructure:"path"`
	Language    string `mapstructure:"language"`
	Description string `mapstructure:"description"`
}

type Config struct {
	Port       string `mapstructure:"port"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	AIProvider string `mapstructure:"ai_provider"` // "openai" or "gemini"
	AIEndpoint string `mapstructure:"ai_endpoint"`
	Model      string `mapstructure:"model"`

	OpenAIAPIKey   string   `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys  []string `mapstructure:"gemini_api_keys"`
	SearchAPIKey   string   `mapstructure:"GOOGLE_SEARCH_API_KEY"`
	SearchEngineID string   `mapstructure:"search_engine_id"`

	FetchTimeout     time.Duration     `mapstructure:"fetch_timeout"`
	KnowledgeSources []KnowledgeSource `mapstructure:"knowledge_sources"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("fetch_timeout", 10*time.Second)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GOOGLE_SEARCH_API_KEY")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
