package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Summarization providers
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Assembly   AssemblyAIConfig
	Summarizer SummarizerConfig
	Gemini     GeminiConfig
	Groq       GroqConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"3001"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	// MaxUploadSize uses echo's size syntax ("50M"); empty means no limit.
	MaxUploadSize string `envconfig:"MAX_UPLOAD_SIZE"`
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey  string `envconfig:"API_KEY"`
	BaseURL string `envconfig:"BASE_URL"`
}

// SummarizerConfig selects the generative-language provider
type SummarizerConfig struct {
	Provider string `envconfig:"PROVIDER" default:"gemini"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey  string `envconfig:"API_KEY"`
	Model   string `envconfig:"MODEL" default:"gemini-2.5-flash"`
	BaseURL string `envconfig:"BASE_URL"`
}

// GroqConfig holds Groq (OpenAI-compatible) configuration
type GroqConfig struct {
	APIKey  string `envconfig:"API_KEY"`
	BaseURL string `envconfig:"BASE_URL" default:"https://api.groq.com/openai/v1"`
	Model   string `envconfig:"MODEL" default:"llama-3.3-70b-versatile"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{}
	groups := []struct {
		prefix string
		target interface{}
	}{
		{"", &config.Server},
		{"ASSEMBLYAI", &config.Assembly},
		{"SUMMARY", &config.Summarizer},
		{"GEMINI", &config.Gemini},
		{"GROQ", &config.Groq},
	}
	for _, g := range groups {
		if err := envconfig.Process(g.prefix, g.target); err != nil {
			return nil, fmt.Errorf("failed to parse %s configuration: %w", strings.ToLower(g.prefix), err)
		}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Assembly.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required")
	}
	switch c.Summarizer.Provider {
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	case ProviderGroq:
		if c.Groq.APIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required")
		}
	default:
		return fmt.Errorf("unsupported SUMMARY_PROVIDER %q", c.Summarizer.Provider)
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// GetServerAddr returns the listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
