package config

import (
	"fmt"
	"time"

	"github.com/mikey/phishguard/internal/core"
)

// ClassifierConfig represents the configuration for the verdict provider
type ClassifierConfig struct {
	Provider  string
	Endpoint  string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxURLSize  int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxURLSize  int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxURLSize  int
}

// StateConfig represents where settings and whitelist are persisted
type StateConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
}

// ServerConfig represents the HTTP frontend configuration
type ServerConfig struct {
	ListenAddress string
	WarningPage   string
	MaxEvents     int
}

// SMTPConfig represents the alert mail relay
type SMTPConfig struct {
	Enabled  bool
	Address  string
	Username string
	Password string
	From     string
	To       []string
}

// LoggingConfig represents the logger configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() (ClassifierConfig, error) {
	timeout, err := c.GetDuration("classifier.timeout")
	if err != nil {
		return ClassifierConfig{}, fmt.Errorf("invalid classifier timeout: %w", err)
	}
	return ClassifierConfig{
		Provider:  c.GetString("classifier.provider"),
		Endpoint:  c.GetString("classifier.endpoint"),
		Timeout:   timeout,
		RateLimit: c.GetFloat64("classifier.rate_limit"),
		Burst:     c.GetInt("classifier.burst"),
	}, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxURLSize:  c.GetInt("bedrock.max_url_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxURLSize:  c.GetInt("gemini.max_url_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxURLSize:  c.GetInt("openai.max_url_size"),
	}
}

// GetDefaultSettings returns the built-in protection settings
func (c *Config) GetDefaultSettings() core.Settings {
	return core.Settings{
		Enabled:           c.GetBool("protection.enabled"),
		Sensitivity:       core.Sensitivity(c.GetString("protection.sensitivity")),
		AutoBlock:         c.GetBool("protection.auto_block"),
		ShowNotifications: c.GetBool("protection.show_notifications"),
	}
}

// GetState returns the persisted state configuration
func (c *Config) GetState() StateConfig {
	return StateConfig{
		Type:       c.GetString("state.type"),
		SQLitePath: c.GetString("state.sqlite_path"),
		MySQLDSN:   c.GetString("state.mysql_dsn"),
	}
}

// GetServer returns the HTTP frontend configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		WarningPage:   c.GetString("server.warning_page"),
		MaxEvents:     c.GetInt("server.max_events"),
	}
}

// GetSMTP returns the alert mail configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Enabled:  c.GetBool("notify.smtp.enabled"),
		Address:  c.GetString("notify.smtp.address"),
		Username: c.GetString("notify.smtp.username"),
		Password: c.GetString("notify.smtp.password"),
		From:     c.GetString("notify.smtp.from"),
		To:       c.GetStringSlice("notify.smtp.to"),
	}
}

// GetLogging returns the logger configuration
func (c *Config) GetLogging() LoggingConfig {
	return LoggingConfig{
		Level:  c.GetString("logging.level"),
		Format: c.GetString("logging.format"),
	}
}
