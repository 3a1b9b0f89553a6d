package di

import (
	"flag"
	"os"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phishguard/internal/adapters/cli"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/factory"
	"github.com/mikey/phishguard/internal/logging"
	"github.com/mikey/phishguard/internal/utils"
)

// CLIFlags contains all command line flags for the url-check tool
type CLIFlags struct {
	URL string

	// Classifier flags
	Provider   string
	Endpoint   string
	Timeout    time.Duration
	MaxTokens  int
	MaxURLSize int

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Decision flags
	Sensitivity string
	AutoBlock   bool
	WarningPage string

	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses args into a CLIFlags struct
func ParseFlags(args []string) (*CLIFlags, error) {
	flags := &CLIFlags{}
	fs := flag.NewFlagSet("url-check", flag.ContinueOnError)

	fs.StringVar(&flags.URL, "url", "", "URL to classify (or pass it as the first argument)")

	fs.StringVar(&flags.Provider, "provider", "http", "Classifier provider (http, openai, bedrock, gemini)")
	fs.StringVar(&flags.Endpoint, "endpoint", "http://localhost:5000", "Base URL of the classification backend")
	fs.DurationVar(&flags.Timeout, "timeout", 30*time.Second, "Classification timeout")
	fs.IntVar(&flags.MaxTokens, "max-tokens", 300, "Maximum tokens for LLM response")
	fs.IntVar(&flags.MaxURLSize, "max-url-size", 2048, "Maximum URL size to send to LLM")

	fs.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	fs.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-3-haiku-20240307-v1:0", "Bedrock model ID")

	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	fs.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-1.5-flash", "Gemini model name")

	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	fs.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o-mini", "OpenAI model name")

	fs.StringVar(&flags.Sensitivity, "sensitivity", "medium", "Sensitivity (low, medium, high)")
	fs.BoolVar(&flags.AutoBlock, "auto-block", false, "Report whether auto-block would redirect")
	fs.StringVar(&flags.WarningPage, "warning-page", "/warning", "Warning page used in redirect targets")

	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging and print the raw verdict")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if flags.URL == "" && fs.NArg() > 0 {
		flags.URL = fs.Arg(0)
	}
	return flags, nil
}

// BuildCLIContainer creates and configures a dependency injection container for the url-check tool
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register reporter, no cache or platform involved
	if err := container.Provide(func(
		classifier core.Classifier,
		cfg *config.Config,
		flags *CLIFlags,
		logger *zap.Logger,
	) *cli.Reporter {
		return cli.NewReporter(
			classifier,
			cfg.GetDefaultSettings(),
			cfg.GetServer().WarningPage,
			os.Stdout,
			logger,
			flags.Verbose,
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("classifier.provider", flags.Provider)
	v.Set("classifier.endpoint", flags.Endpoint)
	v.Set("classifier.timeout", flags.Timeout.String())

	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.max_url_size", flags.MaxURLSize)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.max_url_size", flags.MaxURLSize)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.max_url_size", flags.MaxURLSize)
	}

	v.Set("protection.sensitivity", flags.Sensitivity)
	v.Set("protection.auto_block", flags.AutoBlock)
	v.Set("server.warning_page", flags.WarningPage)

	return config.NewFromViper(v)
}
