package factory

import (
	"fmt"

	"github.com/mikey/phishguard/internal/adapters/classifier"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/utils"
	"go.uber.org/zap"
)

// ClassifierFactory creates the verdict provider selected by
// classifier.provider
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier creates a classifier based on the configuration
func (f *ClassifierFactory) CreateClassifier() (core.Classifier, error) {
	classifierCfg, err := f.cfg.GetClassifier()
	if err != nil {
		return nil, err
	}

	switch classifierCfg.Provider {
	case "http", "":
		if classifierCfg.Endpoint == "" {
			return nil, fmt.Errorf("classifier endpoint is required")
		}
		limiter := classifier.NewLimiter(classifierCfg.RateLimit, classifierCfg.Burst)
		f.logger.Info("Using HTTP classifier",
			zap.String("endpoint", classifierCfg.Endpoint),
			zap.Duration("timeout", classifierCfg.Timeout),
			zap.Bool("rate_limited", limiter != nil))
		return classifier.NewHTTPClient(classifierCfg.Endpoint, classifierCfg.Timeout, limiter, f.logger.Named("classifier")), nil
	case "openai":
		return NewOpenAIFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	case "bedrock":
		return NewBedrockFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	case "gemini":
		return NewGeminiFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", classifierCfg.Provider)
	}
}
