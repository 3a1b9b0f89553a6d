package factory

import (
	"github.com/mikey/phishguard/internal/adapters/httpapi"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/ports"
	"go.uber.org/zap"
)

// FrontendFactory creates the surface the browser extension talks to
type FrontendFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger) *FrontendFactory {
	return &FrontendFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateFrontend creates the HTTP frontend
func (f *FrontendFactory) CreateFrontend(gate httpapi.Interceptor, messages httpapi.MessageHandler, bridge httpapi.TabBridge) ports.Frontend {
	return httpapi.NewServer(
		gate,
		messages,
		bridge,
		f.logger.Named("http"),
		f.cfg.GetServer().ListenAddress,
	)
}
