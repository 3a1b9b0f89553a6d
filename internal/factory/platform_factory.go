package factory

import (
	"fmt"

	"github.com/mikey/phishguard/internal/adapters/platform"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// PlatformFactory creates the browser-facing side of the pipeline
type PlatformFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewPlatformFactory creates a new platform factory
func NewPlatformFactory(cfg *config.Config, logger *zap.Logger) *PlatformFactory {
	return &PlatformFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateBridge creates the event bridge polled by the extension shim
func (f *PlatformFactory) CreateBridge() *platform.Bridge {
	return platform.NewBridge(f.cfg.GetServer().MaxEvents, f.logger.Named("bridge"))
}

// CreatePlatform returns bridge, decorated with alert mail when enabled
func (f *PlatformFactory) CreatePlatform(bridge *platform.Bridge) (core.Platform, error) {
	smtpCfg := f.cfg.GetSMTP()
	if !smtpCfg.Enabled {
		return bridge, nil
	}
	if smtpCfg.Address == "" || len(smtpCfg.To) == 0 {
		return nil, fmt.Errorf("alert mail requires notify.smtp.address and notify.smtp.to")
	}

	f.logger.Info("Alert mail enabled",
		zap.String("relay", smtpCfg.Address),
		zap.Strings("recipients", smtpCfg.To))
	return platform.NewMailNotifier(bridge, platform.MailConfig{
		Address:  smtpCfg.Address,
		Username: smtpCfg.Username,
		Password: smtpCfg.Password,
		From:     smtpCfg.From,
		To:       smtpCfg.To,
	}, f.logger.Named("mail")), nil
}
