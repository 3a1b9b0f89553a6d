package factory

import (
	"fmt"

	"github.com/mikey/phishguard/internal/adapters/state"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// StateFactory creates the repository that persists settings and whitelist
type StateFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStateFactory creates a new state factory
func NewStateFactory(cfg *config.Config, logger *zap.Logger) *StateFactory {
	return &StateFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStateRepository creates a state repository based on the configuration
func (f *StateFactory) CreateStateRepository() (core.StateRepository, error) {
	stateCfg := f.cfg.GetState()
	logger := f.logger.Named("state")

	switch stateCfg.Type {
	case "memory":
		logger.Warn("Using in-memory state, settings are lost on restart")
		return state.NewMemoryRepository(), nil
	case "sqlite":
		repo, err := state.NewSQLiteRepository(stateCfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "mysql":
		repo, err := state.NewMySQLRepository(stateCfg.MySQLDSN, logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported state type: %s", stateCfg.Type)
	}
}
