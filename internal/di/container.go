package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phishguard/internal/adapters/cache"
	"github.com/mikey/phishguard/internal/adapters/platform"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/factory"
	"github.com/mikey/phishguard/internal/logging"
	"github.com/mikey/phishguard/internal/ports"
	"github.com/mikey/phishguard/internal/router"
	"github.com/mikey/phishguard/internal/settings"
	"github.com/mikey/phishguard/internal/utils"
)

// BuildContainer creates and configures the dependency injection container
// of the daemon
func BuildContainer() (*dig.Container, error) {
	return buildContainer(config.New)
}

// BuildContainerFromConfig is BuildContainer with a preloaded configuration
func BuildContainerFromConfig(cfg *config.Config) (*dig.Container, error) {
	return buildContainer(func() (*config.Config, error) { return cfg, nil })
}

func buildContainer(loadConfig func() (*config.Config, error)) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(loadConfig); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStateFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewPlatformFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.Classifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register state repository and the config store on top of it
	if err := container.Provide(func(f *factory.StateFactory) (core.StateRepository, error) {
		return f.CreateStateRepository()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(repo core.StateRepository, cfg *config.Config, logger *zap.Logger) *settings.Store {
		return settings.NewStore(repo, logger.Named("settings"), cfg.GetDefaultSettings())
	}); err != nil {
		return nil, err
	}

	// Register risk cache and its janitor
	if err := container.Provide(func(logger *zap.Logger) *cache.MemoryCache {
		return cache.NewMemoryCache(logger.Named("cache"), cache.WithTTL(core.CacheDuration))
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *cache.MemoryCache, logger *zap.Logger) *cache.Janitor {
		return cache.NewJanitor(c, core.JanitorInterval, logger.Named("janitor"))
	}); err != nil {
		return nil, err
	}

	// Register browser platform
	if err := container.Provide(func(f *factory.PlatformFactory) *platform.Bridge {
		return f.CreateBridge()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.PlatformFactory, bridge *platform.Bridge) (core.Platform, error) {
		return f.CreatePlatform(bridge)
	}); err != nil {
		return nil, err
	}

	// Register protection service
	if err := container.Provide(func(
		classifier core.Classifier,
		c *cache.MemoryCache,
		store *settings.Store,
		p core.Platform,
		cfg *config.Config,
		logger *zap.Logger,
	) (*core.ProtectionService, error) {
		classifierCfg, err := cfg.GetClassifier()
		if err != nil {
			return nil, err
		}
		return core.NewProtectionService(classifier, c, store, p, logger.Named("protection"), core.ServiceOptions{
			WarningPage:     cfg.GetServer().WarningPage,
			ClassifyTimeout: classifierCfg.Timeout,
		}), nil
	}); err != nil {
		return nil, err
	}

	// Register message router
	if err := container.Provide(func(
		store *settings.Store,
		service *core.ProtectionService,
		bridge *platform.Bridge,
		logger *zap.Logger,
	) *router.Router {
		return router.NewRouter(store, service, bridge, logger.Named("router"))
	}); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(func(
		f *factory.FrontendFactory,
		service *core.ProtectionService,
		r *router.Router,
		bridge *platform.Bridge,
	) ports.Frontend {
		return f.CreateFrontend(service, r, bridge)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
