package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/phishguard/internal/adapters/cache"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/di"
	"github.com/mikey/phishguard/internal/ports"
	"github.com/mikey/phishguard/internal/settings"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	store *settings.Store,
	janitor *cache.Janitor,
	service *core.ProtectionService,
	frontend ports.Frontend,
	classifier core.Classifier,
	repo core.StateRepository,
) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Restore persisted settings and whitelist before serving
	if err := store.Load(ctx); err != nil {
		logger.Error("Failed to load persisted state", zap.Error(err))
		return err
	}
	current := store.Settings()
	logger.Info("Protection settings loaded",
		zap.Bool("enabled", current.Enabled),
		zap.String("sensitivity", string(current.Sensitivity)),
		zap.Bool("auto_block", current.AutoBlock),
		zap.Int("whitelisted", len(store.Whitelist())))

	janitor.Start()

	if err := frontend.Start(); err != nil {
		logger.Error("Failed to start frontend", zap.Error(err))
		janitor.Stop()
		return err
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	// Stop accepting requests and sweeping in parallel
	var g errgroup.Group
	g.Go(frontend.Stop)
	g.Go(func() error {
		janitor.Stop()
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Error("Failed to stop frontend", zap.Error(err))
	}

	// Cancel and join background classifications
	service.Stop()

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}
	if closer, ok := repo.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close state repository", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
