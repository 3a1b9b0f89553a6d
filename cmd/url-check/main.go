package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mikey/phishguard/internal/adapters/cli"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/di"
	"go.uber.org/zap"
)

func main() {
	flags, err := di.ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	if flags.URL == "" {
		fmt.Fprintln(os.Stderr, "usage: url-check [flags] <url>")
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(func(
		logger *zap.Logger,
		reporter *cli.Reporter,
		classifier core.Classifier,
	) error {
		defer logger.Sync()

		ctx, cancel := context.WithTimeout(context.Background(), flags.Timeout)
		defer cancel()

		_, checkErr := reporter.Check(ctx, flags.URL)

		// Close any resources that need closing
		if closer, ok := classifier.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close classifier", zap.Error(err))
			}
		}
		return checkErr
	}); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}
