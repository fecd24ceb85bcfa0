// Hubctl drives the IoT Hub device-management API from the command line.
//
// Configuration comes from the environment (HUB_NAME, SAS_TOKEN, ...) or
// configs/.env. Command output is JSON on stdout; logs go to stderr.
//
// Usage:
//
//	hubctl [command] [flags]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/iothub-client/internal/app"
	"github.com/samvad-hq/iothub-client/internal/config"
	"github.com/samvad-hq/iothub-client/internal/logger"
	"github.com/samvad-hq/iothub-client/pkg/iothub"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if code := iothub.StatusCode(err); code != 0 {
			fmt.Fprintf(os.Stderr, "Error (hub status %d): %v\n", code, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// withConsole loads config, builds the console and runs fn with a context
// cancelled on SIGINT/SIGTERM.
func withConsole(fn func(ctx context.Context, c *app.Console) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	log.DebugObj("hubctl starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	console, err := app.NewConsole(cfg, log, os.Stdout)
	if err != nil {
		log.ErrorObj("failed to initialize console", "error", err)
		return err
	}
	defer func() {
		if err := console.Close(); err != nil {
			log.ErrorObj("console close failed", "error", err)
		}
	}()

	return fn(ctx, console)
}

// withSnapshots runs fn against the local snapshot store only. Hub
// credentials are not required.
func withSnapshots(fn func(c *app.Console) error) error {
	cfg, err := config.LoadLocal()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	console, err := app.NewSnapshotConsole(cfg, log, os.Stdout)
	if err != nil {
		log.ErrorObj("failed to open snapshot store", "error", err)
		return err
	}
	defer func() {
		if err := console.Close(); err != nil {
			log.ErrorObj("console close failed", "error", err)
		}
	}()

	return fn(console)
}
