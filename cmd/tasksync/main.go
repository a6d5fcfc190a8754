// Package main is the entry point for the tasksync CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"tasksync/internal/auth"
	"tasksync/internal/backend/googletasks"
	"tasksync/internal/cli"
	"tasksync/internal/commands"
	"tasksync/internal/config"
	"tasksync/internal/service"
	"tasksync/internal/settings"
)

func main() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.WarnLevel)

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create service factory: keyring session store -> token provider
	// -> REST gateway
	factory := func(ctx context.Context, cfg *config.Config, st *settings.Settings) (service.Service, error) {
		store, err := auth.OpenKeyringStore(cfg.CredentialPath())
		if err != nil {
			return nil, err
		}

		provider := auth.NewProvider(store, st)

		// Fail fast so dispatch can report a precise auth error instead
		// of every command failing silently.
		if _, err := provider.AccessToken(ctx); err != nil {
			return nil, err
		}

		return googletasks.New(provider, st), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
