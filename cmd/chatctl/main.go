// Command chatctl performs account administration against the configured store.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/spec-kit/chat-service/internal/config"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/observability"
	"github.com/spec-kit/chat-service/internal/repository"
	"github.com/spec-kit/chat-service/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "chatctl:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Logger.Level = "warn"
	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	dispatcher := events.NewInMemoryDispatcher()
	analytics := service.NewAnalyticsService(store.Analytics)
	service.NewActivityService(dispatcher, analytics, nil, logger).RegisterHandlers()

	authService, err := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   store.Users,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	stdin := bufio.NewReader(os.Stdin)
	c := &cli{
		accounts: authService,
		stdout:   os.Stdout,
		readPassword: func() ([]byte, error) {
			fd := int(os.Stdin.Fd())
			if term.IsTerminal(fd) {
				pw, err := term.ReadPassword(fd)
				fmt.Fprintln(os.Stdout)
				return pw, err
			}
			return readLine(stdin)
		},
	}
	logger.Debug("chatctl", zap.Strings("args", os.Args[1:]))
	return c.run(ctx, os.Args[1:])
}
