package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"roomrental/config"
	"roomrental/session"
	"roomrental/transport"
	"roomrental/utils"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	utils.InitializeLogger(cfg.Env, cfg.LogLevel)
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session store.
	store, closeStore, err := session.Open(ctx, *cfg, logger)
	if err != nil {
		logger.Error("failed to open session store", zap.String("backend", cfg.SessionBackend), zap.Error(err))
		return 1
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close session store", zap.Error(err))
		}
	}()

	// Authenticated transport.
	opts := transport.OptionsFromConfig(*cfg)
	opts.Logger = logger
	client, err := transport.New(store, opts)
	if err != nil {
		logger.Error("failed to build API client", zap.Error(err))
		return 1
	}

	a := newApp(client, store, logger, os.Stdout)
	if err := a.dispatch(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
