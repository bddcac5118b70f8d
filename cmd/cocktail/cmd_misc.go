package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cocktailnerd/internal/backend"
	"cocktailnerd/internal/config"
	"cocktailnerd/internal/stubserver"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runHello(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(contextOrBackground(cmd), cfg.GetBackendTimeout())
	defer cancel()

	client := backend.NewHTTPClient(cfg.Backend.BaseURL, cfg.GetBackendTimeout())
	resp, err := client.Hello(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", resp.Message, resp.Status)
	return nil
}

func runCategories(cmd *cobra.Command, args []string) error {
	for _, c := range cfg.Session.Categories {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}

func runStubBackend(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := cfg.Stub.Addr
	if stubAddr != "" {
		addr = stubAddr
	}

	var recommender backend.Backend
	if cfg.Backend.APIKey != "" {
		gb, err := backend.NewGenAIBackend(ctx, cfg.Backend.APIKey, cfg.Backend.Model)
		if err != nil {
			return err
		}
		recommender = gb
		logger.Info("stub backend using Gemini", zap.String("model", cfg.Backend.Model))
	} else {
		logger.Info("stub backend using canned recommendations")
	}

	srv := stubserver.New(stubserver.Config{
		Addr:           addr,
		AllowedOrigins: cfg.Stub.AllowedOrigins,
	}, recommender, logger.Named("stub"))
	return srv.Run(ctx)
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := defaultConfigPath
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
