package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"cocktailnerd/internal/backend"
	"cocktailnerd/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runRecommend(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := newBackend(ctx, cfg)
	if err != nil {
		return err
	}
	return recommend(ctx, cmd, b, args, recommendTags)
}

// recommend drives one request through a fresh controller.
func recommend(ctx context.Context, cmd *cobra.Command, b backend.Backend, args, tags []string) error {
	ctrl, err := newController(cfg, b)
	if err != nil {
		return err
	}

	for _, tag := range tags {
		if _, err := ctrl.ToggleSelect(session.Category(tag)); err != nil {
			return fmt.Errorf("%w (see `cocktail categories`)", err)
		}
	}
	ctrl.SetQuery(strings.Join(args, " "))

	pending, err := ctrl.Submit(ctx)
	if err != nil {
		return err
	}
	logger.Debug("request submitted", zap.String("request_id", pending.RequestID()))

	snap, err := ctrl.Wait(ctx)
	if err != nil {
		ctrl.Cancel()
		return err
	}

	if snap.HasError() {
		return errors.New(snap.ErrorMessage())
	}
	rec := snap.Recommendation()
	if rec == nil {
		return errors.New("no recommendation received")
	}
	fmt.Fprintln(cmd.OutOrStdout(), rec.Text)
	return nil
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
