package main

import (
	"context"
	"fmt"

	"cocktailnerd/internal/backend"
	"cocktailnerd/internal/config"
	"cocktailnerd/internal/sanitize"
	"cocktailnerd/internal/session"

	"go.uber.org/zap"
)

const defaultConfigPath = "cocktailnerd.yaml"

// newBackend builds the configured recommendation backend.
func newBackend(ctx context.Context, c *config.Config) (backend.Backend, error) {
	switch c.Backend.Provider {
	case config.ProviderGenAI:
		return backend.NewGenAIBackend(ctx, c.Backend.APIKey, c.Backend.Model)
	case config.ProviderHTTP:
		return backend.NewHTTPClient(c.Backend.BaseURL, c.GetTransportTimeout()), nil
	default:
		return nil, fmt.Errorf("unknown backend provider %q", c.Backend.Provider)
	}
}

// newController validates c and builds a session controller over b.
func newController(c *config.Config, b backend.Backend) (*session.Controller, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	s, err := sanitize.New(c.Sanitizer.Policy)
	if err != nil {
		return nil, err
	}
	ctrl, err := session.New(session.Config{
		Categories:   session.CategoriesFromStrings(c.Session.Categories),
		EmptyQuery:   c.Session.EmptyQuery,
		GenericError: c.Session.GenericError,
		Timeout:      c.GetSessionTimeout(),
	}, b, s, nil)
	if err != nil {
		return nil, err
	}
	logger.Debug("controller ready",
		zap.String("provider", c.Backend.Provider),
		zap.Strings("categories", c.Session.Categories),
		zap.Duration("timeout", c.GetSessionTimeout()),
	)
	return ctrl, nil
}
