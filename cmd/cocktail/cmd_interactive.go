package main

import (
	"context"

	"cocktailnerd/cmd/cocktail/chat"
	"cocktailnerd/cmd/cocktail/ui"
	"cocktailnerd/internal/backend"

	tea "github.com/charmbracelet/bubbletea"
)

// runInteractive starts the picker UI.
func runInteractive(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := newBackend(ctx, cfg)
	if err != nil {
		return err
	}
	ctrl, err := newController(cfg, b)
	if err != nil {
		return err
	}

	var hello chat.HelloFunc
	if client, ok := b.(*backend.HTTPClient); ok {
		hello = client.Hello
	}

	m := chat.New(chat.Config{
		Controller: ctrl,
		Hello:      hello,
		Styles:     ui.NewStyles(ui.ThemeFor(cfg.UI.Theme)),
	})
	defer m.Close()

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
