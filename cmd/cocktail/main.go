// Package main provides the cocktail CLI entry point.
package main

import (
	"fmt"
	"os"
	"time"

	"cocktailnerd/internal/config"
	"cocktailnerd/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cocktail",
	Short: "cocktail - pick your tastes, get a drink",
	Long: `cocktail asks a recommendation service for a cocktail that matches the
taste categories you select and a short description of the occasion.

Run without arguments to start the interactive picker.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if timeout > 0 {
			loaded.Session.Timeout = timeout.String()
		}
		cfg = loaded

		// The interactive UI owns the terminal: log to the configured file only.
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return logging.Initialize(cfg.Logging)
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if verbose {
			logging.SetBase(logger)
			return nil
		}
		return logging.Initialize(cfg.Logging)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

// recommendCmd performs a single request without the UI
var recommendCmd = &cobra.Command{
	Use:   "recommend [query...]",
	Short: "Ask for one recommendation and print it",
	Long: `Sends the query and the selected taste categories to the backend and
prints the recommendation as plain text. An empty query is sent as the
configured placeholder.

Example:
  cocktail recommend -t Sweet -t Fruity something for a summer party`,
	RunE: runRecommend,
}

var helloCmd = &cobra.Command{
	Use:   "hello",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE:  runHello,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the taste categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

// stubBackendCmd serves the backend API locally
var stubBackendCmd = &cobra.Command{
	Use:   "stub-backend",
	Short: "Run a local recommendation backend for development",
	Long: `Serves GET /hello and POST /recommend_cocktail. Answers come from Gemini
when GEMINI_API_KEY (or backend.api_key) is set, otherwise from a canned list.`,
	Args: cobra.NoArgs,
	RunE: runStubBackend,
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write the default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInitConfig,
}

var (
	recommendTags []string
	stubAddr      string
	forceInit     bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (default from config)")

	recommendCmd.Flags().StringArrayVarP(&recommendTags, "tag", "t", nil, "Taste category to select (repeatable)")
	stubBackendCmd.Flags().StringVar(&stubAddr, "addr", "", "Listen address (default from config)")
	initConfigCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(helloCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(stubBackendCmd)
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
