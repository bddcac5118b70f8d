package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cocktailnerd/internal/sanitize"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all cocktailnerd configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Recommendation service
	Backend BackendConfig `yaml:"backend"`

	// Session controller
	Session SessionConfig `yaml:"session"`

	Sanitizer SanitizerConfig `yaml:"sanitizer"`

	Logging LoggingConfig `yaml:"logging"`

	UI UIConfig `yaml:"ui"`

	// Local development backend
	Stub StubConfig `yaml:"stub"`
}

// BackendConfig selects and configures the recommendation backend.
type BackendConfig struct {
	Provider string `yaml:"provider"` // http, genai
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"` // transport timeout for a single HTTP call
	APIKey   string `yaml:"api_key"` // genai only
	Model    string `yaml:"model"`   // genai only
}

// SessionConfig configures the session controller.
type SessionConfig struct {
	// Fixed category vocabulary offered to the user.
	Categories []string `yaml:"categories"`
	// Sent instead of an empty or whitespace-only query.
	EmptyQuery string `yaml:"empty_query"`
	// Shown when the backend gives no usable error message.
	GenericError string `yaml:"generic_error"`
	// Upper bound for one request, after which it fails.
	Timeout string `yaml:"timeout"`
}

// SanitizerConfig configures markup sanitization of backend responses.
type SanitizerConfig struct {
	Policy string `yaml:"policy"` // ugc, strict
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // json, console
	File       string          `yaml:"file"`
	Categories map[string]bool `yaml:"categories"`
}

// UIConfig configures the interactive terminal UI.
type UIConfig struct {
	Theme string `yaml:"theme"` // auto, light, dark
}

// StubConfig configures the stub backend server.
type StubConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Session defaults. The session package falls back to the same values.
const (
	DefaultEmptyQuery   = "no categories selected"
	DefaultGenericError = "An error occurred. Please try again."
)

// DefaultCategories is the taste vocabulary used when none is configured.
var DefaultCategories = []string{"Sweet", "Bitter", "Sour", "Comfy", "Modern", "Boozy", "Light", "Fruity"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "cocktailnerd",
		Version: "0.3.0",

		Backend: BackendConfig{
			Provider: ProviderHTTP,
			BaseURL:  "http://localhost:5005",
			Timeout:  "30s",
			Model:    "gemini-2.5-flash",
		},

		Session: SessionConfig{
			Categories:   append([]string(nil), DefaultCategories...),
			EmptyQuery:   DefaultEmptyQuery,
			GenericError: DefaultGenericError,
			Timeout:      "60s",
		},

		Sanitizer: SanitizerConfig{
			Policy: sanitize.PolicyUGC,
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
			Format:    "json",
			File:      "cocktailnerd.log",
		},

		UI: UIConfig{
			Theme: "auto",
		},

		Stub: StubConfig{
			Addr:           ":5005",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults. A .env file next to the working
// directory is loaded before environment overrides are applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// defaults
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	return cfg, nil
}

// loadDotEnv populates the environment from a dotenv file if it exists.
// Variables already present in the environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("COCKTAIL_BACKEND_URL"); url != "" {
		c.Backend.BaseURL = url
	}
	if provider := os.Getenv("COCKTAIL_BACKEND_PROVIDER"); provider != "" {
		c.Backend.Provider = strings.ToLower(provider)
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Backend.APIKey = key
	}
	if level := os.Getenv("COCKTAIL_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// Backend providers.
const (
	ProviderHTTP  = "http"
	ProviderGenAI = "genai"
)

// ValidProviders lists all supported backend providers.
var ValidProviders = []string{ProviderHTTP, ProviderGenAI}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Backend.Provider {
	case ProviderHTTP:
		if c.Backend.BaseURL == "" {
			return errors.New("backend.base_url is required for the http provider")
		}
	case ProviderGenAI:
		if c.Backend.APIKey == "" {
			return errors.New("backend.api_key not configured (set GEMINI_API_KEY)")
		}
	default:
		return fmt.Errorf("invalid backend provider: %s (valid: %v)", c.Backend.Provider, ValidProviders)
	}

	if len(c.Session.Categories) == 0 {
		return errors.New("session.categories must not be empty")
	}
	for _, cat := range c.Session.Categories {
		if strings.TrimSpace(cat) == "" {
			return errors.New("session.categories must not contain blank entries")
		}
	}

	if strings.TrimSpace(c.Session.EmptyQuery) == "" {
		return errors.New("session.empty_query must not be blank")
	}
	if strings.TrimSpace(c.Session.GenericError) == "" {
		return errors.New("session.generic_error must not be blank")
	}

	switch c.Sanitizer.Policy {
	case sanitize.PolicyUGC, sanitize.PolicyStrict:
	default:
		return fmt.Errorf("invalid sanitizer policy: %s", c.Sanitizer.Policy)
	}

	return nil
}

// GetBackendTimeout returns the per-call transport timeout.
func (c *Config) GetBackendTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetTransportTimeout returns the HTTP client timeout for recommendation
// calls. It never undercuts the session timeout, so a slow backend fails with
// the session's timeout handling rather than a transport error.
func (c *Config) GetTransportTimeout() time.Duration {
	return max(c.GetBackendTimeout(), c.GetSessionTimeout())
}

// GetSessionTimeout returns the upper bound for one recommendation request.
func (c *Config) GetSessionTimeout() time.Duration {
	d, err := time.ParseDuration(c.Session.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}
