// Package config loads the process-wide configuration: defaults, then an
// optional YAML file, then LEOCONNECT_* environment overrides, validated
// once at startup so misconfiguration fails fast with a descriptive error
// instead of surfacing mid-flow.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/leoconnect/leoconnect/internal/auth"
	"github.com/leoconnect/leoconnect/internal/kv"
)

// Config is the full application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	OAuth   OAuthConfig   `yaml:"oauth"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL string `yaml:"base_url" env:"LEOCONNECT_API_URL" validate:"required,url"`
}

// OAuthConfig configures the interactive sign-in flow.
type OAuthConfig struct {
	Platform        string   `yaml:"platform" env:"LEOCONNECT_OAUTH_PLATFORM" validate:"required,oneof=web ios android"`
	WebClientID     string   `yaml:"web_client_id" env:"LEOCONNECT_OAUTH_WEB_CLIENT_ID"`
	IOSClientID     string   `yaml:"ios_client_id" env:"LEOCONNECT_OAUTH_IOS_CLIENT_ID"`
	AndroidClientID string   `yaml:"android_client_id" env:"LEOCONNECT_OAUTH_ANDROID_CLIENT_ID"`
	ClientSecret    string   `yaml:"client_secret" env:"LEOCONNECT_OAUTH_CLIENT_SECRET"`
	Scopes          []string `yaml:"scopes" env:"LEOCONNECT_OAUTH_SCOPES" envSeparator:","`
	RedirectURL     string   `yaml:"redirect_url" env:"LEOCONNECT_OAUTH_REDIRECT_URL"`
	Issuer          string   `yaml:"issuer" env:"LEOCONNECT_OAUTH_ISSUER"`
}

// StorageConfig selects the device-local session store backend.
type StorageConfig struct {
	Backend string `yaml:"backend" env:"LEOCONNECT_STORAGE_BACKEND" validate:"required,oneof=file sqlite"`
	Path    string `yaml:"path" env:"LEOCONNECT_STORAGE_PATH"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEOCONNECT_LOG_LEVEL"`
	Format string `yaml:"format" env:"LEOCONNECT_LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API:     APIConfig{BaseURL: "http://localhost:5000"},
		OAuth:   OAuthConfig{Platform: string(auth.PlatformWeb)},
		Storage: StorageConfig{Backend: "file"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".leoconnect", "config.yaml")
}

// Load builds the configuration from defaults, the YAML file at path (or
// the default location when path is empty), and environment overrides.
//
// A missing file at the default location is fine; a missing file at an
// explicitly given path is an error. The result is validated before it is
// returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// No file, defaults and env carry the day.
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks structural constraints.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ValidateOAuth additionally checks the cross-field OAuth rules (the
// platform-correct client id, the web secret). Called on the sign-in
// path so missing credentials fail before anything interactive opens,
// without blocking commands that never sign in.
func (c *Config) ValidateOAuth() error {
	if err := c.AuthConfig().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// AuthConfig translates into the credential-exchange configuration.
func (c *Config) AuthConfig() auth.Config {
	return auth.Config{
		Platform:        auth.Platform(c.OAuth.Platform),
		WebClientID:     c.OAuth.WebClientID,
		IOSClientID:     c.OAuth.IOSClientID,
		AndroidClientID: c.OAuth.AndroidClientID,
		ClientSecret:    c.OAuth.ClientSecret,
		Scopes:          c.OAuth.Scopes,
		RedirectURL:     c.OAuth.RedirectURL,
		Issuer:          c.OAuth.Issuer,
	}
}

// OpenStore opens the configured session store backend. The returned
// closer releases backend resources; for the file store it is a no-op.
func (c *Config) OpenStore() (kv.Store, func() error, error) {
	path := c.Storage.Path
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("config: resolve home directory: %w", err)
		}
		name := "session.json"
		if c.Storage.Backend == "sqlite" {
			name = "session.db"
		}
		path = filepath.Join(home, ".leoconnect", name)
	}

	switch c.Storage.Backend {
	case "sqlite":
		store, err := kv.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		store, err := kv.NewFile(path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	}
}
