package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Upload   UploadConfig   `toml:"upload"`
	Session  SessionConfig  `toml:"session"`
	Database DatabaseConfig `toml:"database"`
	Export   ExportConfig   `toml:"export"`
	Log      LogConfig      `toml:"log"`
}

// BackendConfig locates the story generation backend.
type BackendConfig struct {
	BaseURL    string `toml:"base_url"`
	UploadPath string `toml:"upload_path"`
}

// UploadConfig contains the intake policy and the multipart field convention for this deployment.
type UploadConfig struct {
	AllowedExtensions []string     `toml:"allowed_extensions"`
	Fields            FieldsConfig `toml:"fields"`
}

// FieldsConfig names each multipart field sent to the backend.
type FieldsConfig struct {
	Files       string `toml:"files"`
	StoryPrompt string `toml:"story_prompt"`
	MaxWords    string `toml:"max_words"`
	MaxBeats    string `toml:"max_beats"`
	APIKey      string `toml:"api_key"`
}

// SessionConfig scopes the ephemeral slide storage.
type SessionConfig struct {
	ID         string `toml:"id"`
	StorageKey string `toml:"storage_key"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ExportConfig bounds image downloads during slide export.
type ExportConfig struct {
	Concurrency   int     `toml:"concurrency"`
	RatePerSecond float64 `toml:"rate_per_second"`
}

// LogConfig controls log verbosity and the TUI log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// TTL returns the session lifetime as a [time.Duration].
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the values that would otherwise fail late, at upload or export time.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend.base_url %q is not an absolute URL", ErrInvalidConfig, c.Backend.BaseURL)
	}
	if c.Session.StorageKey == "" {
		return fmt.Errorf("%w: session.storage_key must not be empty", ErrInvalidConfig)
	}
	if c.Session.TTLMinutes <= 0 {
		return fmt.Errorf("%w: session.ttl_minutes must be positive", ErrInvalidConfig)
	}
	if c.Export.Concurrency <= 0 {
		return fmt.Errorf("%w: export.concurrency must be positive", ErrInvalidConfig)
	}
	if c.Export.RatePerSecond <= 0 {
		return fmt.Errorf("%w: export.rate_per_second must be positive", ErrInvalidConfig)
	}

	f := c.Upload.Fields
	for name, v := range map[string]string{
		"files": f.Files, "story_prompt": f.StoryPrompt, "max_words": f.MaxWords, "max_beats": f.MaxBeats, "api_key": f.APIKey,
	} {
		if v == "" {
			return fmt.Errorf("%w: upload.fields.%s must not be empty", ErrInvalidConfig, name)
		}
	}
	return nil
}
