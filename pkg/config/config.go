package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the thread monitor
type Config struct {
	// Forum thread to monitor
	Forum ForumConfig `yaml:"forum" json:"forum"`

	// Notification webhook settings
	Webhook WebhookConfig `yaml:"webhook" json:"webhook"`

	// Persisted crawl state
	State StateConfig `yaml:"state" json:"state"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ForumConfig holds the forum-specific configuration
type ForumConfig struct {
	// Origin is the scheme+host the forum lives on. Relative author and
	// avatar links are resolved against it.
	Origin string `yaml:"origin" json:"origin"`

	// ThreadPath is the thread's path on the forum, with a trailing
	// slash; page URLs are ThreadPath + "page-<n>".
	ThreadPath string `yaml:"thread_path" json:"thread_path"`

	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// WebhookConfig holds notification sink configuration
type WebhookConfig struct {
	// URL is the sink endpoint. Treated as a secret; when empty it is
	// resolved through the secret store chain instead.
	URL string `yaml:"url" json:"url"`
}

// StateConfig holds cursor persistence configuration
type StateConfig struct {
	// Directory holds the last_page and last_post records and the
	// webhook.conf fallback.
	Directory string `yaml:"directory" json:"directory"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Forum: ForumConfig{
			Origin:     "https://bbs.io-tech.fi",
			ThreadPath: "/threads/151/",
			UserAgent:  "tarjousbot/1.0.0",
		},
		State: StateConfig{
			Directory: "/etc/tarjousbot",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if origin := os.Getenv("TARJOUSBOT_ORIGIN"); origin != "" {
		c.Forum.Origin = origin
	}
	if threadPath := os.Getenv("TARJOUSBOT_THREAD_PATH"); threadPath != "" {
		c.Forum.ThreadPath = threadPath
	}
	if userAgent := os.Getenv("TARJOUSBOT_USER_AGENT"); userAgent != "" {
		c.Forum.UserAgent = userAgent
	}
	if webhookURL := os.Getenv("TARJOUSBOT_WEBHOOK_URL"); webhookURL != "" {
		c.Webhook.URL = webhookURL
	}
	if stateDir := os.Getenv("TARJOUSBOT_STATE_DIR"); stateDir != "" {
		c.State.Directory = stateDir
	}
	if logLevel := os.Getenv("TARJOUSBOT_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("TARJOUSBOT_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".tarjousbot.yaml",
		".tarjousbot.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "tarjousbot", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "tarjousbot", "config.yml"),
		"/etc/tarjousbot/config.yaml",
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	origin, err := url.Parse(c.Forum.Origin)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		errs = append(errs, errors.New("forum origin must be an absolute URL"))
	}
	if !strings.HasPrefix(c.Forum.ThreadPath, "/") || !strings.HasSuffix(c.Forum.ThreadPath, "/") {
		errs = append(errs, errors.New("thread path must start and end with a slash"))
	}
	if c.Forum.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}

	if c.State.Directory == "" {
		errs = append(errs, errors.New("state directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if origin, ok := flags["origin"].(string); ok && origin != "" {
		c.Forum.Origin = origin
	}
	if threadPath, ok := flags["thread-path"].(string); ok && threadPath != "" {
		c.Forum.ThreadPath = threadPath
	}
	if webhookURL, ok := flags["webhook-url"].(string); ok && webhookURL != "" {
		c.Webhook.URL = webhookURL
	}
	if stateDir, ok := flags["state-dir"].(string); ok && stateDir != "" {
		c.State.Directory = stateDir
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tarjousbot.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
