package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Upstream   UpstreamConfig   `toml:"upstream"`
	Mail       MailConfig       `toml:"mail"`
	Classifier ClassifierConfig `toml:"classifier"`
	Admin      AdminConfig      `toml:"admin"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host                   string `toml:"host"`
	Port                   int    `toml:"port"`
	Environment            string `toml:"environment"`
	LogLevel               string `toml:"log_level"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
}

// Production reports whether cookies should be issued with the Secure flag.
func (s ServerConfig) Production() bool {
	return s.Environment == "production"
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// UpstreamConfig points at the external auth + catalog API.
type UpstreamConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// MailConfig configures the transactional e-mail API and the notification dispatcher.
type MailConfig struct {
	BaseURL       string  `toml:"base_url"`
	APIKey        string  `toml:"api_key"`
	From          string  `toml:"from"`
	AdminTo       string  `toml:"admin_to"`
	Workers       int     `toml:"workers"`
	QueueSize     int     `toml:"queue_size"`
	RatePerSecond float64 `toml:"rate_per_second"`
}

// ClassifierConfig configures the content screening service.
type ClassifierConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

// AdminConfig holds the shared secret for admin endpoints.
type AdminConfig struct {
	Secret string `toml:"secret"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
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

// ResolveConfig loads path when it exists (defaults otherwise), then applies
// a .env file and LS_* environment overrides.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	if err := ApplyEnv(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return config, nil
}

// ApplyEnv overrides config values from LS_* environment variables.
func ApplyEnv(c *Config) error {
	str := map[string]*string{
		"LS_SERVER_HOST":        &c.Server.Host,
		"LS_ENVIRONMENT":        &c.Server.Environment,
		"LS_LOG_LEVEL":          &c.Server.LogLevel,
		"LS_DATABASE_PATH":      &c.Database.Path,
		"LS_UPSTREAM_URL":       &c.Upstream.BaseURL,
		"LS_MAIL_URL":           &c.Mail.BaseURL,
		"LS_MAIL_API_KEY":       &c.Mail.APIKey,
		"LS_MAIL_FROM":          &c.Mail.From,
		"LS_MAIL_ADMIN_TO":      &c.Mail.AdminTo,
		"LS_CLASSIFIER_URL":     &c.Classifier.BaseURL,
		"LS_CLASSIFIER_API_KEY": &c.Classifier.APIKey,
		"LS_CLASSIFIER_MODEL":   &c.Classifier.Model,
		"LS_ADMIN_SECRET":       &c.Admin.Secret,
	}
	for key, target := range str {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}

	ints := map[string]*int{
		"LS_SERVER_PORT":      &c.Server.Port,
		"LS_UPSTREAM_TIMEOUT": &c.Upstream.TimeoutSeconds,
		"LS_MAIL_WORKERS":     &c.Mail.Workers,
	}
	for key, target := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*target = n
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
